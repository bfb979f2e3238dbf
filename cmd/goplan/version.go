package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitrdm/goplan/pkg/planner"
)

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the goplan version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info := planner.GetVersionInfo()
		fmt.Fprintln(cmd.OutOrStdout(), info)
		fmt.Fprintf(cmd.OutOrStdout(), "heuristics: %s\n", strings.Join(info.Heuristics, ", "))
	},
}
