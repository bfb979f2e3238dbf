// Package planner provides a classical STRIPS-style planning engine.
//
// Version: 0.1.0
//
// A Domain declares predicates and parametrized actions, a Problem grounds
// them over a set of objects with an initial and a goal State, and AStar
// searches for a minimum-cost sequence of ground actions reaching the goal.
package planner

import (
	"runtime"
	"runtime/debug"
)

// Version is the planning engine release.
const Version = "0.1.0"

// VersionInfo describes the running build.
type VersionInfo struct {
	Version    string   `json:"version"`
	GoVersion  string   `json:"go_version"`
	GitCommit  string   `json:"git_commit,omitempty"`
	BuildDate  string   `json:"build_date,omitempty"`
	Modified   bool     `json:"modified,omitempty"`
	Heuristics []string `json:"heuristics"`
}

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetVersionInfo reports the release, the toolchain that built the binary,
// the VCS stamp recorded by the go command when available, and the
// heuristic names accepted by ParseHeuristic.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GoVersion: runtime.Version(),
		Heuristics: []string{
			HeuristicZero.String(),
			HeuristicDeleteRelaxation.String(),
			HeuristicCriticalPath.String(),
		},
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.GitCommit = s.Value
			case "vcs.time":
				info.BuildDate = s.Value
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}
	return info
}

// String renders the one-line form printed by `goplan version`.
func (v VersionInfo) String() string {
	s := "goplan " + v.Version + " (" + v.GoVersion
	if v.GitCommit != "" {
		commit := v.GitCommit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		s += ", " + commit
		if v.Modified {
			s += "-dirty"
		}
	}
	return s + ")"
}
