package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/goplan/pkg/planner"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "goplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())

	h, err := cfg.Heuristic()
	require.NoError(t, err)
	assert.Equal(t, planner.DeleteRelaxation(), h)
	assert.Zero(t, cfg.Timeout())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, `
search:
  heuristic: critical-path
  power: 2
  node_limit: 5000
  timeout: 30s
batch:
  jobs: 8
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2, cfg.Search.Power)
	assert.Equal(t, 5000, cfg.Search.NodeLimit)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 8, cfg.Batch.Jobs)
	assert.Equal(t, 64, cfg.Batch.QueueSize, "unset keys keep their default")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Encoding)

	h, err := cfg.Heuristic()
	require.NoError(t, err)
	assert.Equal(t, planner.CriticalPath(2), h)
	assert.Len(t, cfg.SolveOptions(), 3)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GOPLAN_HEURISTIC", "zero")
	t.Setenv("GOPLAN_JOBS", "2")
	cfg, err := Load(writeFile(t, "batch:\n  jobs: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, "zero", cfg.Search.Heuristic)
	assert.Equal(t, 2, cfg.Batch.Jobs)
}

func TestLoad_ParseError(t *testing.T) {
	_, err := Load(writeFile(t, "search: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown heuristic", func(c *Config) { c.Search.Heuristic = "landmarks" }, "Heuristic"},
		{"negative node limit", func(c *Config) { c.Search.NodeLimit = -1 }, "NodeLimit"},
		{"bad timeout", func(c *Config) { c.Search.Timeout = "soon" }, "Timeout"},
		{"no workers", func(c *Config) { c.Batch.Jobs = 0 }, "Jobs"},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, "Level"},
		{"metrics without namespace", func(c *Config) {
			c.Metrics.Namespace = ""
			c.Metrics.OutputPath = "out.prom"
		}, "Namespace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.Heuristic = "zero"
	cfg.Metrics.OutputPath = "metrics.prom"
	path := filepath.Join(t.TempDir(), "nested", "goplan.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
