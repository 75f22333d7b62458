package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trendlines.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, runtime.NumCPU(), cfg.WorkerCount())

	p := cfg.Detection.Params()
	assert.Nil(t, p.MaxDistance)
	assert.Equal(t, 1, p.MinEdges)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
detection:
  max_distance: 25.5
  azimuth: 45
  azimuth_tol: 10
  damping: 0.3
  min_edges: 3
source:
  label_property: lineament
  part_property: segment
workers: 4
log:
  level: debug
serve:
  addr: 127.0.0.1:9000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Detection.MaxDistance)
	assert.Equal(t, 25.5, *cfg.Detection.MaxDistance)
	assert.Equal(t, 45.0, *cfg.Detection.Azimuth)
	assert.Equal(t, 10.0, *cfg.Detection.AzimuthTol)
	assert.Equal(t, 0.3, cfg.Detection.Damping)
	assert.Equal(t, 3, cfg.Detection.MinEdges)
	assert.Equal(t, 4, cfg.WorkerCount())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9000", cfg.Serve.Addr)

	opts := cfg.Source.Options()
	assert.Equal(t, "lineament", opts.LabelProperty)
	assert.Equal(t, "segment", opts.PartProperty)
	// untouched keys keep their defaults
	assert.Equal(t, "x", opts.Columns.X)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "detection:\n  damping: 0.3\n  min_edges: 2\n")
	t.Setenv("TRENDLINES_DETECTION_DAMPING", "0.8")
	t.Setenv("TRENDLINES_DETECTION_MAX_DISTANCE", "12")
	t.Setenv("TRENDLINES_WORKERS", "2")
	t.Setenv("TRENDLINES_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.8, cfg.Detection.Damping)
	assert.Equal(t, 2, cfg.Detection.MinEdges)
	require.NotNil(t, cfg.Detection.MaxDistance)
	assert.Equal(t, 12.0, *cfg.Detection.MaxDistance)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"damping above one", "detection:\n  damping: 1.5\n", "Damping"},
		{"negative damping", "detection:\n  damping: -0.1\n", "Damping"},
		{"zero min edges", "detection:\n  min_edges: 0\n", "MinEdges"},
		{"zero max distance", "detection:\n  max_distance: 0\n", "MaxDistance"},
		{"azimuth out of range", "detection:\n  azimuth: 400\n  azimuth_tol: 5\n", "Azimuth"},
		{"azimuth without tolerance", "detection:\n  azimuth: 40\n", "AzimuthTol"},
		{"unknown log level", "log:\n  level: chatty\n", "Level"},
		{"too many workers", "workers: 1000\n", "Workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(t.TempDir())
	assert.ErrorContains(t, err, "directory")

	big := writeConfig(t, "# "+strings.Repeat("x", maxConfigFileSize)+"\n")
	_, err = Load(big)
	assert.ErrorContains(t, err, "too large")

	_, err = Load(writeConfig(t, "detection: [unclosed\n"))
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "detection.min_edges", envKey("TRENDLINES_DETECTION_MIN_EDGES"))
	assert.Equal(t, "source.label_property", envKey("TRENDLINES_SOURCE_LABEL_PROPERTY"))
	assert.Equal(t, "workers", envKey("TRENDLINES_WORKERS"))
}
