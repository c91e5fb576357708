package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"STATSHEET_TOOLCHAIN_PATH", "STATSHEET_COMPILER", "STATSHEET_OUTPUT_DIR",
		"STATSHEET_DEFAULT_HEADER", "STATSHEET_DB", "STATSHEET_LOG_LEVEL",
		"STATSHEET_PREVIEW_DPI", "STATSHEET_MAX_PROBLEMS", "STATSHEET_ESCAPE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "Generated Worksheet", cfg.DefaultHeader)
	assert.Equal(t, "", cfg.ToolchainPath)
}

func TestLoad_MissingFileIsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
toolchain_path: /opt/poppler/bin
output_dir: sheets
preview_dpi: 100
escape: true
`), 0o644))

	t.Setenv("STATSHEET_OUTPUT_DIR", "/tmp/override")
	t.Setenv("STATSHEET_MAX_PROBLEMS", "25")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/poppler/bin", cfg.ToolchainPath)
	assert.Equal(t, "/tmp/override", cfg.OutputDir)
	assert.Equal(t, 100, cfg.PreviewDPI)
	assert.Equal(t, 25, cfg.MaxProblems)
	assert.True(t, cfg.Escape)
	assert.Equal(t, "pdflatex", cfg.Compiler)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preview_dpi: [nope"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATSHEET_PREVIEW_DPI", "high")

	_, err := Load("")
	assert.ErrorContains(t, err, "STATSHEET_PREVIEW_DPI")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty compiler", func(c *Config) { c.Compiler = "" }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"zero dpi", func(c *Config) { c.PreviewDPI = 0 }},
		{"zero max problems", func(c *Config) { c.MaxProblems = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("STATSHEET_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "statsheet", "config.yaml"), p)

	t.Setenv("STATSHEET_CONFIG", "/etc/statsheet.yaml")
	p, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/statsheet.yaml", p)
}
