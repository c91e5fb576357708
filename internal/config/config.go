// Package config resolves statsheet's settings from defaults, an optional
// YAML file and STATSHEET_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable setting.
type Config struct {
	// ToolchainPath is the directory containing pdftoppm and pdfinfo.
	// Empty means they are found on $PATH.
	ToolchainPath string `yaml:"toolchain_path"`

	// Compiler is the LaTeX compiler program.
	Compiler string `yaml:"compiler"`

	// OutputDir receives .tex, .pdf and preview files.
	OutputDir string `yaml:"output_dir"`

	// PreviewDPI is the rasterization resolution of preview images.
	PreviewDPI int `yaml:"preview_dpi"`

	// DefaultHeader titles worksheets exported without a header.
	DefaultHeader string `yaml:"default_header"`

	// Escape turns on LaTeX escaping of problem text.
	Escape bool `yaml:"escape"`

	// MaxProblems caps how many problems one worksheet may ask for.
	MaxProblems int `yaml:"max_problems"`

	// DB is the export history database path. Empty uses the XDG default.
	DB string `yaml:"db"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Compiler:      "pdflatex",
		OutputDir:     "output",
		PreviewDPI:    200,
		DefaultHeader: "Generated Worksheet",
		MaxProblems:   100,
		LogLevel:      "warn",
	}
}

// Load returns Default overlaid with the YAML file at path (skipped when
// path is empty or the file does not exist) and then with environment
// variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no component can work with.
func (c Config) Validate() error {
	if c.Compiler == "" {
		return errors.New("config: compiler must not be empty")
	}
	if c.OutputDir == "" {
		return errors.New("config: output_dir must not be empty")
	}
	if c.PreviewDPI <= 0 {
		return fmt.Errorf("config: preview_dpi must be positive, got %d", c.PreviewDPI)
	}
	if c.MaxProblems < 1 {
		return fmt.Errorf("config: max_problems must be at least 1, got %d", c.MaxProblems)
	}
	return nil
}

// applyEnv overlays STATSHEET_* variables.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"STATSHEET_TOOLCHAIN_PATH": &cfg.ToolchainPath,
		"STATSHEET_COMPILER":       &cfg.Compiler,
		"STATSHEET_OUTPUT_DIR":     &cfg.OutputDir,
		"STATSHEET_DEFAULT_HEADER": &cfg.DefaultHeader,
		"STATSHEET_DB":             &cfg.DB,
		"STATSHEET_LOG_LEVEL":      &cfg.LogLevel,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"STATSHEET_PREVIEW_DPI":  &cfg.PreviewDPI,
		"STATSHEET_MAX_PROBLEMS": &cfg.MaxProblems,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: invalid integer %q", key, v)
			}
			*dst = n
		}
	}

	if v, ok := lookup("STATSHEET_ESCAPE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STATSHEET_ESCAPE: invalid boolean %q", v)
		}
		cfg.Escape = b
	}
	return nil
}

// DefaultPath resolves the config file location:
// 1. STATSHEET_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/statsheet/config.yaml
// 3. ~/.config/statsheet/config.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv("STATSHEET_CONFIG"); p != "" {
		return p, nil
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "statsheet", "config.yaml"), nil
}
