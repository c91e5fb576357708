package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/abhisek/statsheet/internal/config"
	"github.com/abhisek/statsheet/internal/latex"
	"github.com/abhisek/statsheet/internal/logging"
	"github.com/abhisek/statsheet/internal/preview"
	"github.com/abhisek/statsheet/internal/render"
	"github.com/abhisek/statsheet/internal/store"
	"github.com/abhisek/statsheet/internal/worksheet"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "statsheet",
	Short: "Statistics worksheet generator",
	Long:  "Statsheet generates mean and median practice worksheets with an answer key and typesets them to PDF with LaTeX.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides STATSHEET_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to export history database (overrides STATSHEET_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(familiesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves settings from the config file, environment and the
// persistent flags, in increasing priority.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB = p
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// newLogger builds the stderr logger for cfg.LogLevel.
func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// resolveDBPath returns cfg.DB (set by --db, the config file or
// STATSHEET_DB), falling back to the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openHistory opens the export history. A failure is reported on stderr and
// the caller continues without history.
func openHistory(cfg config.Config) *store.Store {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: export history disabled: %v\n", err)
		return nil
	}
	st, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: export history disabled: %v\n", err)
		return nil
	}
	return st
}

// pipeline bundles the render, preview and export components built from
// one config.
type pipeline struct {
	renderer   *render.Renderer
	rasterizer *preview.Rasterizer
	exporter   *worksheet.Exporter
}

func newPipeline(cfg config.Config, st *store.Store, logger *slog.Logger) pipeline {
	r := render.New(cfg.Compiler, cfg.OutputDir, logger)
	p := preview.New(cfg.ToolchainPath, cfg.PreviewDPI, logger)

	var history store.ExportRepo
	if st != nil {
		history = st.ExportRepo()
	}
	e := worksheet.NewExporter(r, p, history, latex.Options{Escape: cfg.Escape}, logger)
	e.DefaultHeader = cfg.DefaultHeader

	return pipeline{renderer: r, rasterizer: p, exporter: e}
}
