package cmd

import (
	"fmt"

	"github.com/abhisek/statsheet/internal/app"
	"github.com/abhisek/statsheet/internal/logging"
	wsscreen "github.com/abhisek/statsheet/internal/screens/worksheet"
	"github.com/spf13/cobra"
)

// runApp loads settings, opens the history and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := openHistory(cfg)
	if st != nil {
		defer st.Close()
	}

	// stderr would draw over the alternate screen.
	tc := newPipeline(cfg, st, logging.NewNop())

	opts := app.Options{
		Exporter: tc.exporter,
		Worksheet: wsscreen.Options{
			DefaultHeader: cfg.DefaultHeader,
			MaxProblems:   cfg.MaxProblems,
		},
		Status: fmt.Sprintf("%s → %s", cfg.Compiler, cfg.OutputDir),
	}
	if st != nil {
		opts.History = st.ExportRepo()
	}

	return app.Run(opts)
}
