package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/statsheet/internal/metrics"
	"github.com/abhisek/statsheet/internal/preview"
	"github.com/abhisek/statsheet/internal/render"
	"github.com/abhisek/statsheet/internal/worksheet"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Generate a worksheet and typeset it to PDF",
	Long: `Generate a problem set, build the LaTeX worksheet, compile it with the
configured compiler and rasterize the first page as a PNG preview.

The .tex, .pdf and _preview.png files are written to the output directory.
A missing preview is reported but does not fail the export.

With --sample a fixed test document is compiled instead, to check that the
LaTeX and poppler toolchain is installed.`,
	RunE: runExport,
}

func init() {
	addProblemFlags(exportCmd)
	exportCmd.Flags().String("header", "", "Worksheet title (default from config)")
	exportCmd.Flags().String("name", "", "Output base name (default: header plus timestamp)")
	exportCmd.Flags().String("output-dir", "", "Directory for generated files (overrides config)")
	exportCmd.Flags().Bool("escape", false, "Escape LaTeX special characters in problem text")
	exportCmd.Flags().Bool("sample", false, "Compile a fixed sample document instead of a worksheet")
	exportCmd.Flags().String("metrics-file", "", "Write Prometheus textfile metrics for this run to the given path")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.OutputDir = dir
	}
	if cmd.Flags().Changed("escape") {
		cfg.Escape, _ = cmd.Flags().GetBool("escape")
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if path, _ := cmd.Flags().GetString("metrics-file"); path != "" {
		m = metrics.New()
		defer func() {
			if werr := m.WriteTextfile(path); werr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", werr)
			}
		}()
	}

	if sample, _ := cmd.Flags().GetBool("sample"); sample {
		pl := newPipeline(cfg, nil, logger)
		pl.exporter.Metrics = m
		return runSample(cmd, pl)
	}

	set, err := assembleFromFlags(cmd, cfg.MaxProblems)
	if err != nil {
		return err
	}

	st := openHistory(cfg)
	if st != nil {
		defer st.Close()
	}
	pl := newPipeline(cfg, st, logger)
	pl.exporter.Metrics = m

	header, _ := cmd.Flags().GetString("header")
	name, _ := cmd.Flags().GetString("name")
	res, err := pl.exporter.Export(cmd.Context(), worksheet.ExportRequest{
		Header:    header,
		Questions: set.QuestionBlock(),
		Answers:   set.AnswerBlock(),
		Name:      name,
		Family:    string(set.Spec.Family),
		Count:     len(set.Problems),
	})
	if err != nil {
		if errors.Is(err, render.ErrRenderFailed) {
			return fmt.Errorf("%w\n\nCheck that %q is installed, or retry with --escape if the text contains LaTeX special characters", err, cfg.Compiler)
		}
		return err
	}

	printResult(cmd, pl, res)
	return nil
}

func runSample(cmd *cobra.Command, pl pipeline) error {
	start := time.Now()
	art, err := pl.renderer.Render(cmd.Context(), render.SampleSource, render.SampleName)
	pl.exporter.Metrics.ObserveRender(start, art != nil && art.Degraded, err)
	if err != nil {
		return err
	}
	res := &worksheet.ExportResult{Name: render.SampleName, Artifact: art}
	pl.exporter.Preview(cmd.Context(), res)
	printResult(cmd, pl, res)
	return nil
}

func printResult(cmd *cobra.Command, pl pipeline, res *worksheet.ExportResult) {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	fmt.Fprintln(out, "source: ", res.Artifact.SourcePath)
	fmt.Fprintln(out, "pdf:    ", res.Artifact.PDFPath)
	if pages, err := pl.rasterizer.PageCount(cmd.Context(), res.Artifact.PDFPath); err == nil {
		fmt.Fprintln(out, "pages:  ", pages)
	}
	if res.Preview != nil {
		fmt.Fprintf(out, "preview: %s (%dx%d)\n", res.Preview.Path, res.Preview.Width, res.Preview.Height)
	}

	if res.Artifact.Degraded {
		fmt.Fprintln(errOut, "warning: the compiler reported errors; the PDF may be incomplete")
	}
	if res.Document != nil && res.Document.Mismatch() {
		fmt.Fprintf(errOut, "warning: %d questions but %d answers\n",
			len(res.Document.Questions), len(res.Document.Answers))
	}
	if res.PreviewErr != nil {
		msg := res.PreviewErr.Error()
		if errors.Is(res.PreviewErr, preview.ErrPreviewFailed) {
			msg += " (is poppler installed? set toolchain_path)"
		}
		fmt.Fprintln(errOut, "warning:", msg)
	}
}
