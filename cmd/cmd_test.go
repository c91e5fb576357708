package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/statsheet/internal/problemgen"
	"github.com/abhisek/statsheet/internal/store"
	"github.com/abhisek/statsheet/internal/testutils"
	"github.com/abhisek/statsheet/internal/worksheet"
)

// isolate points config, database and toolchain lookups at temp locations.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STATSHEET_CONFIG", filepath.Join(dir, "absent.yaml"))
	t.Setenv("STATSHEET_DB", filepath.Join(dir, "history.db"))
	t.Setenv("STATSHEET_OUTPUT_DIR", filepath.Join(dir, "out"))
	return dir
}

// execute runs the root command with args and resets every flag afterwards,
// since cobra keeps flag state between runs.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { resetFlags(rootCmd) })

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestFamiliesCommand(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "families")
	require.NoError(t, err)
	assert.Contains(t, out, "mean")
	assert.Contains(t, out, "median")
	assert.Contains(t, out, "1-20")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "statsheet (devel)\n", out)
}

func TestGenerateCommand(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "generate", "--family", "median", "--count", "3", "--seed", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Questions")
	assert.Contains(t, out, "Answer Key")
	assert.Equal(t, 3, strings.Count(out, "Find the median"))
	assert.Equal(t, 3, strings.Count(out, "The median is"))
}

func TestGenerateCommand_SeedIsReproducible(t *testing.T) {
	isolate(t)
	first, _, err := execute(t, "generate", "--count", "4", "--seed", "9", "--blocks")
	require.NoError(t, err)
	resetFlags(rootCmd)
	second, _, err := execute(t, "generate", "--count", "4", "--seed", "9", "--blocks")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateCommand_InvalidInput(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "generate", "--count", "abc")
	var ie *worksheet.InputError
	assert.ErrorAs(t, err, &ie)

	resetFlags(rootCmd)
	_, _, err = execute(t, "generate", "--family", "mode")
	assert.ErrorContains(t, err, "unknown problem family")

	resetFlags(rootCmd)
	_, _, err = execute(t, "generate", "--min", "30", "--max", "10")
	assert.ErrorContains(t, err, "min 30 is greater than max 10")

	resetFlags(rootCmd)
	_, _, err = execute(t, "generate", "--min", "0", "--max", "9223372036854775807")
	var cfgErr *problemgen.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "max", cfgErr.Field)
}

func TestExportCommand(t *testing.T) {
	testutils.RequireShell(t)
	dir := isolate(t)
	bin := t.TempDir()
	compiler := testutils.WriteScript(t, bin, "fakelatex", testutils.FakeCompiler)
	t.Setenv("STATSHEET_COMPILER", compiler)
	t.Setenv("STATSHEET_TOOLCHAIN_PATH", testutils.FakePoppler(t))

	out, stderr, err := execute(t, "export", "--count", "2", "--header", "Unit 3", "--name", "unit3", "--seed", "1")
	require.NoError(t, err, stderr)

	outDir := filepath.Join(dir, "out")
	assert.FileExists(t, filepath.Join(outDir, "unit3.tex"))
	assert.FileExists(t, filepath.Join(outDir, "unit3.pdf"))
	assert.FileExists(t, filepath.Join(outDir, "unit3_preview.png"))
	assert.Contains(t, out, "pages:   2")
	assert.Contains(t, out, "(170x220)")

	tex, err := os.ReadFile(filepath.Join(outDir, "unit3.tex"))
	require.NoError(t, err)
	assert.Contains(t, string(tex), `\title{Unit 3}`)

	st, err := store.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	defer st.Close()
	recs, err := st.ExportRepo().Recent(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Success)
	assert.Equal(t, "Unit 3", recs[0].Header)
	assert.Equal(t, 2, recs[0].ProblemCount)
}

func TestExportCommand_Sample(t *testing.T) {
	testutils.RequireShell(t)
	dir := isolate(t)
	bin := t.TempDir()
	t.Setenv("STATSHEET_COMPILER", testutils.WriteScript(t, bin, "fakelatex", testutils.FakeCompiler))
	t.Setenv("STATSHEET_TOOLCHAIN_PATH", testutils.FakePoppler(t))

	_, stderr, err := execute(t, "export", "--sample")
	require.NoError(t, err, stderr)
	assert.FileExists(t, filepath.Join(dir, "out", "sample_render.pdf"))
	assert.FileExists(t, filepath.Join(dir, "out", "sample_render_preview.png"))
}

func TestExportCommand_MissingCompiler(t *testing.T) {
	dir := isolate(t)
	t.Setenv("STATSHEET_COMPILER", filepath.Join(dir, "no-such-latex"))

	_, _, err := execute(t, "export", "--count", "1")
	assert.ErrorContains(t, err, "render failed")

	st, err := store.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	defer st.Close()
	recs, err := st.ExportRepo().Recent(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.False(t, recs[0].Success)
}

func TestHistoryCommand(t *testing.T) {
	dir := isolate(t)

	out, _, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No exports yet.")

	st, err := store.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	for _, h := range []string{"first", "second"} {
		_, err := st.ExportRepo().Append(context.Background(), store.ExportRecord{Header: h, Family: "mean", Success: true})
		require.NoError(t, err)
	}
	require.NoError(t, st.Close())

	resetFlags(rootCmd)
	out, _, err = execute(t, "history", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "second")
	assert.NotContains(t, out, "first")

	resetFlags(rootCmd)
	out, _, err = execute(t, "history", "--prune", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Kept the 0 most recent")
}

func TestGenerateCommand_BufferIsPlain(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "generate", "--count", "2", "--seed", "3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Questions\n"), out)
	assert.False(t, isTerminalWriter(&bytes.Buffer{}))
}

func TestPrintMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printMarkdown(&buf, "# Mean Problems\n\n## Answer Key\n\n1. The mean is 4.0\n", "notty"))
	assert.Contains(t, buf.String(), "Answer Key")
	assert.Contains(t, buf.String(), "The mean is 4.0")
}

func TestExportCommand_MetricsFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("STATSHEET_COMPILER", filepath.Join(dir, "no-such-latex"))
	metricsPath := filepath.Join(dir, "statsheet.prom")

	_, _, err := execute(t, "export", "--count", "1", "--metrics-file", metricsPath)
	require.Error(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `statsheet_exports_total{result="failed"} 1`)
}
