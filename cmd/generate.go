package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/abhisek/statsheet/internal/latex"
	"github.com/abhisek/statsheet/internal/problemgen"
	"github.com/abhisek/statsheet/internal/worksheet"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print generated problems and their answer key",
	Long: `Generate a problem set and print it without typesetting.

On a terminal the set is rendered as styled markdown; --plain or a
redirected stdout prints numbered plain-text lists instead.

With --blocks the questions and answers are printed as two blank-line
separated blocks, the form the export command and the TUI feed to LaTeX.`,
	RunE: runGenerate,
}

func init() {
	addProblemFlags(generateCmd)
	generateCmd.Flags().Bool("blocks", false, "Print raw question and answer blocks instead of numbered lists")
	generateCmd.Flags().Bool("plain", false, "Print plain text even on a terminal")
}

// addProblemFlags registers the flags that select and size a problem set.
func addProblemFlags(c *cobra.Command) {
	c.Flags().String("family", string(problemgen.FamilyMean), "Problem family: mean or median")
	c.Flags().String("count", "10", "Number of problems")
	c.Flags().Int("min", 0, "Smallest sampled value (0 = family default)")
	c.Flags().Int("max", 0, "Largest sampled value (0 = family default)")
	c.Flags().Int("values", 0, "Values per problem (0 = family default)")
	c.Flags().Uint64("seed", 0, "Random seed for reproducible sets (0 = random)")
}

// assembleFromFlags parses the problem flags and assembles a set.
func assembleFromFlags(cmd *cobra.Command, maxProblems int) (*worksheet.ProblemSet, error) {
	familyVal, _ := cmd.Flags().GetString("family")
	countVal, _ := cmd.Flags().GetString("count")
	minVal, _ := cmd.Flags().GetInt("min")
	maxVal, _ := cmd.Flags().GetInt("max")
	values, _ := cmd.Flags().GetInt("values")
	seed, _ := cmd.Flags().GetUint64("seed")

	family, err := problemgen.ParseFamily(familyVal)
	if err != nil {
		return nil, err
	}
	n, err := worksheet.ParseCount(countVal, maxProblems)
	if err != nil {
		return nil, err
	}

	spec := problemgen.DefaultSpec(family)
	if cmd.Flags().Changed("min") {
		spec.Min = minVal
	}
	if cmd.Flags().Changed("max") {
		spec.Max = maxVal
	}
	if cmd.Flags().Changed("values") {
		spec.Count = values
	}

	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
	}
	gen, err := problemgen.New(spec, rng)
	if err != nil {
		return nil, fmt.Errorf("configure %s problems: %w", family, err)
	}
	return worksheet.Assemble(gen, n)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	set, err := assembleFromFlags(cmd, cfg.MaxProblems)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if blocks, _ := cmd.Flags().GetBool("blocks"); blocks {
		fmt.Fprintln(out, set.QuestionBlock())
		fmt.Fprintln(out)
		fmt.Fprintln(out, set.AnswerBlock())
		return nil
	}

	if plain, _ := cmd.Flags().GetBool("plain"); !plain && isTerminalWriter(out) {
		title := set.Spec.Family.DisplayName() + " Problems"
		if err := printMarkdown(out, set.Markdown(title), markdownStyle()); err == nil {
			return nil
		}
	}

	printNumbered(out, "Questions", latex.SplitItems(set.QuestionBlock()))
	fmt.Fprintln(out)
	printNumbered(out, "Answer Key", latex.SplitItems(set.AnswerBlock()))
	return nil
}

func printNumbered(w io.Writer, title string, items []string) {
	fmt.Fprintln(w, title)
	for i, it := range items {
		fmt.Fprintf(w, "%3d. %s\n", i+1, it)
	}
}

// markdownStyle picks the glamour style matching the terminal background.
func markdownStyle() string {
	if termenv.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func printMarkdown(w io.Writer, md, style string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}
	rendered, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, rendered)
	return err
}

// isTerminalWriter reports whether w is an *os.File attached to a terminal.
func isTerminalWriter(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
