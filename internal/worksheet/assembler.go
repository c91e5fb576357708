// Package worksheet turns problem generators into worksheets: it assembles
// problem sets from user input and drives the build, render and preview
// pipeline for an export.
package worksheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/statsheet/internal/latex"
	"github.com/abhisek/statsheet/internal/problemgen"
)

// InputError reports user-entered text that could not be accepted.
type InputError struct {
	Field string
	Input string
	Msg   string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Input, e.Msg)
}

// ParseCount parses the number of problems typed by the user. It must be an
// integer of at least 1, and no more than max when max is positive.
func ParseCount(text string, max int) (int, error) {
	s := strings.TrimSpace(text)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &InputError{Field: "count", Input: text, Msg: "must be a whole number"}
	}
	if n < 1 {
		return 0, &InputError{Field: "count", Input: text, Msg: "must be at least 1"}
	}
	if max > 0 && n > max {
		return 0, &InputError{Field: "count", Input: text, Msg: fmt.Sprintf("must be at most %d", max)}
	}
	return n, nil
}

// ProblemSet is the ordered output of one assembly.
type ProblemSet struct {
	Spec      problemgen.Spec
	Requested int
	Problems  []problemgen.Problem
}

// QuestionBlock joins the questions with the item delimiter.
func (ps *ProblemSet) QuestionBlock() string {
	qs := make([]string, len(ps.Problems))
	for i, p := range ps.Problems {
		qs[i] = p.Question
	}
	return strings.Join(qs, latex.ItemDelimiter)
}

// AnswerBlock joins the answers with the item delimiter.
func (ps *ProblemSet) AnswerBlock() string {
	as := make([]string, len(ps.Problems))
	for i, p := range ps.Problems {
		as[i] = p.Answer
	}
	return strings.Join(as, latex.ItemDelimiter)
}

// Assemble calls gen n times in order. If any call fails the partial set
// is dropped and the error returned.
func Assemble(gen problemgen.Generator, n int) (*ProblemSet, error) {
	if n < 1 {
		return nil, &InputError{Field: "count", Input: strconv.Itoa(n), Msg: "must be at least 1"}
	}
	problems := make([]problemgen.Problem, 0, n)
	for i := 0; i < n; i++ {
		p, err := gen.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate problem %d of %d: %w", i+1, n, err)
		}
		problems = append(problems, p)
	}
	return &ProblemSet{Spec: gen.Spec(), Requested: n, Problems: problems}, nil
}

// Markdown renders the set as a markdown document with numbered question
// and answer-key lists.
func (ps *ProblemSet) Markdown(title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n## Questions\n\n", title)
	for i, p := range ps.Problems {
		writeListItem(&b, i+1, p.Question)
	}
	b.WriteString("\n## Answer Key\n\n")
	for i, p := range ps.Problems {
		writeListItem(&b, i+1, p.Answer)
	}
	return b.String()
}

// writeListItem keeps multi-line text inside one list item using hard
// line breaks.
func writeListItem(b *strings.Builder, n int, text string) {
	indent := strings.Repeat(" ", len(strconv.Itoa(n))+2)
	fmt.Fprintf(b, "%d. %s\n", n, strings.ReplaceAll(text, "\n", "  \n"+indent))
}
