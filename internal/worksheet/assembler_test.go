package worksheet

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/statsheet/internal/latex"
	"github.com/abhisek/statsheet/internal/problemgen"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"5", 5, false},
		{"  12\n", 12, false},
		{"100", 100, false},
		{"101", 0, true},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"2.5", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCount(tt.in, 100)
			if tt.wantErr {
				var ie *InputError
				require.ErrorAs(t, err, &ie)
				assert.Equal(t, "count", ie.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCount_NoUpperBound(t *testing.T) {
	n, err := ParseCount("5000", 0)
	require.NoError(t, err)
	assert.Equal(t, 5000, n)
}

func TestAssemble(t *testing.T) {
	gen, err := problemgen.NewMean(problemgen.DefaultSpec(problemgen.FamilyMean), rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	ps, err := Assemble(gen, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, ps.Requested)
	assert.Len(t, ps.Problems, 4)
	assert.Equal(t, problemgen.FamilyMean, ps.Spec.Family)

	qs := latex.SplitItems(ps.QuestionBlock())
	as := latex.SplitItems(ps.AnswerBlock())
	require.Len(t, qs, 4)
	require.Len(t, as, 4)
	for i, p := range ps.Problems {
		assert.Equal(t, p.Question, qs[i])
		assert.Equal(t, p.Answer, as[i])
	}
}

func TestAssemble_SingleProblem(t *testing.T) {
	gen, err := problemgen.NewMedian(problemgen.DefaultSpec(problemgen.FamilyMedian), rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)

	ps, err := Assemble(gen, 1)
	require.NoError(t, err)
	assert.NotContains(t, ps.QuestionBlock(), latex.ItemDelimiter)
	assert.True(t, strings.HasPrefix(ps.AnswerBlock(), "The median is "))
}

type failingGenerator struct {
	okCalls int
	calls   int
}

var errBoom = errors.New("boom")

func (g *failingGenerator) Spec() problemgen.Spec {
	return problemgen.DefaultSpec(problemgen.FamilyMean)
}

func (g *failingGenerator) Generate() (problemgen.Problem, error) {
	g.calls++
	if g.calls > g.okCalls {
		return problemgen.Problem{}, errBoom
	}
	return problemgen.MeanProblem([]int{1, 2, 3}), nil
}

func TestAssemble_FailureDiscardsSet(t *testing.T) {
	gen := &failingGenerator{okCalls: 2}

	ps, err := Assemble(gen, 5)
	assert.Nil(t, ps)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "problem 3 of 5")
	assert.Equal(t, 3, gen.calls)
}

func TestAssemble_RejectsNonPositive(t *testing.T) {
	gen := &failingGenerator{okCalls: 10}

	_, err := Assemble(gen, 0)
	var ie *InputError
	assert.ErrorAs(t, err, &ie)
	assert.Equal(t, 0, gen.calls)
}

func TestProblemSetMarkdown(t *testing.T) {
	set := &ProblemSet{Problems: []problemgen.Problem{
		{Question: "Find the mean of the following numbers:\n2, 4, 6", Answer: "4"},
		{Question: "Find the mean of the following numbers:\n1, 1", Answer: "1"},
	}}

	want := "# Mean Problems\n\n## Questions\n\n" +
		"1. Find the mean of the following numbers:  \n   2, 4, 6\n" +
		"2. Find the mean of the following numbers:  \n   1, 1\n" +
		"\n## Answer Key\n\n" +
		"1. 4\n" +
		"2. 1\n"
	assert.Equal(t, want, set.Markdown("Mean Problems"))
}
