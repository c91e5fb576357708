package problemgen

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Generator produces statistics problems for one Spec.
type Generator interface {
	// Spec returns the parameters this generator samples with.
	Spec() Spec

	// Generate produces a single, independent problem.
	Generate() (Problem, error)
}

// sampler draws Count integers uniformly from [Min, Max].
type sampler struct {
	spec Spec
	rng  *rand.Rand
}

func newSampler(spec Spec, rng *rand.Rand) (sampler, error) {
	if err := spec.Validate(); err != nil {
		return sampler{}, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return sampler{spec: spec, rng: rng}, nil
}

func (s sampler) Spec() Spec { return s.spec }

func (s sampler) sample() []int {
	span := int64(s.spec.Max) - int64(s.spec.Min) + 1
	values := make([]int, s.spec.Count)
	for i := range values {
		values[i] = int(int64(s.spec.Min) + s.rng.Int64N(span))
	}
	return values
}

// MeanGenerator asks for the arithmetic mean of the sampled values,
// listed in the order they were drawn.
type MeanGenerator struct {
	sampler
}

// NewMean returns a MeanGenerator. A nil rng uses a randomly seeded source.
func NewMean(spec Spec, rng *rand.Rand) (Generator, error) {
	s, err := newSampler(spec, rng)
	if err != nil {
		return nil, err
	}
	return &MeanGenerator{sampler: s}, nil
}

func (g *MeanGenerator) Generate() (Problem, error) {
	return MeanProblem(g.sample()), nil
}

// MeanProblem formats the mean problem for a fixed list of values.
func MeanProblem(values []int) Problem {
	mean := Mean(values)
	return Problem{
		Question: "Find the mean of the following numbers:\n" + formatValues(values),
		Answer:   "The mean is " + formatDecimal(mean),
		Values:   values,
		Result:   mean,
	}
}

// MedianGenerator asks for the median of the sampled values, listed in
// ascending order.
type MedianGenerator struct {
	sampler
}

// NewMedian returns a MedianGenerator. A nil rng uses a randomly seeded source.
func NewMedian(spec Spec, rng *rand.Rand) (Generator, error) {
	s, err := newSampler(spec, rng)
	if err != nil {
		return nil, err
	}
	return &MedianGenerator{sampler: s}, nil
}

func (g *MedianGenerator) Generate() (Problem, error) {
	return MedianProblem(g.sample()), nil
}

// MedianProblem sorts values and formats the median problem for them.
func MedianProblem(values []int) Problem {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	median, whole := Median(sorted)
	answer := formatDecimal(median)
	if whole {
		answer = fmt.Sprintf("%d", int(median))
	}
	return Problem{
		Question: "Find the median of the following numbers:\n" + formatValues(sorted),
		Answer:   "The median is " + answer,
		Values:   sorted,
		Result:   median,
	}
}
