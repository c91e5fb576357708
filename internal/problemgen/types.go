package problemgen

import (
	"fmt"
	"math"
	"strings"
)

// ValueLimit bounds the magnitude of Min and Max. Sums and spans of values
// within it stay well inside int64.
const ValueLimit = math.MaxInt32

// Family identifies a kind of statistics problem.
type Family string

const (
	FamilyMean   Family = "mean"
	FamilyMedian Family = "median"
)

// DisplayName returns the label shown in menus, e.g. "Mean".
func (f Family) DisplayName() string {
	if f == "" {
		return ""
	}
	s := string(f)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseFamily resolves a user-facing label ("Mean", "median") to a
// registered Family.
func ParseFamily(label string) (Family, error) {
	f := Family(strings.ToLower(strings.TrimSpace(label)))
	if _, ok := lookup(f); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFamily, label)
	}
	return f, nil
}

// Spec holds the parameters of a problem family: the inclusive value range
// and how many values each problem samples.
type Spec struct {
	Family Family
	Min    int
	Max    int
	Count  int
}

// NewSpec builds a validated Spec.
func NewSpec(family Family, min, max, count int) (Spec, error) {
	s := Spec{Family: family, Min: min, Max: max, Count: count}
	if err := s.Validate(); err != nil {
		return Spec{}, err
	}
	return s, nil
}

// Validate reports a *ConfigError when the spec cannot produce problems.
func (s Spec) Validate() error {
	if s.Count < 1 {
		return &ConfigError{Field: "count", Message: fmt.Sprintf("must be at least 1, got %d", s.Count)}
	}
	if s.Min > s.Max {
		return &ConfigError{Field: "min", Message: fmt.Sprintf("min %d is greater than max %d", s.Min, s.Max)}
	}
	if s.Min < -ValueLimit {
		return &ConfigError{Field: "min", Message: fmt.Sprintf("must be at least %d, got %d", -ValueLimit, s.Min)}
	}
	if s.Max > ValueLimit {
		return &ConfigError{Field: "max", Message: fmt.Sprintf("must be at most %d, got %d", ValueLimit, s.Max)}
	}
	return nil
}

func (s Spec) String() string {
	return fmt.Sprintf("%s(%d values in [%d, %d])", s.Family, s.Count, s.Min, s.Max)
}

// Problem is one generated question/answer pair.
type Problem struct {
	// Question is the prompt, e.g.
	// "Find the mean of the following numbers:\n4, 8, 15, 16, 12".
	Question string

	// Answer is the worked result, e.g. "The mean is 11.0".
	Answer string

	// Values are the sampled numbers in the order they appear in Question.
	Values []int

	// Result is the numeric answer.
	Result float64
}
