package problemgen

import (
	"fmt"
	"math/rand/v2"
)

// Constructor builds a Generator for a validated Spec.
type Constructor func(spec Spec, rng *rand.Rand) (Generator, error)

var (
	registry = map[Family]Constructor{}
	order    []Family
)

func init() {
	Register(FamilyMean, NewMean)
	Register(FamilyMedian, NewMedian)
}

// Register adds a family to the registry. Adding a new kind of problem is a
// new Family constant plus a Register call. Not safe for concurrent use;
// call it from init.
func Register(f Family, c Constructor) {
	if _, exists := registry[f]; !exists {
		order = append(order, f)
	}
	registry[f] = c
}

// Families returns the registered families in registration order.
func Families() []Family {
	out := make([]Family, len(order))
	copy(out, order)
	return out
}

func lookup(f Family) (Constructor, bool) {
	c, ok := registry[f]
	return c, ok
}

// New builds the generator registered for spec.Family.
func New(spec Spec, rng *rand.Rand) (Generator, error) {
	c, ok := lookup(spec.Family)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, spec.Family)
	}
	return c(spec, rng)
}
