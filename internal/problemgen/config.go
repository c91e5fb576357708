package problemgen

const (
	defaultMin = 1
	defaultMax = 20

	defaultMeanCount   = 5
	defaultMedianCount = 7
)

// DefaultSpec returns the standard parameters for a family: values in
// [1, 20], five per mean problem and seven per median problem.
func DefaultSpec(f Family) Spec {
	count := defaultMeanCount
	if f == FamilyMedian {
		count = defaultMedianCount
	}
	return Spec{
		Family: f,
		Min:    defaultMin,
		Max:    defaultMax,
		Count:  count,
	}
}
