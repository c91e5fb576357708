package problemgen

import (
	"slices"
	"strconv"
	"strings"
)

// Mean returns the arithmetic mean of values rounded to 2 decimal places.
// values must be non-empty.
func Mean(values []int) float64 {
	var sum int64
	for _, v := range values {
		sum += int64(v)
	}
	return round2(float64(sum) / float64(len(values)))
}

// Median returns the median of values. For an even count it is the average
// of the two middle elements. The second return is false when the result
// came from that division and should be rendered as a decimal.
// values must be non-empty; it is not modified.
func Median(values []int) (float64, bool) {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid]), true
	}
	return float64(int64(sorted[mid-1])+int64(sorted[mid])) / 2, false
}

// round2 rounds to 2 decimal places from the exact binary value, so only
// true ties (1.125) go to the even digit and 2.675 stays 2.67.
func round2(x float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	return r
}

// formatDecimal renders a quotient the way worksheets show it: shortest
// representation, always with at least one decimal place ("11.0", "4.5").
func formatDecimal(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// formatValues joins values as "4, 8, 15".
func formatValues(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
