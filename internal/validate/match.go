package validate

import (
	"math"
	"strings"
)

const (
	// amountTolerance absorbs cent-level rounding in extracted amounts.
	amountTolerance = 0.02

	// rateTolerance absorbs misrounded tax rates. Rates are integer
	// percentages, so a full percentage point is still unambiguous.
	rateTolerance = 1.0
)

// Match reports whether an extracted value satisfies an expectation. Exact
// equality is unsuitable for model-derived fields, so the rule depends on the
// expectation's type: a set accepts membership, a string accepts
// case-insensitive containment in either direction (partial legal-entity
// names), a number accepts a small absolute difference, anything else must
// be strictly equal.
func Match(expected, actual any) bool {
	switch exp := expected.(type) {
	case []string:
		s, ok := actual.(string)
		if !ok {
			return false
		}
		for _, candidate := range exp {
			if s == candidate {
				return true
			}
		}
		return false
	case string:
		s, ok := actual.(string)
		if !ok {
			return false
		}
		return containsFold(exp, s) || containsFold(s, exp)
	case float64:
		a, ok := toFloat(actual)
		if !ok {
			return false
		}
		return math.Abs(a-exp) < amountTolerance
	case int:
		return Match(float64(exp), actual)
	default:
		return expected == actual
	}
}

// RatesCovered reports whether every expected tax rate has at least one
// actual rate within tolerance. The check is one-directional: extra actual
// rates never fail it, since receipts can carry rounding-derived extra tax
// lines.
func RatesCovered(expected, actual []float64) bool {
	for _, want := range expected {
		covered := false
		for _, got := range actual {
			if math.Abs(got-want) < rateTolerance {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
