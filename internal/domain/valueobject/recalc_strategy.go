package valueobject

import "fmt"

// RecalcStrategy selects how installment amounts are re-derived when the
// applicant changes the requested amount.
type RecalcStrategy string

const (
	// RecalcRecompute re-runs the installment formulas with a proportionally
	// reduced principal.
	RecalcRecompute RecalcStrategy = "recompute"
	// RecalcScale multiplies the payments computed at the maximum amount by
	// requested/maximum.
	RecalcScale RecalcStrategy = "scale"
)

// ParseRecalcStrategy converts a config string into a RecalcStrategy.
func ParseRecalcStrategy(s string) (RecalcStrategy, error) {
	switch RecalcStrategy(s) {
	case RecalcRecompute, "":
		return RecalcRecompute, nil
	case RecalcScale:
		return RecalcScale, nil
	default:
		return "", fmt.Errorf("unknown recalculation strategy %q", s)
	}
}
