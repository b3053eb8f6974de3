package core

import (
	"fmt"
	"math"
)

// EnsureFinite returns ErrNonPhysical (wrapped with what and the value) if
// v is NaN or infinite, and nil otherwise.
func EnsureFinite(v float64, what string) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s is not finite (%g): %w", what, v, ErrNonPhysical)
	}

	return nil
}

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
