package domain

import (
	"math"
	"time"
)

// roundMinutes implements the rounding rule pinned in DESIGN.md: round to
// the nearest minute, ties to even. The source mixes floor and round; this
// is the single rule the rest of the package relies on for §8's ε=1min
// invariants to hold.
func roundMinutes(d time.Duration) int {
	return int(math.RoundToEven(d.Minutes()))
}

// RoundHours rounds hours to two decimal places (the ledger's printed
// precision), ties to even, so §8's "sum to 24.00 ± 1/60" invariant holds
// byte-for-byte across implementations.
func RoundHours(h float64) float64 {
	return math.RoundToEven(h*100) / 100
}
