// Package randsrc defines the single pluggable randomness seam the
// scheduler's sub-engines draw on for weighted selection, Fisher-Yates
// urn shuffles, and priority tie-break jitter (§5, §9).
package randsrc

import "math/rand"

// Source is the minimal random-number capability the engines need.
// *math/rand.Rand already implements both methods, so a seeded
// math/rand.Rand satisfies Source with no adapter — tests inject one
// seeded deterministically, production code injects one seeded from
// entropy.
type Source interface {
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// New returns a Source backed by a seeded math/rand.Rand.
func New(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}
