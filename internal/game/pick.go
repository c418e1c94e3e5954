/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import "math/rand/v2"

// Rand is the subset of *rand.Rand used to draw indices and candidates.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

// DefaultRand draws from the package-level math/rand/v2 source, which is
// safe for concurrent use.
var DefaultRand Rand = globalRand{}

// Pick returns an element of seq chosen uniformly by r. It panics when seq
// is empty.
func Pick[T any](seq []T, r Rand) T {
	return seq[r.IntN(len(seq))]
}
