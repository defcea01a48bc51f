// Package randutil derives reproducible random sources for tables and hands.
package randutil

import rand "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns a seed for an independent stream (a table or a hand)
// under a parent seed. Distinct streams give unrelated sequences.
func Derive(seed int64, stream ...int) int64 {
	u := mix(uint64(seed))
	for _, s := range stream {
		u = mix(u ^ (uint64(s)+1)*goldenRatio64)
	}
	return int64(u)
}

// splitmix64 finaliser
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
