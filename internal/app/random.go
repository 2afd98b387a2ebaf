package app

import (
	"math/rand/v2"
	"sync"
)

// RandomSource yields uniform integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// lockedSource guards a seeded generator shared by concurrent builds.
type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}

// NewRandomSource returns the process-wide generator when seed is zero and a
// reproducible PCG stream otherwise.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		return globalSource{}
	}
	return &lockedSource{rnd: rand.New(rand.NewPCG(seed, seed))}
}

// shuffle returns a Fisher-Yates shuffled copy of items.
func shuffle[T any](rnd RandomSource, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// sample picks min(n, len(items)) items without replacement.
func sample[T any](rnd RandomSource, items []T, n int) []T {
	n = min(n, len(items))
	if n <= 0 {
		return nil
	}
	return shuffle(rnd, items)[:n]
}
