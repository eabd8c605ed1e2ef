package policy

import (
	"math/rand/v2"
	"sync"
)

// Chooser returns an index in [0, n). n is always > 0.
type Chooser func(n int) int

// RandomChooser draws from the process-wide generator.
func RandomChooser() Chooser {
	return func(n int) int { return rand.IntN(n) }
}

// SeededChooser is deterministic for a given seed; safe for concurrent use.
func SeededChooser(seed uint64) Chooser {
	var mu sync.Mutex
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(n int) int {
		mu.Lock()
		defer mu.Unlock()
		return r.IntN(n)
	}
}
