package random

import "math/rand/v2"

// SystemSource draws from the math/rand/v2 top-level generator, which is seeded per
// process and safe for concurrent use without a shared lock.
type SystemSource struct{}

func NewSystemSource() SystemSource { return SystemSource{} }

func (SystemSource) IntN(n int) int { return rand.IntN(n) }
