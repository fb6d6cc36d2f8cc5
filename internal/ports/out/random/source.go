package random

// Source supplies uniformly distributed integers.
//
// IntN returns a value in [0, n) and panics if n <= 0, matching math/rand/v2.
// Implementations must be safe for concurrent use.
type Source interface {
	IntN(n int) int
}
