package random

import "sync"

// Sequence is a deterministic random.Source that replays fixed values in order,
// wrapping around when exhausted. Each value is reduced modulo n so it always
// honours the [0, n) contract.
// It is safe for concurrent use.
type Sequence struct {
	mu     sync.Mutex
	values []int
	next   int
}

func NewSequence(values ...int) *Sequence {
	if len(values) == 0 {
		values = []int{0}
	}
	return &Sequence{values: append([]int(nil), values...)}
}

func (s *Sequence) IntN(n int) int {
	if n <= 0 {
		panic("invalid argument to IntN")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
