package clock

import "time"

// Clock provides the current time to the membership service.
// Tests substitute a manual clock so generated membership dates are reproducible.
type Clock interface {
	Now() time.Time
}
