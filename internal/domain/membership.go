package domain

import (
	"strconv"
	"time"
)

// MembershipNumber is the store membership number a caller submits for validation.
type MembershipNumber int

// membershipNumberDivisor is the modulus a membership number must satisfy.
const membershipNumberDivisor = 5

// IsValid reports whether n is a multiple of five. Zero and negative multiples are valid.
func (n MembershipNumber) IsValid() bool {
	return int(n)%membershipNumberDivisor == 0
}

func (n MembershipNumber) String() string {
	return strconv.Itoa(int(n))
}

// ShortDateLayout renders dates the way the policy step expects them (en-US short date).
const ShortDateLayout = "1/2/2006"

// FormatShortDate formats t as M/d/yyyy.
func FormatShortDate(t time.Time) string {
	return t.Format(ShortDateLayout)
}
