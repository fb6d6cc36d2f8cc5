package membership

import "time"

const (
	// ResponseVersion is reported in every membership date payload.
	ResponseVersion = "1.0.0"

	MessageInvalidMembershipNumber = "Store membership number is not valid, it must be a multiple of 5!"
	MessageMembershipDateLocated   = "Membership date located successfully."

	// DefaultDateWindowDays bounds how far back a synthesized membership date may fall.
	DefaultDateWindowDays = 90
)

// ValidationResult is returned for a membership number that passed validation.
type ValidationResult struct {
	// StoreMembershipNumber is the validated number rendered as decimal text.
	StoreMembershipNumber string
}

// MembershipDate is the located membership date for a valid number.
type MembershipDate struct {
	StoreMembershipNumber string
	Date                  time.Time
	// Formatted is Date rendered as a short (M/d/yyyy) date.
	Formatted string
	Message   string
}
