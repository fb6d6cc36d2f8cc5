package membership

import (
	"context"
	"time"

	"github.com/awesome-computers/store-membership-api/internal/domain"
	clockport "github.com/awesome-computers/store-membership-api/internal/ports/out/clock"
	randomport "github.com/awesome-computers/store-membership-api/internal/ports/out/random"
)

type Service struct {
	clk clockport.Clock
	rnd randomport.Source
	loc *time.Location

	// WindowDays is the exclusive upper bound, in days, of the random offset subtracted
	// from today when synthesizing a membership date.
	WindowDays int
}

// Option customizes a Service.
type Option func(*Service)

// WithLocation renders membership dates in loc instead of UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewService(clk clockport.Clock, rnd randomport.Source, opts ...Option) *Service {
	s := &Service{
		clk:        clk,
		rnd:        rnd,
		loc:        time.UTC,
		WindowDays: DefaultDateWindowDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateMembershipNumber returns the number echoed as text when it is a multiple of
// five, or a 409 *Error otherwise.
func (s *Service) ValidateMembershipNumber(ctx context.Context, n domain.MembershipNumber) (ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return ValidationResult{}, err
	}
	if !n.IsValid() {
		return ValidationResult{}, invalidMembershipNumber(int(n))
	}
	return ValidationResult{StoreMembershipNumber: n.String()}, nil
}

// GetMembershipDate validates n and then synthesizes its membership date.
// There is no membership store; the date is today minus a random number of days in
// [0, WindowDays).
func (s *Service) GetMembershipDate(ctx context.Context, n domain.MembershipNumber) (MembershipDate, error) {
	if err := ctx.Err(); err != nil {
		return MembershipDate{}, err
	}
	if !n.IsValid() {
		return MembershipDate{}, invalidMembershipNumber(int(n))
	}

	d := s.generateMembershipDate()
	return MembershipDate{
		StoreMembershipNumber: n.String(),
		Date:                  d,
		Formatted:             domain.FormatShortDate(d),
		Message:               MessageMembershipDateLocated,
	}, nil
}

func (s *Service) generateMembershipDate() time.Time {
	window := s.WindowDays
	if window <= 0 {
		window = DefaultDateWindowDays
	}
	offset := s.rnd.IntN(window)
	return s.clk.Now().In(s.loc).AddDate(0, 0, -offset)
}
