package domain

import (
	"testing"
	"time"
)

func TestMembershipNumber_IsValid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n    MembershipNumber
		want bool
	}{
		{0, true},
		{5, true},
		{-5, true},
		{10, true},
		{2147483645, true},
		{7, false},
		{11, false},
		{-3, false},
		{1, false},
	}
	for _, tc := range cases {
		if got := tc.n.IsValid(); got != tc.want {
			t.Fatalf("MembershipNumber(%d).IsValid()=%v want=%v", tc.n, got, tc.want)
		}
	}
}

func TestMembershipNumber_IsValidMatchesModulus(t *testing.T) {
	t.Parallel()

	for i := -1000; i <= 1000; i++ {
		if got, want := MembershipNumber(i).IsValid(), i%5 == 0; got != want {
			t.Fatalf("MembershipNumber(%d).IsValid()=%v want=%v", i, got, want)
		}
	}
}

func TestMembershipNumber_String(t *testing.T) {
	t.Parallel()

	if got := MembershipNumber(10).String(); got != "10" {
		t.Fatalf("String()=%q", got)
	}
	if got := MembershipNumber(-25).String(); got != "-25" {
		t.Fatalf("String()=%q", got)
	}
}

func TestFormatShortDate(t *testing.T) {
	t.Parallel()

	d := time.Date(2024, time.March, 7, 23, 59, 0, 0, time.UTC)
	if got := FormatShortDate(d); got != "3/7/2024" {
		t.Fatalf("FormatShortDate()=%q", got)
	}
	d = time.Date(2023, time.December, 25, 0, 0, 0, 0, time.UTC)
	if got := FormatShortDate(d); got != "12/25/2023" {
		t.Fatalf("FormatShortDate()=%q", got)
	}
}
