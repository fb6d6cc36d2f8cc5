package itest

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/awesome-computers/store-membership-api/internal/app/membership"
)

func TestMembership_ITest(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			// Offsets 0, 29, 60 => 3/1/2024, 2/1/2024, 1/1/2024.
			srv := newTestServer(t, b, 0, 29, 60)

			// Missing auth header => 401 with a challenge.
			{
				status, body, hdr := srv.doJSON(t, http.MethodPost, "/api/membership/validate", requestOpts{noAuth: true}, map[string]any{"storeMembershipNumber": 10})
				requireErrorCode(t, status, body, http.StatusUnauthorized, "UNAUTHORIZED")
				requireHeaderPresent(t, hdr, "WWW-Authenticate")
				requireHeaderPresent(t, hdr, "X-Request-Id")
			}

			// Wrong password => 401.
			{
				status, body, _ := srv.doJSON(t, http.MethodPost, "/api/membership/validate", requestOpts{user: itestUser, password: "nope"}, map[string]any{"storeMembershipNumber": 10})
				requireErrorCode(t, status, body, http.StatusUnauthorized, "UNAUTHORIZED")
			}

			// Validate: multiple of five echoes the number as text.
			{
				status, body, _ := srv.doJSON(t, http.MethodPost, "/api/membership/validate", requestOpts{}, map[string]any{"storeMembershipNumber": 10})
				if status != http.StatusOK {
					t.Fatalf("status=%d want=%d body=%s", status, http.StatusOK, string(body))
				}
				got := mustUnmarshal[struct {
					StoreMembershipNumber string `json:"storeMembershipNumber"`
				}](t, body)
				if got.StoreMembershipNumber != "10" {
					t.Fatalf("storeMembershipNumber=%q want=%q", got.StoreMembershipNumber, "10")
				}
			}

			// Validate: anything else is a 409 business error.
			{
				status, body, _ := srv.doJSON(t, http.MethodPost, "/api/membership/validate", requestOpts{}, map[string]any{"storeMembershipNumber": 11})
				requireConflict(t, status, body, membership.MessageInvalidMembershipNumber)
			}

			// Membership date for a valid number.
			{
				status, body, _ := srv.doJSON(t, http.MethodPost, "/api/membership/membershipdate", requestOpts{}, map[string]any{"storeMembershipNumber": 15})
				if status != http.StatusOK {
					t.Fatalf("status=%d want=%d body=%s", status, http.StatusOK, string(body))
				}
				got := mustUnmarshal[membershipDateResponse](t, body)
				if got.Version != membership.ResponseVersion || got.Status != http.StatusOK || got.UserMessage != membership.MessageMembershipDateLocated {
					t.Fatalf("unexpected payload: %s", string(body))
				}
				if got.StoreMembershipDate == nil || *got.StoreMembershipDate != "3/1/2024" {
					t.Fatalf("storeMembershipDate: body=%s want 3/1/2024", string(body))
				}
			}

			// Membership date for an invalid number.
			{
				status, body, _ := srv.doJSON(t, http.MethodPost, "/api/membership/membershipdate", requestOpts{}, map[string]any{"storeMembershipNumber": 16})
				requireConflict(t, status, body, membership.MessageInvalidMembershipNumber)
			}

			// Idempotent retry replays the first date; the key is random so a shared
			// database never sees it twice across runs.
			key := uuid.NewString()
			idem := requestOpts{headers: map[string]string{"Idempotency-Key": key}}
			var first string
			{
				status, body, _ := srv.doJSON(t, http.MethodPost, "/api/membership/membershipdate", idem, map[string]any{"storeMembershipNumber": 20})
				if status != http.StatusOK {
					t.Fatalf("status=%d want=%d body=%s", status, http.StatusOK, string(body))
				}
				first = string(body)
				if got := mustUnmarshal[membershipDateResponse](t, body); got.StoreMembershipDate == nil || *got.StoreMembershipDate != "2/1/2024" {
					t.Fatalf("storeMembershipDate: body=%s want 2/1/2024", first)
				}
			}
			{
				status, body, _ := srv.doJSON(t, http.MethodPost, "/api/membership/membershipdate", idem, map[string]any{"storeMembershipNumber": 20})
				if status != http.StatusOK || string(body) != first {
					t.Fatalf("replay: status=%d body=%s want=%s", status, string(body), first)
				}
			}
			{
				status, body, _ := srv.doJSON(t, http.MethodPost, "/api/membership/membershipdate", idem, map[string]any{"storeMembershipNumber": 25})
				requireConflict(t, status, body, "Idempotency key reuse with a different payload.")
			}

			// Health is open.
			{
				status, body, _ := srv.doJSON(t, http.MethodGet, "/healthz", requestOpts{noAuth: true}, nil)
				if status != http.StatusOK || string(body) != "ok" {
					t.Fatalf("healthz: status=%d body=%s", status, string(body))
				}
			}
		})
	}
}
