package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/awesome-computers/store-membership-api/internal/adapters/httpapi/oas"
	"github.com/awesome-computers/store-membership-api/internal/domain"
	"github.com/awesome-computers/store-membership-api/internal/platform/auth/basicauth"
)

const (
	testUser  = "PolicyStep"
	testPass  = "s3cret"
	testRealm = "test-realm"
)

// authProbeServer echoes the authenticated subject so tests can see what the
// middleware placed in context.
type authProbeServer struct{}

func (authProbeServer) ValidateMembershipNumber(ctx context.Context, _ oas.ValidateMembershipNumberRequestObject) (oas.ValidateMembershipNumberResponseObject, error) {
	sub, ok := SubjectFromContext(ctx)
	if !ok {
		return oas.ValidateMembershipNumber500JSONResponse{InternalErrorJSONResponse: oas.InternalErrorJSONResponse(oasError(ctx, "MISSING_SUBJECT", "subject missing from context", nil))}, nil
	}
	return oas.ValidateMembershipNumber200JSONResponse{StoreMembershipNumber: string(sub)}, nil
}

func (authProbeServer) GetMembershipDate(ctx context.Context, _ oas.GetMembershipDateRequestObject) (oas.GetMembershipDateResponseObject, error) {
	return nil, errors.New("probe: not used")
}

func newTestAuthRouter(t *testing.T) http.Handler {
	t.Helper()

	v, err := basicauth.New(basicauth.Credentials{Username: testUser, Password: testPass})
	if err != nil {
		t.Fatalf("basicauth.New: %v", err)
	}
	return NewRouterWithOptions(authProbeServer{}, RouterOptions{
		AuthMiddleware: NewAuthMiddleware(v, testRealm),
	})
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) oas.ErrorResponse {
	t.Helper()
	var er oas.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error response: %v body=%s", err, rec.Body.String())
	}
	return er
}

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	t.Parallel()

	h := newTestAuthRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/membership/validate", bytes.NewBufferString(`{"storeMembershipNumber":10}`))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
	if got := rec.Header().Get("WWW-Authenticate"); !strings.HasPrefix(got, `Basic realm="test-realm"`) {
		t.Fatalf("WWW-Authenticate: got %q", got)
	}
	er := decodeErrorResponse(t, rec)
	if er.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("code: got %q", er.Error.Code)
	}
	if !er.Error.RequestId.IsSpecified() || er.Error.RequestId.IsNull() {
		t.Fatalf("expected requestId to be set")
	}
	if rid, err := er.Error.RequestId.Get(); err != nil || rid == "" {
		t.Fatalf("expected requestId to be a non-empty string")
	} else if rid != rec.Header().Get(RequestIDHeader) {
		t.Fatalf("requestId %q does not match %s header %q", rid, RequestIDHeader, rec.Header().Get(RequestIDHeader))
	}
}

func TestAuthMiddleware_RejectsBadCredentials(t *testing.T) {
	t.Parallel()

	h := newTestAuthRouter(t)
	cases := map[string]func(r *http.Request){
		"bearer scheme":       func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") },
		"garbage basic":       func(r *http.Request) { r.Header.Set("Authorization", "Basic !!!notbase64") },
		"wrong password":      func(r *http.Request) { r.SetBasicAuth(testUser, "wrong") },
		"username wrong case": func(r *http.Request) { r.SetBasicAuth(strings.ToLower(testUser), testPass) },
		"empty credentials":   func(r *http.Request) { r.SetBasicAuth("", "") },
	}
	for name, setAuth := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/membership/validate", bytes.NewBufferString(`{"storeMembershipNumber":10}`))
		req.Header.Set("Content-Type", "application/json")
		setAuth(req)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status got %d want %d", name, rec.Code, http.StatusUnauthorized)
		}
		if er := decodeErrorResponse(t, rec); er.Error.Code != "UNAUTHORIZED" {
			t.Fatalf("%s: code got %q", name, er.Error.Code)
		}
	}
}

func TestAuthMiddleware_ValidCredentials_SetsSubject(t *testing.T) {
	t.Parallel()

	h := newTestAuthRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/membership/validate", bytes.NewBufferString(`{"storeMembershipNumber":10}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(testUser, testPass)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var body oas.ValidationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.StoreMembershipNumber != testUser {
		t.Fatalf("subject: got %q want %q", body.StoreMembershipNumber, testUser)
	}
}

func TestAuthMiddleware_InjectedPredicate(t *testing.T) {
	t.Parallel()

	var calls int
	pred := CredentialVerifierFunc(func(_ context.Context, user, pass string) (domain.SubjectID, error) {
		calls++
		if user == "alice" && pass == "pw" {
			return domain.SubjectID("alice"), nil
		}
		return "", basicauth.ErrUnauthorized
	})
	h := NewRouterWithOptions(authProbeServer{}, RouterOptions{AuthMiddleware: NewAuthMiddleware(pred, "")})

	req := httptest.NewRequest(http.MethodPost, "/api/membership/validate", bytes.NewBufferString(`{}`))
	req.SetBasicAuth("alice", "pw")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/membership/validate", bytes.NewBufferString(`{}`))
	req.SetBasicAuth("alice", "nope")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); !strings.Contains(got, `realm="store-membership"`) {
		t.Fatalf("default realm missing: %q", got)
	}
	if calls != 2 {
		t.Fatalf("predicate calls: got %d want 2", calls)
	}
}

func TestHealthz_BypassesAuth(t *testing.T) {
	t.Parallel()

	h := newTestAuthRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: status=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestStrictRequestError_Is422JSON(t *testing.T) {
	t.Parallel()

	h := newTestAuthRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/membership/validate", bytes.NewBufferString("{"))
	req.SetBasicAuth(testUser, testPass)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}
	if er := decodeErrorResponse(t, rec); er.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("code: got %q", er.Error.Code)
	}
}

func TestStrictResponseError_Is500JSON(t *testing.T) {
	t.Parallel()

	h := newTestAuthRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/membership/membershipdate", bytes.NewBufferString(`{"storeMembershipNumber":5}`))
	req.SetBasicAuth(testUser, testPass)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if er := decodeErrorResponse(t, rec); er.Error.Code != "INTERNAL" {
		t.Fatalf("code: got %q", er.Error.Code)
	}
}

func TestRequestID_PropagatesCallerValue(t *testing.T) {
	t.Parallel()

	h := newTestAuthRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/membership/validate", nil)
	req.Header.Set(RequestIDHeader, "corr-123")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "corr-123" {
		t.Fatalf("%s: got %q", RequestIDHeader, got)
	}
	er := decodeErrorResponse(t, rec)
	if rid, _ := er.Error.RequestId.Get(); rid != "corr-123" {
		t.Fatalf("requestId: got %q", rid)
	}
}
