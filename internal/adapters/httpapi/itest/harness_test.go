package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/awesome-computers/store-membership-api/internal/adapters/httpapi"
	memclock "github.com/awesome-computers/store-membership-api/internal/adapters/memory/clock"
	memidempotency "github.com/awesome-computers/store-membership-api/internal/adapters/memory/idempotency"
	memrandom "github.com/awesome-computers/store-membership-api/internal/adapters/memory/random"
	pgidempotency "github.com/awesome-computers/store-membership-api/internal/adapters/postgres/idempotency"
	postgres_testutil "github.com/awesome-computers/store-membership-api/internal/adapters/postgres/testutil"
	"github.com/awesome-computers/store-membership-api/internal/app/membership"
	"github.com/awesome-computers/store-membership-api/internal/platform/auth/basicauth"
	idempotencyport "github.com/awesome-computers/store-membership-api/internal/ports/out/idempotency"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

const (
	itestUser     = "policy-step"
	itestPassword = "itest-password"
)

// itestNow is the fixed instant every synthesized membership date is computed from.
var itestNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

// newTestServer starts the full router over the chosen idempotency backend. Random
// offsets are replayed from offsets so dates are predictable.
func newTestServer(t *testing.T, b backend, offsets ...int) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(itestNow)

	var idemStore idempotencyport.Store
	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		idemStore = pgidempotency.NewStore(pool)
	case backendMemory:
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	hash, err := basicauth.HashPassword(itestPassword, 4)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	verifier, err := basicauth.New(basicauth.Credentials{Username: itestUser, PasswordHash: hash})
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}

	svc := membership.NewService(clk, memrandom.NewSequence(offsets...))
	api := httpapi.NewServer(svc, idemStore, clk)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		AuthMiddleware: httpapi.NewAuthMiddleware(verifier, "itest"),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

type requestOpts struct {
	user, password string
	noAuth         bool
	headers        map[string]string
}

func (s *testServer) doJSON(t *testing.T, method string, path string, opts requestOpts, body any) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if !opts.noAuth {
		user, pass := opts.user, opts.password
		if user == "" {
			user, pass = itestUser, itestPassword
		}
		req.SetBasicAuth(user, pass)
	}
	for k, v := range opts.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

type membershipDateResponse struct {
	Version             string  `json:"version"`
	Status              int     `json:"status"`
	UserMessage         string  `json:"userMessage"`
	StoreMembershipDate *string `json:"storeMembershipDate"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("status=%d want=%d body=%s", status, wantStatus, string(body))
	}
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}

func requireConflict(t *testing.T, status int, body []byte, wantMessage string) {
	t.Helper()
	if status != http.StatusConflict {
		t.Fatalf("status=%d want=%d body=%s", status, http.StatusConflict, string(body))
	}
	got := mustUnmarshal[membershipDateResponse](t, body)
	if got.Version != membership.ResponseVersion || got.Status != http.StatusConflict || got.UserMessage != wantMessage {
		t.Fatalf("unexpected conflict payload: %s", string(body))
	}
	if got.StoreMembershipDate != nil {
		t.Fatalf("conflict payload must not carry a date: %s", string(body))
	}
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}
