package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/awesome-computers/store-membership-api/internal/domain"
)

// CredentialVerifier decides whether a basic-auth username/password pair is accepted.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (domain.SubjectID, error)
}

// CredentialVerifierFunc adapts a plain function to CredentialVerifier.
type CredentialVerifierFunc func(ctx context.Context, username, password string) (domain.SubjectID, error)

func (f CredentialVerifierFunc) Verify(ctx context.Context, username, password string) (domain.SubjectID, error) {
	return f(ctx, username, password)
}

// NewAuthMiddleware enforces Authorization: Basic <credentials> for every OpenAPI operation.
//
// On success, it stores the authenticated subject (the username) in request context.
func NewAuthMiddleware(v CredentialVerifier, realm string) func(http.Handler) http.Handler {
	if realm == "" {
		realm = "store-membership"
	}
	challenge := fmt.Sprintf("Basic realm=%q, charset=\"UTF-8\"", realm)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// /healthz is not in the OpenAPI document and stays unauthenticated.
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}

			unauthorized := func(msg string) {
				w.Header().Set("WWW-Authenticate", challenge)
				writeOASError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", msg, nil)
			}

			authz := r.Header.Get("Authorization")
			if authz == "" {
				unauthorized("missing Authorization header")
				return
			}
			if !strings.HasPrefix(strings.ToLower(authz), "basic ") {
				unauthorized("malformed Authorization header")
				return
			}
			user, pass, ok := r.BasicAuth()
			if !ok {
				unauthorized("malformed basic credentials")
				return
			}

			sub, err := v.Verify(r.Context(), user, pass)
			if err != nil || sub == "" {
				unauthorized("invalid credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), sub)))
		})
	}
}
