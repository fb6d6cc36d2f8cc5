package httpapi

import (
	"net/http"

	"golang.org/x/time/rate"
)

// NewRateLimitMiddleware sheds requests beyond the limiter's rate with 429.
// The health endpoint is never limited.
func NewRateLimitMiddleware(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l == nil || r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}
			if !l.Allow() {
				w.Header().Set("Retry-After", "1")
				writeOASError(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
