package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/awesome-computers/store-membership-api/internal/adapters/httpapi/oas"
	"github.com/awesome-computers/store-membership-api/internal/platform/logging"
)

// DefaultMaxBodyBytes caps request bodies. The payload is a single integer field.
const DefaultMaxBodyBytes int64 = 1 << 10

// RouterOptions configures the optional middleware around the generated handlers.
type RouterOptions struct {
	// AuthMiddleware guards every route except /healthz. Nil leaves routes open, which
	// only tests should do.
	AuthMiddleware func(http.Handler) http.Handler
	// RateLimiter, when set, sheds load with 429 before authentication runs.
	RateLimiter *rate.Limiter
	Logger      logrus.FieldLogger
	// MaxBodyBytes bounds request bodies; zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// NewRouterWithOptions constructs the API HTTP router.
//
// This is intentionally a thin adapter:
// - the generated OpenAPI layer handles request decoding
// - this package wires routes/middleware and delegates to a StrictServerInterface implementation
func NewRouterWithOptions(ssi oas.StrictServerInterface, opts RouterOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	r := chi.NewRouter()

	// chi requires all middleware before the first route.
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewRequestLogger(log))
	r.Use(middleware.Recoverer)
	// Reads past maxBody fail with *http.MaxBytesError; mapped to 413 below.
	r.Use(middleware.RequestSize(maxBody))
	if opts.RateLimiter != nil {
		r.Use(NewRateLimitMiddleware(opts.RateLimiter))
	}
	if opts.AuthMiddleware != nil {
		r.Use(opts.AuthMiddleware)
	}

	// Liveness probe for infra checks; not part of the OpenAPI document.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	strict := oas.NewStrictHandlerWithOptions(ssi, []oas.StrictMiddlewareFunc{newOperationLogger(log)}, oas.StrictHTTPServerOptions{
		RequestErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			if mbe := (*http.MaxBytesError)(nil); errors.As(err, &mbe) {
				writeOASError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", map[string]any{"limitBytes": mbe.Limit})
				return
			}
			writeOASError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid request body", map[string]any{"reason": err.Error()})
		},
		ResponseErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			LoggerFromContext(r.Context(), log).WithError(err).Error("unhandled error")
			writeOASError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		},
	})
	_ = oas.HandlerWithOptions(strict, oas.ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			writeOASError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid request parameters", map[string]any{"reason": err.Error()})
		},
	})
	return r
}
