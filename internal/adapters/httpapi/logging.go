package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/awesome-computers/store-membership-api/internal/adapters/httpapi/oas"
)

// NewRequestLogger logs one line per request after it completes.
func NewRequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			entry := log.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"remote":     r.RemoteAddr,
			})

			next.ServeHTTP(ww, r.WithContext(WithLogger(r.Context(), entry)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := logrus.Fields{
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			switch {
			case status >= 500:
				entry.WithFields(fields).Error("request completed")
			case status == http.StatusUnauthorized || status == http.StatusTooManyRequests:
				entry.WithFields(fields).Warn("request completed")
			default:
				entry.WithFields(fields).Info("request completed")
			}
		})
	}
}

// newOperationLogger tags the request logger with the operation id and subject and
// records the response type chosen by the handler.
func newOperationLogger(fallback logrus.FieldLogger) oas.StrictMiddlewareFunc {
	return func(f oas.StrictHandlerFunc, operationID string) oas.StrictHandlerFunc {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request, request interface{}) (interface{}, error) {
			entry := LoggerFromContext(ctx, fallback).WithField("operation", operationID)
			if sub, ok := SubjectFromContext(ctx); ok {
				entry = entry.WithField("subject", string(sub))
			}
			ctx = WithLogger(ctx, entry)

			resp, err := f(ctx, w, r, request)
			if err != nil {
				entry.WithError(err).Error("operation failed")
				return resp, err
			}
			entry.WithField("response", fmt.Sprintf("%T", resp)).Debug("operation handled")
			return resp, nil
		}
	}
}
