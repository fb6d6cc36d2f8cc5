package httpapi

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/awesome-computers/store-membership-api/internal/domain"
)

type subjectKey struct{}

type loggerKey struct{}

func WithSubject(ctx context.Context, subject domain.SubjectID) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

func SubjectFromContext(ctx context.Context) (domain.SubjectID, bool) {
	v, ok := ctx.Value(subjectKey{}).(domain.SubjectID)
	return v, ok && v != ""
}

// WithLogger stores a request-scoped log entry.
func WithLogger(ctx context.Context, entry logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, entry)
}

// LoggerFromContext returns the request-scoped entry, or fallback when none is set.
func LoggerFromContext(ctx context.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if l, ok := ctx.Value(loggerKey{}).(logrus.FieldLogger); ok && l != nil {
		return l
	}
	return fallback
}
