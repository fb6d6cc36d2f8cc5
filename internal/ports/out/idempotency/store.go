package idempotency

import (
	"context"
	"time"

	"github.com/awesome-computers/store-membership-api/internal/domain"
)

// Key is the caller-provided idempotency key (Idempotency-Key header).
type Key string

// Fingerprint identifies a request uniquely for idempotency purposes.
//
// A request is identified by key + subject + route + request body hash.
// Route is represented as HTTP method + path (e.g. "POST /api/membership/membershipdate").
// A fingerprint with an empty BodyHash records which body hash first claimed the key.
type Fingerprint struct {
	Key      Key
	Subject  domain.SubjectID
	Method   string
	Route    string
	BodyHash string
}

// Record is the stored response we can replay for a duplicate request.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Store persists idempotency records for replaying responses on retries.
// Put overwrites any existing record for the same fingerprint.
//
// PutIfAbsent stores rec only when fp has no record yet, atomically with respect to
// other writers. It returns the record now stored for fp and whether rec was the one
// inserted; concurrent callers all observe the same winner.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
	PutIfAbsent(ctx context.Context, fp Fingerprint, rec Record) (Record, bool, error)
}

// Pruner is implemented by stores that can expire old records.
type Pruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
