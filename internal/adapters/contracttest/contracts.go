package contracttest

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/awesome-computers/store-membership-api/internal/domain"
	idempotencyport "github.com/awesome-computers/store-membership-api/internal/ports/out/idempotency"
)

type CleanupFunc = func()

type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

// RunIdempotencyStore exercises the behaviour every idempotency.Store backend must share.
// Keys are random so the suite can run repeatedly against a persistent database.
func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	key := idempotencyport.Key(uuid.NewString())
	meta := idempotencyport.Fingerprint{
		Key:      key,
		Subject:  domain.SubjectID("policy-step"),
		Method:   http.MethodPost,
		Route:    "/api/membership/membershipdate",
		BodyHash: "",
	}

	// Missing records are not an error.
	if _, ok, err := store.Get(ctx, meta); err != nil || ok {
		t.Fatalf("Get missing: ok=%v err=%v", ok, err)
	}

	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, meta, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, meta)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatalf("createdAt=%v want=%v", got.CreatedAt, rec.CreatedAt)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, meta, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, meta)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// The response record lives beside the meta record and is keyed by body hash.
	resp := meta
	resp.BodyHash = "hash-def"
	if _, ok, err := store.Get(ctx, resp); err != nil || ok {
		t.Fatalf("Get response before Put: ok=%v err=%v", ok, err)
	}
	if err := store.Put(ctx, resp, idempotencyport.Record{
		StatusCode:  http.StatusOK,
		ContentType: "application/json",
		Body:        []byte(`{"status":200}`),
		CreatedAt:   time.Unix(456, 0).UTC(),
	}); err != nil {
		t.Fatalf("Put response: %v", err)
	}
	got, ok, err = store.Get(ctx, resp)
	if err != nil || !ok || got.StatusCode != http.StatusOK || string(got.Body) != `{"status":200}` {
		t.Fatalf("response record: ok=%v err=%v rec=%+v", ok, err, got)
	}

	// PutIfAbsent keeps the first writer's record and reports it to later writers.
	claim := meta
	claim.Key = idempotencyport.Key(uuid.NewString())
	first := idempotencyport.Record{ContentType: "text/plain", Body: []byte("hash-first"), CreatedAt: time.Unix(789, 0).UTC()}
	got, inserted, err := store.PutIfAbsent(ctx, claim, first)
	if err != nil || !inserted || string(got.Body) != "hash-first" {
		t.Fatalf("PutIfAbsent first: inserted=%v err=%v rec=%+v", inserted, err, got)
	}
	got, inserted, err = store.PutIfAbsent(ctx, claim, idempotencyport.Record{ContentType: "text/plain", Body: []byte("hash-second"), CreatedAt: time.Unix(790, 0).UTC()})
	if err != nil || inserted || string(got.Body) != "hash-first" {
		t.Fatalf("PutIfAbsent second: inserted=%v err=%v rec=%+v", inserted, err, got)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("PutIfAbsent second: createdAt=%v want=%v", got.CreatedAt, first.CreatedAt)
	}
	got, ok, err = store.Get(ctx, claim)
	if err != nil || !ok || string(got.Body) != "hash-first" {
		t.Fatalf("Get after PutIfAbsent: ok=%v err=%v rec=%+v", ok, err, got)
	}

	// Subjects are isolated from each other.
	other := meta
	other.Subject = domain.SubjectID("someone-else")
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("Get other subject: ok=%v err=%v", ok, err)
	}
}
