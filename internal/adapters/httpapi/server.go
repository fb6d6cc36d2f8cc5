package httpapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/awesome-computers/store-membership-api/internal/adapters/httpapi/oas"
	"github.com/awesome-computers/store-membership-api/internal/app/membership"
	"github.com/awesome-computers/store-membership-api/internal/domain"
	"github.com/awesome-computers/store-membership-api/internal/platform/logging"
	clockport "github.com/awesome-computers/store-membership-api/internal/ports/out/clock"
	"github.com/awesome-computers/store-membership-api/internal/ports/out/idempotency"
)

var discardLog = logging.Discard()

const (
	routeMembershipDate = "/api/membership/membershipdate"

	messageIdempotencyKeyReuse = "Idempotency key reuse with a different payload."
)

// Server is the HTTP adapter implementing oas.StrictServerInterface.
type Server struct {
	Membership *membership.Service
	// Idem is optional; without it Idempotency-Key is ignored.
	Idem  idempotency.Store
	Clock clockport.Clock
}

var _ oas.StrictServerInterface = (*Server)(nil)

func NewServer(membershipSvc *membership.Service, idem idempotency.Store, clk clockport.Clock) *Server {
	return &Server{
		Membership: membershipSvc,
		Idem:       idem,
		Clock:      clk,
	}
}

func (s *Server) ValidateMembershipNumber(ctx context.Context, req oas.ValidateMembershipNumberRequestObject) (oas.ValidateMembershipNumberResponseObject, error) {
	if _, ok := SubjectFromContext(ctx); !ok {
		return oas.ValidateMembershipNumber401JSONResponse{UnauthorizedJSONResponse: oas.UnauthorizedJSONResponse(oasError(ctx, "UNAUTHORIZED", "missing subject", nil))}, nil
	}
	if req.Body == nil {
		return oas.ValidateMembershipNumber422JSONResponse{UnprocessableEntityJSONResponse: oas.UnprocessableEntityJSONResponse(oasError(ctx, "VALIDATION_ERROR", "missing request body", nil))}, nil
	}

	res, err := s.Membership.ValidateMembershipNumber(ctx, domain.MembershipNumber(req.Body.StoreMembershipNumber))
	if err != nil {
		if ae := (*membership.Error)(nil); errors.As(err, &ae) {
			switch ae.Status {
			case http.StatusConflict:
				return oas.ValidateMembershipNumber409JSONResponse{ConflictJSONResponse: conflictResponse(ae.Message)}, nil
			default:
				return nil, err
			}
		}
		return nil, err
	}
	return oas.ValidateMembershipNumber200JSONResponse{StoreMembershipNumber: res.StoreMembershipNumber}, nil
}

func (s *Server) GetMembershipDate(ctx context.Context, req oas.GetMembershipDateRequestObject) (oas.GetMembershipDateResponseObject, error) {
	sub, ok := SubjectFromContext(ctx)
	if !ok {
		return oas.GetMembershipDate401JSONResponse{UnauthorizedJSONResponse: oas.UnauthorizedJSONResponse(oasError(ctx, "UNAUTHORIZED", "missing subject", nil))}, nil
	}
	if req.Body == nil {
		return oas.GetMembershipDate422JSONResponse{UnprocessableEntityJSONResponse: oas.UnprocessableEntityJSONResponse(oasError(ctx, "VALIDATION_ERROR", "missing request body", nil))}, nil
	}

	// Idempotency handling:
	// - Replay if same subject+key+route+bodyHash
	// - Reject if same subject+key+route with different bodyHash (409)
	// The membership date is random, so replay is what keeps a retried call stable.
	// The key is claimed with PutIfAbsent so concurrent retries agree on one body hash,
	// and the first stored response wins.
	var (
		useIdem bool
		respFP  idempotency.Fingerprint
	)
	if s.Idem != nil && req.Params.IdempotencyKey != nil && strings.TrimSpace(*req.Params.IdempotencyKey) != "" {
		useIdem = true
		bodyHash, err := hashMembershipRequestBody(*req.Body)
		if err != nil {
			return nil, err
		}
		metaFP := idempotency.Fingerprint{
			Key:      idempotency.Key(strings.TrimSpace(*req.Params.IdempotencyKey)),
			Subject:  sub,
			Method:   http.MethodPost,
			Route:    routeMembershipDate,
			BodyHash: "",
		}

		meta, _, err := s.Idem.PutIfAbsent(ctx, metaFP, idempotency.Record{
			StatusCode:  0,
			ContentType: "text/plain",
			Body:        []byte(bodyHash),
			CreatedAt:   s.now(),
		})
		if err != nil {
			return nil, err
		}
		if string(meta.Body) != bodyHash {
			return oas.GetMembershipDate409JSONResponse{ConflictJSONResponse: conflictResponse(messageIdempotencyKeyReuse)}, nil
		}

		respFP = metaFP
		respFP.BodyHash = bodyHash
		if rec, ok, err := s.Idem.Get(ctx, respFP); err != nil {
			return nil, err
		} else if ok {
			if payload, ok := replayableMembershipDate(rec); ok {
				return oas.GetMembershipDate200JSONResponse(payload), nil
			}
		}
	}

	md, err := s.Membership.GetMembershipDate(ctx, domain.MembershipNumber(req.Body.StoreMembershipNumber))
	if err != nil {
		if ae := (*membership.Error)(nil); errors.As(err, &ae) {
			switch ae.Status {
			case http.StatusConflict:
				return oas.GetMembershipDate409JSONResponse{ConflictJSONResponse: conflictResponse(ae.Message)}, nil
			default:
				return nil, err
			}
		}
		return nil, err
	}

	resp := oas.MembershipDateResponse{
		Version:             membership.ResponseVersion,
		Status:              http.StatusOK,
		UserMessage:         md.Message,
		StoreMembershipDate: nullable.NewNullableWithValue(md.Formatted),
	}

	// Store successful response for replay. A concurrent retry may have stored first, in
	// which case its response is returned so both callers see the same date.
	if useIdem {
		b, err := json.Marshal(resp)
		if err != nil {
			return nil, err
		}
		stored, inserted, err := s.Idem.PutIfAbsent(ctx, respFP, idempotency.Record{
			StatusCode:  http.StatusOK,
			ContentType: "application/json",
			Body:        b,
			CreatedAt:   s.now(),
		})
		if err != nil {
			LoggerFromContext(ctx, discardLog).WithError(err).Warn("idempotency response record not stored")
		} else if !inserted {
			if payload, ok := replayableMembershipDate(stored); ok {
				return oas.GetMembershipDate200JSONResponse(payload), nil
			}
		}
	}

	return oas.GetMembershipDate200JSONResponse(resp), nil
}

func (s *Server) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func replayableMembershipDate(rec idempotency.Record) (oas.MembershipDateResponse, bool) {
	if rec.StatusCode != http.StatusOK || !strings.HasPrefix(rec.ContentType, "application/json") {
		return oas.MembershipDateResponse{}, false
	}
	var payload oas.MembershipDateResponse
	if err := json.Unmarshal(rec.Body, &payload); err != nil {
		return oas.MembershipDateResponse{}, false
	}
	return payload, true
}

func hashMembershipRequestBody(b oas.MembershipRequest) (string, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
