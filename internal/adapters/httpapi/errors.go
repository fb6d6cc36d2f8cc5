package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/awesome-computers/store-membership-api/internal/adapters/httpapi/oas"
	"github.com/awesome-computers/store-membership-api/internal/app/membership"
)

func writeOASError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	er := oasError(r.Context(), code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(er)
}

func oasError(ctx context.Context, code string, message string, details map[string]any) oas.ErrorResponse {
	var er oas.ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(map[string]any(details))
	}
	if rid := middleware.GetReqID(ctx); rid != "" {
		er.Error.RequestId = nullable.NewNullableWithValue(rid)
	}
	return er
}

// conflictResponse is the 409 payload the policy step shows to the end user.
// It never carries a storeMembershipDate.
func conflictResponse(message string) oas.ConflictJSONResponse {
	return oas.ConflictJSONResponse{
		Version:     membership.ResponseVersion,
		Status:      http.StatusConflict,
		UserMessage: message,
	}
}
