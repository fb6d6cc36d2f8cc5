package membership

import "net/http"

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

const CodeInvalidMembershipNumber = "INVALID_MEMBERSHIP_NUMBER"

// NewConflictError builds the 409 error the policy step surfaces to the end user.
func NewConflictError(code, message string) *Error {
	return &Error{
		Status:  http.StatusConflict,
		Code:    code,
		Message: message,
	}
}

func invalidMembershipNumber(n int) *Error {
	e := NewConflictError(CodeInvalidMembershipNumber, MessageInvalidMembershipNumber)
	e.Details = map[string]any{"storeMembershipNumber": n}
	return e
}
