// Package errors defines the domain error taxonomy and the response bodies
// shared by all handlers.
package errors

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrDuplicateEmail is returned when a registration or admin creation
	// collides with an existing email, compared case-insensitively.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike; the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when an operation targets a nonexistent user.
	ErrUserNotFound = errors.New("user not found")
)

// AccountBlockedError is returned when credentials resolve to an account
// whose status is blocked. RemainingBlockSeconds is nil for an indefinite
// block or when BlockedUntil has already elapsed.
type AccountBlockedError struct {
	RemainingBlockSeconds *int64
}

func (e *AccountBlockedError) Error() string {
	return "account is blocked"
}

// MessageResponse is the standard single-message error body.
type MessageResponse struct {
	Message string `json:"message"`
}

// BlockedResponse is the login response body for a blocked account.
type BlockedResponse struct {
	Message               string `json:"message"`
	RemainingBlockSeconds *int64 `json:"remainingBlockSeconds"`
}

// FieldError is one field-level validation failure.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// ValidationResponse is the 400 body carrying field-level detail.
type ValidationResponse struct {
	Errors []FieldError `json:"errors"`
}

// NewValidationResponse converts a validator error into the field-level
// response body. Non-validator errors produce a single body-level entry.
func NewValidationResponse(err error) ValidationResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationResponse{Errors: []FieldError{{Field: "body", Msg: err.Error()}}}
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Msg: "failed on " + fe.Tag()})
	}
	return ValidationResponse{Errors: fields}
}
