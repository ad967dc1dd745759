package domain

import "errors"

var (
	// ErrDatasetNotFound marks reads or mutations against an unknown dataset id.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrUserNotFound and ErrInvalidCredentials cover the auth surface.
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")

	// ErrAssistantDisabled is returned when no assistant API key is configured.
	ErrAssistantDisabled = errors.New("assistant is not configured")
)

// ValidationError rejects an upload before anything is persisted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// NewValidationError builds a ValidationError with the given reason.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
