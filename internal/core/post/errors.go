package post

import "errors"

var (
	ErrNotFound = errors.New("post not found")
	ErrConflict = errors.New("post already exists")
)

// ValidationError reports a request body that is missing required data.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
