package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a natural key is already taken.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates request data failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates the operation is blocked by related records.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Error carries a client-facing message while still matching one of the
// sentinel errors above through errors.Is.
type Error struct {
	Kind    error
	Message string
}

// NewError builds an Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.Message == "" && e.Kind != nil {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }
