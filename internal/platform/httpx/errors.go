// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/swastik-pharma/vetstore/internal/shared"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound     = shared.ErrNotFound
	ErrDuplicate    = shared.ErrDuplicate
	ErrValidation   = shared.ErrValidation
	ErrConflict     = shared.ErrConflict
	ErrUnauthorized = errors.New("unauthorized")
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", detail(err))
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", detail(err))
	case errors.Is(err, ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", detail(err))
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", detail(err))
	case errors.Is(err, ErrUnauthorized), errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", detail(err))
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// detail only exposes messages built with shared.NewError; wrapped driver
// errors stay out of responses.
func detail(err error) string {
	var domainErr *shared.Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return ""
}
