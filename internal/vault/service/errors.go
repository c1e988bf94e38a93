package service

import (
	"errors"
)

var (
	ErrUsernameTaken         = errors.New("username already taken")
	ErrAppnameTaken          = errors.New("appname already exists")
	ErrUnauthorized          = errors.New("invalid or expired token")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrAdministratorNotFound = errors.New("administrator not found")
	ErrAccountNotFound       = errors.New("account not found")
	ErrVaultFull             = errors.New("maximum number of accounts reached")
	ErrRegistrationClosed    = errors.New("maximum number of administrators reached")
	ErrInvalidRequest        = errors.New("invalid request")
)

// Error kinds shared with the HTTP layer and metrics.
const (
	KindOK               = "ok"
	KindConflict         = "conflict"
	KindUnauthorized     = "unauthorized"
	KindNotFound         = "not_found"
	KindCapacityExceeded = "capacity_exceeded"
	KindInvalidRequest   = "invalid_request"
	KindServerError      = "server_error"
)

// Kind classifies err into one of the error kinds. Unknown errors are
// server errors.
func Kind(err error) string {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrAppnameTaken):
		return KindConflict
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return KindUnauthorized
	case errors.Is(err, ErrAdministratorNotFound), errors.Is(err, ErrAccountNotFound):
		return KindNotFound
	case errors.Is(err, ErrVaultFull), errors.Is(err, ErrRegistrationClosed):
		return KindCapacityExceeded
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	default:
		return KindServerError
	}
}

// invalid wraps ErrInvalidRequest with a caller facing reason.
func invalid(reason string) error {
	return &invalidRequestError{reason: reason}
}

type invalidRequestError struct {
	reason string
}

func (e *invalidRequestError) Error() string { return e.reason }
func (e *invalidRequestError) Unwrap() error { return ErrInvalidRequest }
