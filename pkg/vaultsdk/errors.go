package vaultsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/credvault/pkg/httpx"
)

// Error codes carried in the "error" field of every failure response.
const (
	ErrorCodeConflict         = "conflict"
	ErrorCodeUnauthorized     = "unauthorized"
	ErrorCodeNotFound         = "not_found"
	ErrorCodeCapacityExceeded = "capacity_exceeded"
	ErrorCodeInvalidRequest   = "invalid_request"
	ErrorCodeServerError      = "server_error"
	ErrorCodeValidation       = "validation_error"
)

// APIError is a vault error response. The server writes it with WriteError
// and the client returns it from failed calls.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is one of the ErrorCode constants
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches APIErrors by status and code so callers can write
// errors.Is(err, vaultsdk.ErrVaultFull) against a decoded response.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

// WriteError writes the error as a JSON response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
	})
}

// WithDescription returns a copy of e with a different description.
func (e *APIError) WithDescription(description string) *APIError {
	return &APIError{StatusCode: e.StatusCode, Code: e.Code, Description: description}
}

// NewAPIError creates an APIError.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

var (
	ErrUsernameTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "username already taken",
	}

	ErrAppnameTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "an account with this appname already exists",
	}

	// ErrUnauthorized covers a bad login as well as a missing, invalid or
	// expired session token.
	ErrUnauthorized = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthorized,
		Description: "invalid credentials or session token",
	}

	ErrAdministratorNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "administrator not found",
	}

	ErrAccountNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "account not found",
	}

	ErrVaultFull = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeCapacityExceeded,
		Description: "maximum number of accounts reached",
	}

	ErrRegistrationClosed = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeCapacityExceeded,
		Description: "maximum number of administrators reached",
	}

	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required fields",
	}

	ErrMethodNotAllowed = &APIError{
		StatusCode:  http.StatusMethodNotAllowed,
		Code:        ErrorCodeInvalidRequest,
		Description: "method not allowed",
	}

	ErrInvalidContentType = &APIError{
		StatusCode:  http.StatusUnsupportedMediaType,
		Code:        ErrorCodeInvalidRequest,
		Description: "content-type must be application/json",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// ValidationError reports per-field request validation failures.
type ValidationError struct {
	Message string
	Details map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Details)
}

// WriteError writes the validation failure as a 400 response.
func (e *ValidationError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(ValidationErrorResponse{
		Code:    ErrorCodeValidation,
		Message: e.Message,
		Details: e.Details,
	})
}

// parseErrorResponse turns a non-2xx response into an *APIError or a
// *ValidationError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var valErr ValidationErrorResponse
	if err := json.Unmarshal(body, &valErr); err == nil && valErr.Code == ErrorCodeValidation {
		return &ValidationError{Message: valErr.Message, Details: valErr.Details}
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
