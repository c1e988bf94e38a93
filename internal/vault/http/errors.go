package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/credvault/internal/vault/service"
	"github.com/aussiebroadwan/credvault/pkg/httpx"
	"github.com/aussiebroadwan/credvault/pkg/slogx"
	"github.com/aussiebroadwan/credvault/pkg/vaultsdk"
)

// writeServiceError maps a service error to its HTTP response. Unexpected
// errors are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		vaultsdk.ErrUsernameTaken.WriteError(w)
	case errors.Is(err, service.ErrAppnameTaken):
		vaultsdk.ErrAppnameTaken.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthorized):
		vaultsdk.ErrUnauthorized.WriteError(w)
	case errors.Is(err, service.ErrAdministratorNotFound):
		vaultsdk.ErrAdministratorNotFound.WriteError(w)
	case errors.Is(err, service.ErrAccountNotFound):
		vaultsdk.ErrAccountNotFound.WriteError(w)
	case errors.Is(err, service.ErrVaultFull):
		vaultsdk.ErrVaultFull.WriteError(w)
	case errors.Is(err, service.ErrRegistrationClosed):
		vaultsdk.ErrRegistrationClosed.WriteError(w)
	case errors.Is(err, service.ErrInvalidRequest):
		vaultsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		vaultsdk.ErrServerError.WriteError(w)
	}
}

// writeAuthnError renders failures from the bearer middleware. A token for
// an administrator that no longer exists is a 404, everything else a 401.
func writeAuthnError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrAdministratorNotFound) {
		vaultsdk.ErrAdministratorNotFound.WriteError(w)
		return
	}
	if errors.Is(err, service.ErrUnauthorized) || errors.Is(err, httpx.ErrMissingBearer) {
		httpx.SetBearerChallenge(w, "the session token is missing, invalid or expired")
		vaultsdk.ErrUnauthorized.WriteError(w)
		return
	}
	writeServiceError(w, r, err)
}
