package http

import (
	"net/http"

	"github.com/aussiebroadwan/credvault/internal/vault/service"
	"github.com/aussiebroadwan/credvault/pkg/httpx"
	"github.com/aussiebroadwan/credvault/pkg/vaultsdk"
)

type LoginHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP exchanges administrator credentials for a session token.
//
//	@Summary		Log in
//	@Description	Verifies an administrator's username and password and returns a bearer token valid for the configured session lifetime (30 minutes by default).
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		vaultsdk.LoginRequest				true	"Administrator credentials"
//	@Success		200		{object}	vaultsdk.LoginResponse				"Session token"
//	@Failure		400		{object}	vaultsdk.ValidationErrorResponse	"Invalid request body"
//	@Failure		401		{object}	vaultsdk.ErrorResponse				"Unknown username or wrong password"
//	@Failure		500		{object}	vaultsdk.ErrorResponse				"Internal server error"
//	@Router			/v1/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req vaultsdk.LoginRequest
	if err := decodeJSON(w, r, loginSchema, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	sess, err := h.SessionService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, vaultsdk.LoginResponse{
		AccessToken: sess.AccessToken,
		TokenType:   sess.TokenType,
		ExpiresIn:   int(sess.ExpiresIn(sess.IssuedAt).Seconds()),
	})
}
