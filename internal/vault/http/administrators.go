package http

import (
	"net/http"

	"github.com/aussiebroadwan/credvault/internal/vault/service"
	"github.com/aussiebroadwan/credvault/pkg/httpx"
	"github.com/aussiebroadwan/credvault/pkg/vaultsdk"
)

type AdministratorsHandler struct {
	AdministratorService *service.AdministratorService
}

// ServeHTTP registers a new administrator.
//
//	@Summary		Register an administrator
//	@Description	Creates an administrator with an optional list of initial accounts. Either the administrator and all accounts are stored or nothing is. No session is started; call /v1/login afterwards.
//	@Tags			Administrators
//	@Accept			json
//	@Produce		json
//	@Param			request	body		vaultsdk.RegisterAdministratorRequest	true	"New administrator"
//	@Success		201		{object}	vaultsdk.MessageResponse				"Administrator registered"
//	@Failure		400		{object}	vaultsdk.ValidationErrorResponse		"Invalid request body"
//	@Failure		403		{object}	vaultsdk.ErrorResponse					"Registration closed or too many initial accounts"
//	@Failure		409		{object}	vaultsdk.ErrorResponse					"Username taken or duplicate appname"
//	@Failure		500		{object}	vaultsdk.ErrorResponse					"Internal server error"
//	@Router			/v1/administrators [post].
func (h *AdministratorsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req vaultsdk.RegisterAdministratorRequest
	if err := decodeJSON(w, r, registerAdministratorSchema, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	in := service.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
		Accounts: make([]service.AccountInput, len(req.Accounts)),
	}
	for i, acc := range req.Accounts {
		in.Accounts[i] = service.AccountInput{
			Appname:  acc.Appname,
			Username: acc.Username,
			Password: acc.Password,
		}
	}

	if _, err := h.AdministratorService.Register(r.Context(), in); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusCreated, "administrator registered")
}
