package http

import (
	"net/http"

	"github.com/aussiebroadwan/credvault/internal/vault/domain"
	"github.com/aussiebroadwan/credvault/internal/vault/service"
	"github.com/aussiebroadwan/credvault/pkg/httpx"
	"github.com/aussiebroadwan/credvault/pkg/vaultsdk"
)

// AccountsHandler serves the account operations. Every route sits behind the
// bearer middleware, which puts the administrator in the request context.
type AccountsHandler struct {
	AccountService *service.AccountService
}

func administrator(r *http.Request) (domain.Administrator, bool) {
	return httpx.PrincipalFromContext[domain.Administrator](r.Context())
}

// HandleSave stores a new account.
//
//	@Summary		Save an account
//	@Description	Stores a new account for the authenticated administrator. Appnames are unique per administrator.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		vaultsdk.AccountRequest				true	"Account to store"
//	@Success		201		{object}	vaultsdk.MessageResponse			"Account saved"
//	@Failure		400		{object}	vaultsdk.ValidationErrorResponse	"Invalid request body"
//	@Failure		401		{object}	vaultsdk.ErrorResponse				"Missing, invalid or expired token"
//	@Failure		403		{object}	vaultsdk.ErrorResponse				"Account limit reached"
//	@Failure		404		{object}	vaultsdk.ErrorResponse				"Administrator no longer exists"
//	@Failure		409		{object}	vaultsdk.ErrorResponse				"Appname already exists"
//	@Failure		500		{object}	vaultsdk.ErrorResponse				"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/accounts [post].
func (h *AccountsHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	admin, ok := administrator(r)
	if !ok {
		writeAuthnError(w, r, service.ErrUnauthorized)
		return
	}

	var req vaultsdk.AccountRequest
	if err := decodeJSON(w, r, accountSchema, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	err := h.AccountService.Save(r.Context(), admin, service.AccountInput{
		Appname:  req.Appname,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusCreated, "account saved")
}

// HandleList returns every account of the administrator.
//
//	@Summary		List accounts
//	@Description	Returns all accounts of the authenticated administrator with their usernames and passwords. An empty vault returns an empty list.
//	@Tags			Accounts
//	@Produce		json
//	@Success		200	{object}	vaultsdk.ListAccountsResponse	"Accounts"
//	@Failure		401	{object}	vaultsdk.ErrorResponse			"Missing, invalid or expired token"
//	@Failure		404	{object}	vaultsdk.ErrorResponse			"Administrator no longer exists"
//	@Failure		500	{object}	vaultsdk.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/accounts [get].
func (h *AccountsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if response, ok := h.list(w, r); ok {
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}

// HandleLegacyList serves the unversioned listing route. Its callers predate
// v1 and treat an empty vault as 404, so that is what they still get.
func (h *AccountsHandler) HandleLegacyList(w http.ResponseWriter, r *http.Request) {
	response, ok := h.list(w, r)
	if !ok {
		return
	}
	if len(response.Accounts) == 0 {
		vaultsdk.ErrAccountNotFound.WithDescription("no accounts found").WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, response)
}

// list loads the caller's accounts. It writes the error response itself and
// reports false when there is nothing more to send.
func (h *AccountsHandler) list(w http.ResponseWriter, r *http.Request) (vaultsdk.ListAccountsResponse, bool) {
	admin, ok := administrator(r)
	if !ok {
		writeAuthnError(w, r, service.ErrUnauthorized)
		return vaultsdk.ListAccountsResponse{}, false
	}

	creds, err := h.AccountService.List(r.Context(), admin)
	if err != nil {
		writeServiceError(w, r, err)
		return vaultsdk.ListAccountsResponse{}, false
	}

	response := vaultsdk.ListAccountsResponse{
		Accounts: make([]vaultsdk.Account, len(creds)),
	}
	for i, c := range creds {
		response.Accounts[i] = vaultsdk.Account{
			Appname:  c.Appname,
			Username: c.Username,
			Password: c.Password,
		}
	}
	return response, true
}

// HandleModify replaces the credentials of an account.
//
//	@Summary		Modify an account
//	@Description	Replaces the username and password of the authenticated administrator's account with the given appname.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		vaultsdk.ModifyAccountRequest		true	"New credentials"
//	@Success		200		{object}	vaultsdk.MessageResponse			"Account modified"
//	@Failure		400		{object}	vaultsdk.ValidationErrorResponse	"Invalid request body"
//	@Failure		401		{object}	vaultsdk.ErrorResponse				"Missing, invalid or expired token"
//	@Failure		404		{object}	vaultsdk.ErrorResponse				"Administrator or account not found"
//	@Failure		500		{object}	vaultsdk.ErrorResponse				"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/accounts [put].
func (h *AccountsHandler) HandleModify(w http.ResponseWriter, r *http.Request) {
	admin, ok := administrator(r)
	if !ok {
		writeAuthnError(w, r, service.ErrUnauthorized)
		return
	}

	var req vaultsdk.ModifyAccountRequest
	if err := decodeJSON(w, r, modifyAccountSchema, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	err := h.AccountService.Modify(r.Context(), admin, service.ModifyInput{
		Appname:     req.Appname,
		NewUsername: req.NewUsername,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "account modified")
}
