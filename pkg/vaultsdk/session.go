package vaultsdk

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

// ErrSessionExpired is returned locally, without a round trip, once a
// session's token has passed its expiry. Log in again to continue.
var ErrSessionExpired = errors.New("session token expired")

// Session performs the account operations of one logged-in administrator.
// It is safe for concurrent use.
type Session struct {
	client *Client

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
}

// AccessToken returns the bearer token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// ExpiresAt returns the local estimate of the token expiry.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Session) token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.expiresAt.IsZero() && !time.Now().Before(s.expiresAt) {
		return "", ErrSessionExpired
	}
	return s.accessToken, nil
}

func (s *Session) do(ctx context.Context, method, path string, body, target any, expectedStatus int) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	resp, err := s.client.doJSON(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, expectedStatus)
}

// SaveAccount stores a new account.
func (s *Session) SaveAccount(ctx context.Context, req AccountRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := s.do(ctx, http.MethodPost, "/v1/accounts", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAccounts returns every account of the administrator with plaintext
// secrets. An empty vault yields an empty slice.
func (s *Session) ListAccounts(ctx context.Context) ([]Account, error) {
	var out ListAccountsResponse
	if err := s.do(ctx, http.MethodGet, "/v1/accounts", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	if out.Accounts == nil {
		out.Accounts = []Account{}
	}
	return out.Accounts, nil
}

// ModifyAccount replaces the username and password of the account named by
// req.Appname.
func (s *Session) ModifyAccount(ctx context.Context, req ModifyAccountRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := s.do(ctx, http.MethodPut, "/v1/accounts", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
