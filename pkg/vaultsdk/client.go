package vaultsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client talks to a credvault server. It performs the unauthenticated
// operations and creates Sessions for the rest.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RegisterAdministrator creates an administrator, optionally with initial
// accounts. It does not log in.
func (c *Client) RegisterAdministrator(ctx context.Context, req RegisterAdministratorRequest) (*MessageResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/administrators", "", req)
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges a username and password for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/login", "", LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Authenticate logs in and wraps the token in a Session.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	login, err := c.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return c.NewSessionFromToken(login.AccessToken, login.ExpiresIn), nil
}

// NewSessionFromToken wraps an existing token. expiresIn is the remaining
// lifetime in seconds.
func (c *Client) NewSessionFromToken(accessToken string, expiresIn int) *Session {
	return &Session{
		client:      c,
		accessToken: accessToken,
		expiresAt:   time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
}
