package vaultsdk

// ErrorResponse is the JSON body of every failure except validation errors.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned when a request body fails schema
// validation.
type ValidationErrorResponse struct {
	// Code is always "validation_error"
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details maps field names to the reason they were rejected
	Details map[string]string `json:"details,omitempty"`
}

// MessageResponse acknowledges a successful write.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginRequest is the body of POST /v1/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries a session token.
type LoginResponse struct {
	// AccessToken is the bearer token for the account endpoints
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the remaining token lifetime in seconds
	ExpiresIn int `json:"expires_in"`
}

// RegisterAdministratorRequest is the body of POST /v1/administrators.
type RegisterAdministratorRequest struct {
	Name     string           `json:"name"`
	Username string           `json:"username"`
	Password string           `json:"password"`
	Accounts []AccountRequest `json:"accounts,omitempty"`
}

// AccountRequest is the body of POST /v1/accounts and an initial account in
// a registration.
type AccountRequest struct {
	Appname  string `json:"appname"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ModifyAccountRequest is the body of PUT /v1/accounts. The account is
// selected by Appname.
type ModifyAccountRequest struct {
	Appname     string `json:"appname"`
	NewUsername string `json:"new_username"`
	NewPassword string `json:"new_password"`
}

// Account is one stored credential with its secrets in plaintext.
type Account struct {
	Appname  string `json:"appname"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ListAccountsResponse is the body of GET /v1/accounts.
type ListAccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	// Status is "ok" or "unavailable"
	Status string `json:"status"`

	// Uptime is the service uptime (e.g. "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	Version string `json:"version,omitempty"`

	// Checks is only present on /readyz
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of the dependencies /readyz looks at.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
