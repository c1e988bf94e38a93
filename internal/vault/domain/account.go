package domain

import "time"

// Account is one stored credential. Username and Password are sealed with
// cryptox.SecretBox while they sit in the store and are plaintext everywhere
// else.
type Account struct {
	ID              string
	AdministratorID string // owner, immutable
	Appname         string // unique per owner
	Username        string
	Password        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AccountCredentials is the triple returned to the owning administrator.
type AccountCredentials struct {
	Appname  string
	Username string
	Password string
}

// Credentials projects a to the triple returned by the API.
func (a Account) Credentials() AccountCredentials {
	return AccountCredentials{Appname: a.Appname, Username: a.Username, Password: a.Password}
}
