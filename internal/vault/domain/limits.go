package domain

import "unicode/utf8"

// Limits caps the size of the vault and of individual fields. Lengths count
// characters, not bytes.
type Limits struct {
	MaxAdministrators int
	MaxAccounts       int // per administrator
	MaxNameLength     int // names, usernames and appnames
	MaxPasswordLength int
}

// DefaultLimits are the production limits.
var DefaultLimits = Limits{
	MaxAdministrators: 100,
	MaxAccounts:       100,
	MaxNameLength:     100,
	MaxPasswordLength: 100,
}

// NameOK reports whether s is a non-empty name within the limit.
func (l Limits) NameOK(s string) bool {
	n := utf8.RuneCountInString(s)
	return n > 0 && n <= l.MaxNameLength
}

// PasswordOK reports whether s is a non-empty password within the limit.
func (l Limits) PasswordOK(s string) bool {
	n := utf8.RuneCountInString(s)
	return n > 0 && n <= l.MaxPasswordLength
}
