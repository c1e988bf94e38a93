package domain

import "time"

// Administrator owns an isolated set of accounts.
type Administrator struct {
	ID           string
	Name         string // display name, not unique
	Username     string // unique, case-sensitive, immutable
	PasswordHash string // argon2id PHC string, or bcrypt for legacy rows
	CreatedAt    time.Time
}
