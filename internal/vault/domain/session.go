package domain

import "time"

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "bearer"

// Session is the result of a successful login. It is not persisted.
type Session struct {
	AccessToken string
	TokenType   string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// ExpiresIn returns the remaining lifetime at now, never negative.
func (s Session) ExpiresIn(now time.Time) time.Duration {
	d := s.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
