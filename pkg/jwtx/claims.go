package jwtx

import (
	"time"

	"github.com/aussiebroadwan/credvault/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a login stays usable.
const DefaultSessionTTL = 30 * time.Minute

// Precision of every time claim. Token lifetimes are exact to the
// millisecond instead of being cut short by up to a second.
const Precision = time.Millisecond

func init() {
	jwt.TimePrecision = Precision
}

// Claims carry nothing beyond the registered set. Sub names the
// administrator by username and jti is a ULID minted at issue time.
type Claims struct {
	jwt.RegisteredClaims
}

// NewSessionClaims returns claims for subject issued at now, truncated to
// Precision, and expiring exactly ttl later.
func NewSessionClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	now = now.Truncate(Precision)

	var c Claims
	c.Issuer = issuer
	c.Subject = subject
	c.ID = idx.NewAt(now).String()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	return c
}

// Expiry is the exp claim, or the zero time when the claim is absent.
func (c Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Issued is the iat claim, or the zero time when the claim is absent.
func (c Claims) Issued() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// normalize rounds decoded time claims back onto the Precision grid. They
// travel as float seconds, which can land a hair below the issued value.
func (c *Claims) normalize() {
	for _, d := range []*jwt.NumericDate{c.ExpiresAt, c.IssuedAt, c.NotBefore} {
		if d != nil {
			d.Time = d.Round(Precision)
		}
	}
}
