// Package jwtx signs and verifies the short-lived session tokens handed out
// at login. Tokens are compact HS256 JWS values whose subject is the
// administrator username.
package jwtx

import (
	"errors"
	"time"
)

// Signer turns claims into a compact token.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
}

// Verifier checks a token as of now. A token is valid strictly before its
// exp; at exp it is already expired.
type Verifier interface {
	Verify(token string, now time.Time) (Claims, error)
}

// Structural failures.
var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
)

// Claim failures.
var (
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)
