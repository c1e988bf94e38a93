package jwtx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/awnumar/memguard"
	"github.com/golang-jwt/jwt/v5"
)

// AlgorithmHS256 is the only algorithm session tokens are signed with.
const AlgorithmHS256 = "HS256"

// hmacKey is a symmetric key sealed in a memguard enclave. It is only
// decrypted for the duration of a single sign or verify call.
type hmacKey struct {
	kid     string
	enclave *memguard.Enclave
}

// with opens the enclave, hands the raw key to fn and wipes it afterwards.
func (k *hmacKey) with(fn func(key []byte) error) error {
	buf, err := k.enclave.Open()
	if err != nil {
		return fmt.Errorf("jwtx: open signing key: %w", err)
	}
	defer buf.Destroy()
	return fn(buf.Bytes())
}

// HS256Signer signs session tokens with an HMAC-SHA256 key.
type HS256Signer struct {
	key *hmacKey
}

func (s *HS256Signer) Alg() string { return AlgorithmHS256 }
func (s *HS256Signer) KID() string { return s.key.kid }

// Sign serialises c as a compact JWS with the kid header set.
func (s *HS256Signer) Sign(c Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token.Header["kid"] = s.key.kid

	var signed string
	err := s.key.with(func(key []byte) error {
		var err error
		signed, err = token.SignedString(key)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// HS256Verifier validates tokens produced by the matching HS256Signer.
type HS256Verifier struct {
	key    *hmacKey
	issuer string
}

// Verify checks the signature, the kid, the issuer and that now is strictly
// before exp. Tokens without exp are rejected.
func (v *HS256Verifier) Verify(tokenStr string, now time.Time) (Claims, error) {
	if strings.Count(tokenStr, ".") != 2 {
		return Claims{}, ErrMalformed
	}

	// Time claims are checked below, after undoing float rounding.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var (
		token  *jwt.Token
		claims Claims
	)
	err := v.key.with(func(key []byte) error {
		var err error
		token, err = parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
			kid, _ := t.Header["kid"].(string)
			if kid != v.key.kid {
				return nil, ErrUnknownKID
			}
			return key, nil
		})
		return err
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	claims.normalize()
	if err := v.validate(claims, now); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func (v *HS256Verifier) validate(c Claims, now time.Time) error {
	switch {
	case c.Subject == "" || c.ExpiresAt == nil:
		return ErrInvalidClaim
	case v.issuer != "" && c.Issuer != v.issuer:
		return ErrIssuer
	case !now.Before(c.ExpiresAt.Time):
		return ErrExpired
	case c.IssuedAt != nil && now.Before(c.IssuedAt.Time),
		c.NotBefore != nil && now.Before(c.NotBefore.Time):
		return ErrNotYetValid
	}
	return nil
}

// mapParseError folds golang-jwt's error tree onto our sentinels.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownKID):
		return ErrUnknownKID
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		if strings.Contains(err.Error(), "signing method") {
			return ErrAlgMismatch
		}
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing), errors.Is(err, jwt.ErrTokenInvalidClaims):
		return ErrInvalidClaim
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
