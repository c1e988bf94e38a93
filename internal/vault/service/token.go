package service

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/credvault/internal/vault/domain"
	"github.com/aussiebroadwan/credvault/internal/vault/metrics"
	"github.com/aussiebroadwan/credvault/pkg/jwtx"
)

// TokenService issues and checks session tokens. It holds no state beyond
// the process scoped signing key.
type TokenService struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string
	TTL      time.Duration // defaults to jwtx.DefaultSessionTTL
	Metrics  *metrics.Metrics
}

// NewTokenService wires a TokenService to a KeyManager.
func NewTokenService(km *jwtx.KeyManager, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		Signer:   km.Signer,
		Verifier: km.Verifier,
		Issuer:   issuer,
		TTL:      ttl,
	}
}

func (s *TokenService) ttl() time.Duration {
	if s.TTL <= 0 {
		return jwtx.DefaultSessionTTL
	}
	return s.TTL
}

// Issue signs a token for username valid until now+TTL.
func (s *TokenService) Issue(username string, now time.Time) (domain.Session, error) {
	claims := jwtx.NewSessionClaims(username, s.Issuer, s.ttl(), now)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.Session{}, fmt.Errorf("sign session token: %w", err)
	}

	return domain.Session{
		AccessToken: token,
		TokenType:   domain.TokenTypeBearer,
		IssuedAt:    claims.Issued(),
		ExpiresAt:   claims.Expiry(),
	}, nil
}

// Verify returns the subject of token when it is authentic and now is before
// its expiry. Any failure yields ("", false).
func (s *TokenService) Verify(token string, now time.Time) (string, bool) {
	claims, err := s.Verifier.Verify(token, now)
	if err != nil {
		s.Metrics.ObserveTokenVerification(false)
		return "", false
	}
	s.Metrics.ObserveTokenVerification(true)
	return claims.Subject, true
}
