package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/credvault/pkg/cryptox"
	"github.com/aussiebroadwan/credvault/pkg/slogx"
)

// ErrMissingBearer is passed to the error handler when the request carries no
// bearer credentials.
var ErrMissingBearer = errors.New("httpx: missing bearer token")

// Authenticator resolves a bearer token into a principal.
type Authenticator[P any] interface {
	Authenticate(ctx context.Context, token string) (P, error)
}

// AuthnErrorHandler renders an authentication failure.
type AuthnErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// AuthnMiddleware requires an "Authorization: Bearer" header, resolves it with
// a and stores the principal in the request context. Failures go to onError,
// or produce a bare RFC 6750 401 when onError is nil.
func AuthnMiddleware[P any](a Authenticator[P], onError AuthnErrorHandler) Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			WriteBearerError(w, "token verification failed")
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				onError(w, r, ErrMissingBearer)
				return
			}

			fp := cryptox.Fingerprint(raw)
			principal, err := a.Authenticate(ctx, raw)
			if err != nil {
				log.Warn("bearer authentication failed", "token_fp", fp, "err", err)
				onError(w, r, err)
				return
			}

			ctx = slogx.With(WithPrincipal(ctx, principal), "token_fp", fp)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WriteBearerError sets the RFC 6750 challenge header and a 401 status.
func WriteBearerError(w http.ResponseWriter, desc string) {
	SetBearerChallenge(w, desc)
	w.WriteHeader(http.StatusUnauthorized)
}

// SetBearerChallenge sets the RFC 6750 challenge header without writing a status.
func SetBearerChallenge(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
}
