package httpx

import "context"

type principalKey struct{}

// PrincipalFromContext returns the principal AuthnMiddleware resolved for
// this request. ok is false on routes that are not behind the middleware.
func PrincipalFromContext[P any](ctx context.Context) (p P, ok bool) {
	p, ok = ctx.Value(principalKey{}).(P)
	return p, ok
}

// WithPrincipal stores p where PrincipalFromContext finds it.
func WithPrincipal[P any](ctx context.Context, p P) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}
