package auth

import "context"

// principalContextKey is the key type for storing a Principal in a
// context.Context. An unexported struct type avoids collisions.
type principalContextKey struct{}

// WithPrincipal returns a new context with the Principal attached.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext retrieves the Principal from the context.
// It returns nil if no authentication gate attached one.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok {
		return nil
	}
	return p
}
