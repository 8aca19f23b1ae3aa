package models

import "context"

type identityContextKey struct{}

// Identity is the verified caller asserted by a bearer credential.
// Roles are deliberately absent: they are re-read from the user store on
// every privileged call.
type Identity struct {
	Email string
}

// WithIdentity attaches the verified caller to a context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// GetIdentity retrieves the verified caller from context.
func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
