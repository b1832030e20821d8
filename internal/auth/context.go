// Package auth carries the authenticated user through a request context.
package auth

import "context"

type contextKey struct{}

// User is the identity established by basic auth.
type User struct {
	Name string
}

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(contextKey{}).(User)
	return u, ok
}

// Username returns the authenticated user name, or "" for anonymous requests.
func Username(ctx context.Context) string {
	u, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return u.Name
}
