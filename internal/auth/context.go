package auth

import (
	"context"
)

type ctxKey string

const (
	claimsKey ctxKey = "sessionClaims"
)

// Claims is everything a session asserts. There is a single administrator,
// so no identity travels with it.
type Claims struct {
	IsAuthenticated bool `json:"isAuthenticated"`
}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func FromContext(ctx context.Context) Claims {
	if v, ok := ctx.Value(claimsKey).(Claims); ok {
		return v
	}
	return Claims{}
}
