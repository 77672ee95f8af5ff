package auth

import "context"

type ctxKey string

const userKey ctxKey = "userClaims"

// Claims is the identity carried by a verified access token.
type Claims struct {
	Username string
	Email    string
	UserID   int
}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, userKey, c)
}

func FromContext(ctx context.Context) Claims {
	if v, ok := ctx.Value(userKey).(Claims); ok {
		return v
	}
	return Claims{}
}

func Username(ctx context.Context) string {
	return FromContext(ctx).Username
}
