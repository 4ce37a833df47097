package auth

import "context"

type claimsKey struct{}

// WithClaims кладёт проверенные claims в контекст запроса.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFrom достаёт claims, положенные мидлваром аутентификации.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}
