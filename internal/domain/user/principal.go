package user

import "context"

// Principal is the authenticated caller, resolved once per request.
type Principal struct {
	UserID uint64 `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   Role   `json:"role"`
}

func NewPrincipal(u *User) Principal {
	return Principal{UserID: u.ID, Email: u.Email, Name: u.FirstName, Role: u.Role()}
}

type principalCtxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(Principal)
	return p, ok
}
