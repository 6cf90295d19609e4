package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"agrifin-backend/internal/domain/user"
	"agrifin-backend/internal/usecase/auth"
)

type fakeAuth map[string]user.Principal

func (f fakeAuth) Authenticate(_ context.Context, token string) (*user.Principal, error) {
	if token == "boom" {
		return nil, errors.New("db down")
	}
	p, ok := f[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return &p, nil
}

var principals = fakeAuth{
	"farmer-token": {UserID: 1, Email: "f@x.rw", Role: user.RoleFarmer},
	"mfi-token":    {UserID: 2, Email: "m@x.rw", Role: user.RoleMicrofinance},
}

func whoAmI(c echo.Context) error {
	p, ok := user.PrincipalFrom(c.Request().Context())
	if !ok {
		return c.String(http.StatusOK, "anonymous")
	}
	return c.String(http.StatusOK, p.Email)
}

func serve(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	e := echo.New()
	e.GET("/x", whoAmI, Authenticate(principals, zap.NewNop()))

	cases := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"bearer", "Bearer farmer-token", http.StatusOK, "f@x.rw"},
		{"token scheme", "Token mfi-token", http.StatusOK, "m@x.rw"},
		{"missing", "", http.StatusUnauthorized, MsgNoCredentials},
		{"unknown scheme", "Basic abc", http.StatusUnauthorized, MsgNoCredentials},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, MsgInvalidToken},
		{"backend error", "Bearer boom", http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(e, tc.header)
			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	e := echo.New()
	e.GET("/x", whoAmI, OptionalAuth(principals, zap.NewNop()))

	assert.Equal(t, "anonymous", serve(e, "").Body.String())
	assert.Equal(t, "f@x.rw", serve(e, "Bearer farmer-token").Body.String())
	assert.Equal(t, http.StatusUnauthorized, serve(e, "Bearer nope").Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	a := Authenticate(principals, zap.NewNop())
	e.GET("/x", whoAmI, a, RequireRole(user.RoleMicrofinance))

	rec := serve(e, "Bearer farmer-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Microfinance access required")

	rec = serve(e, "Bearer mfi-token")
	assert.Equal(t, http.StatusOK, rec.Code)

	f := echo.New()
	f.GET("/x", whoAmI, a, RequireRole(user.RoleFarmer))
	rec = serve(f, "Bearer mfi-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Farmer access required")

	// without Authenticate in front
	g := echo.New()
	g.GET("/x", whoAmI, RequireRole(user.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, serve(g, "").Code)
}

func TestTokenFrom(t *testing.T) {
	assert.Equal(t, "abc", tokenFrom("Bearer abc"))
	assert.Equal(t, "abc", tokenFrom("bearer   abc "))
	assert.Equal(t, "abc", tokenFrom("Token abc"))
	assert.Equal(t, "", tokenFrom("abc"))
	assert.Equal(t, "", tokenFrom("Basic abc"))
}
