package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agrifin-backend/internal/domain/user"
	"agrifin-backend/internal/logging"
	"agrifin-backend/internal/usecase/auth"
)

const (
	MsgNoCredentials = "Authentication credentials were not provided."
	MsgInvalidToken  = "Invalid token."
)

// Authenticator resolves an opaque bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.Principal, error)
}

// tokenFrom accepts "Bearer <t>" and "Token <t>".
func tokenFrom(header string) string {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
		return strings.TrimSpace(tok)
	}
	return ""
}

// Authenticate rejects requests without a valid token and stores the
// principal on the request context.
func Authenticate(a Authenticator, log *zap.Logger) echo.MiddlewareFunc {
	return authenticate(a, log, true)
}

// OptionalAuth resolves the principal when a token is present and lets
// anonymous requests through. A token that is present but unknown is still
// a 401.
func OptionalAuth(a Authenticator, log *zap.Logger) echo.MiddlewareFunc {
	return authenticate(a, log, false)
}

func authenticate(a Authenticator, log *zap.Logger, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			raw := req.Header.Get(echo.HeaderAuthorization)
			if raw == "" && !required {
				return next(c)
			}
			tok := tokenFrom(raw)
			if tok == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": MsgNoCredentials})
			}
			p, err := a.Authenticate(req.Context(), tok)
			if errors.Is(err, auth.ErrInvalidToken) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": MsgInvalidToken})
			}
			if err != nil {
				logging.FromContext(req.Context(), log).Error("authenticate", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
			ctx := user.WithPrincipal(req.Context(), *p)
			ctx = logging.WithLogger(ctx, logging.FromContext(ctx, log).With(zap.Uint64("user_id", p.UserID)))
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

var roleDenied = map[user.Role]string{
	user.RoleFarmer:       "Farmer access required",
	user.RoleMicrofinance: "Microfinance access required",
	user.RoleAdmin:        "Admin access required",
}

// RequireRole must run after Authenticate.
func RequireRole(role user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := user.PrincipalFrom(c.Request().Context())
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": MsgNoCredentials})
			}
			if p.Role != role {
				return c.JSON(http.StatusForbidden, map[string]string{"error": roleDenied[role]})
			}
			return next(c)
		}
	}
}
