package http

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"agrifin-backend/internal/adapter/middleware"
	"agrifin-backend/internal/domain/user"
)

type Handlers struct {
	Health  *Handler
	Auth    *AuthHandler
	Farmer  *FarmerHandler
	MFI     *MFIHandler
	Scoring *ScoringHandler
	Admin   *AdminHandler
}

type RouterConfig struct {
	Authenticator  middleware.Authenticator
	Redis          *redis.Client
	IdempotencyTTL time.Duration
	Limiter        *middleware.IPRateLimiter
	Log            *zap.Logger
}

// NewRouter wires every route. Anonymous endpoints sit behind the per-IP
// limiter; dashboard routes behind Authenticate and a role gate.
func NewRouter(h Handlers, rc RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(rc.Log))

	e.GET("/health", h.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authn := middleware.Authenticate(rc.Authenticator, rc.Log)
	limited := []echo.MiddlewareFunc{}
	if rc.Limiter != nil {
		limited = append(limited, rc.Limiter.Middleware())
	}

	api := e.Group("/api")

	api.POST("/auth/register", h.Auth.Register, limited...)
	api.POST("/auth/login", h.Auth.Login, limited...)
	api.POST("/auth/forgot-password", h.Auth.ForgotPassword, limited...)
	api.POST("/auth/reset-password", h.Auth.ResetPassword, limited...)
	api.POST("/eligibility", h.Scoring.Eligibility, limited...)
	api.POST("/risk", h.Scoring.Risk, limited...)
	api.POST("/recommend-amount", h.Scoring.RecommendAmount, limited...)
	api.POST("/chat", h.Scoring.Chat, append(limited, middleware.OptionalAuth(rc.Authenticator, rc.Log))...)
	api.POST("/activity/log", h.Admin.LogActivity, limited...)

	api.GET("/auth/me", h.Auth.Me, authn)

	farmer := api.Group("/farmer", authn, middleware.RequireRole(user.RoleFarmer))
	farmer.GET("/profile", h.Farmer.GetProfile)
	farmer.PATCH("/profile", h.Farmer.UpdateProfile)
	farmer.GET("/records", h.Farmer.ListRecords)
	farmer.POST("/records", h.Farmer.CreateRecord)
	farmer.GET("/applications", h.Farmer.ListApplications)
	submit := []echo.MiddlewareFunc{}
	if rc.Redis != nil {
		submit = append(submit, middleware.Idempotency(rc.Redis, rc.IdempotencyTTL, rc.Log))
	}
	farmer.POST("/applications", h.Farmer.SubmitApplication, submit...)
	farmer.GET("/loans", h.Farmer.ListLoans)
	farmer.GET("/repayments", h.Farmer.ListRepayments)

	mfi := api.Group("/mfi", authn, middleware.RequireRole(user.RoleMicrofinance))
	mfi.GET("/applications", h.MFI.ListApplications)
	mfi.POST("/applications/:id/review", h.MFI.Review)
	mfi.GET("/portfolio", h.MFI.Portfolio)

	admin := api.Group("/admin", authn, middleware.RequireRole(user.RoleAdmin))
	admin.GET("/activity", h.Admin.ListActivity)
	admin.GET("/users", h.Admin.ListUsers)
	admin.GET("/stats", h.Admin.Stats)

	return e
}
