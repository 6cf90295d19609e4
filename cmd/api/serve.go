package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpadp "agrifin-backend/internal/adapter/http"
	"agrifin-backend/internal/adapter/middleware"
	"agrifin-backend/internal/adapter/repository/mysql"
	"agrifin-backend/internal/chatbot"
	"agrifin-backend/internal/events"
	"agrifin-backend/internal/infrastructure/cache"
	"agrifin-backend/internal/mailer"
	"agrifin-backend/internal/ml"
	activityUC "agrifin-backend/internal/usecase/activity"
	adminUC "agrifin-backend/internal/usecase/admin"
	appUC "agrifin-backend/internal/usecase/application"
	authUC "agrifin-backend/internal/usecase/auth"
	chatUC "agrifin-backend/internal/usecase/chat"
	farmerUC "agrifin-backend/internal/usecase/farmer"
	loanUC "agrifin-backend/internal/usecase/loan"
	resetUC "agrifin-backend/internal/usecase/passwordreset"
	"agrifin-backend/internal/usecase/scoring"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg, log := rt.cfg, rt.log

	rdb, err := cache.OpenRedis(cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("redis connect: %w", err)
	}
	defer rdb.Close()

	pub, err := events.New(cfg.Events.Driver, cfg.KafkaBrokers(), cfg.Events.Topic, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}
	defer pub.Close()

	var mail mailer.Mailer = mailer.NewLogMailer(log)
	if cfg.Mail.Driver == "sqs" {
		m, err := mailer.NewSQSMailerFromEnv(ctx, cfg.Mail.Queue)
		if err != nil {
			return err
		}
		mail = m
	}

	bot, err := chatbot.New(chatbot.Config{BaseURL: cfg.Chat.BaseURL, APIKey: cfg.Chat.APIKey, Model: cfg.Chat.Model})
	if err != nil {
		return err
	}
	scorer := ml.NewHTTPScorer(ml.Config{
		BaseURL: cfg.ML.BaseURL,
		Timeout: time.Duration(cfg.ML.TimeoutSecs) * time.Second,
		RPS:     cfg.ML.RPS,
	})
	if cfg.ML.BaseURL == "" {
		log.Warn("ml.base_url not set; scoring endpoints will answer 503")
	}

	// repositories
	users := mysql.NewUserRepository(rt.db)
	apps := mysql.NewApplicationRepository(rt.db)
	tx := mysql.NewGormUoW(rt.db)

	// usecases
	principals := cache.NewPrincipalCache(rdb, time.Duration(cfg.Auth.TokenCacheSecs)*time.Second)
	authU := authUC.NewUsecase(users, mysql.NewTokenRepository(rt.db), principals, pub, log)
	resetU := resetUC.NewUsecase(users, mysql.NewPasswordResetRepository(rt.db), tx, mail, authU.HashPassword,
		resetUC.Config{FrontendURL: cfg.App.FrontendURL, From: cfg.Mail.From}, log)
	appU := appUC.NewUsecase(apps, tx, scorer, pub, log)
	loanU := loanUC.NewUsecase(mysql.NewLoanRepository(rt.db), mysql.NewRepaymentRepository(rt.db), pub, log)

	handlers := httpadp.Handlers{
		Health:  httpadp.NewHandler(sqlDBOrNil(rt)),
		Auth:    httpadp.NewAuthHandler(authU, resetU, cfg.App.Debug, log),
		Farmer:  httpadp.NewFarmerHandler(farmerUC.NewUsecase(mysql.NewFarmerRepository(rt.db)), appU, loanU, log),
		MFI:     httpadp.NewMFIHandler(appU, loanU, log),
		Scoring: httpadp.NewScoringHandler(scoring.NewUsecase(scorer), chatUC.NewUsecase(bot, mysql.NewChatRepository(rt.db), log), log),
		Admin: httpadp.NewAdminHandler(
			activityUC.NewUsecase(mysql.NewActivityRepository(rt.db), pub, log),
			adminUC.NewUsecase(users, apps), log),
	}
	e := httpadp.NewRouter(handlers, httpadp.RouterConfig{
		Authenticator:  authU,
		Redis:          rdb,
		IdempotencyTTL: time.Duration(cfg.Idempotency.TTLSecs) * time.Second,
		Limiter:        middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Log:            log,
	})

	return listen(ctx, e, ":"+cfg.App.Port, log)
}

func sqlDBOrNil(rt *runtime) httpadp.Pinger {
	sqlDB, err := rt.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB
}

// listen serves until SIGINT/SIGTERM, then drains for up to 10s.
func listen(ctx context.Context, e *echo.Echo, addr string, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
