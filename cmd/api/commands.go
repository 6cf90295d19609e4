package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"agrifin-backend/internal/adapter/repository/mysql"
	"agrifin-backend/internal/events"
	"agrifin-backend/internal/infrastructure/db"
	"agrifin-backend/internal/logging"
	authUC "agrifin-backend/internal/usecase/auth"
	loanUC "agrifin-backend/internal/usecase/loan"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := db.Migrate(rt.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			rt.log.Info("migrations applied", zap.Int("models", len(db.Models())))
			return nil
		},
	}
}

func createAdminCmd(configPath *string) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a staff account that resolves to the admin role",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			uc := authUC.NewUsecase(mysql.NewUserRepository(rt.db), mysql.NewTokenRepository(rt.db), nil, nil, rt.log)
			u, err := uc.CreateAdmin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			rt.log.Info("admin created", zap.Uint64("user_id", u.ID), zap.String("email", logging.MaskEmail(u.Email)))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (min 8 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// markOverdueCmd is meant to run from cron or a k8s CronJob once a day.
func markOverdueCmd(configPath *string) *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "mark-overdue",
		Short: "Flag pending repayments whose due date has passed as overdue",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now().UTC()
			if asOf != "" {
				d, err := time.Parse(time.DateOnly, asOf)
				if err != nil {
					return fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
				}
				day = d
			}
			rt, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			pub, err := events.New(rt.cfg.Events.Driver, rt.cfg.KafkaBrokers(), rt.cfg.Events.Topic, rt.cfg.NATS.URL)
			if err != nil {
				return err
			}
			defer pub.Close()

			uc := loanUC.NewUsecase(mysql.NewLoanRepository(rt.db), mysql.NewRepaymentRepository(rt.db), pub, rt.log)
			n, err := uc.MarkOverdue(cmd.Context(), day)
			if err != nil {
				return err
			}
			rt.log.Info("repayments marked overdue", zap.Int64("count", n), zap.String("as_of", day.Format(time.DateOnly)))
			return nil
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "treat this date (YYYY-MM-DD) as today")
	return cmd
}
