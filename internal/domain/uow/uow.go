package uow

import (
	"context"

	"agrifin-backend/internal/domain/application"
	"agrifin-backend/internal/domain/loan"
	"agrifin-backend/internal/domain/passwordreset"
	"agrifin-backend/internal/domain/user"
)

// Repos are bound to one transaction.
type Repos struct {
	Applications application.Repository
	Loans        loan.Repository
	Repayments   loan.RepaymentRepository
	Users        user.Repository
	ResetTokens  passwordreset.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: load the still-pending application first, then pass it in
	WithinPendingApplicationTx(ctx context.Context, applicationID uint64, fn func(r Repos, a *application.Application) error) error
}
