package mysql

import (
	"context"
	"errors"

	appDomain "agrifin-backend/internal/domain/application"
	"agrifin-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Applications: &ApplicationRepository{db: tx},
		Loans:        &LoanRepository{db: tx},
		Repayments:   &RepaymentRepository{db: tx},
		Users:        &UserRepository{db: tx},
		ResetTokens:  &PasswordResetRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinPendingApplicationTx(ctx context.Context, applicationID uint64, fn func(r uow.Repos, a *appDomain.Application) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		a, err := r.Applications.FindPendingByID(ctx, applicationID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appDomain.ErrNotFound
		}
		if err != nil {
			return err
		}
		return fn(r, a)
	})
}
