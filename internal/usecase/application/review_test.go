package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agrifin-backend/internal/adapter/repository/mysql"
	"agrifin-backend/internal/domain/application"
	"agrifin-backend/internal/domain/loan"
	"agrifin-backend/internal/domain/user"
	"agrifin-backend/internal/testutil/scorermock"
	"agrifin-backend/internal/testutil/sqlitedb"
)

var approvedAt = time.Date(2025, 3, 14, 15, 4, 5, 0, time.UTC)

func newReviewFixture(t *testing.T, durationMonths int, recommended *decimal.Decimal) (*Usecase, *gorm.DB, *application.Application) {
	t.Helper()
	db := sqlitedb.Open(t)
	ctx := context.Background()

	farmer := &user.User{Email: "farmer@example.rw", PasswordHash: "x", Profile: &user.Profile{Role: user.RoleFarmer}}
	require.NoError(t, mysql.NewUserRepository(db).Create(ctx, farmer))

	a := &application.Application{
		UserID:              farmer.ID,
		Age:                 35,
		AnnualIncome:        decimal.NewFromInt(60000),
		CreditScore:         680,
		LoanAmountRequested: decimal.NewFromInt(1000),
		LoanDurationMonths:  durationMonths,
		Status:              application.StatusPending,
	}
	if recommended != nil {
		a.RecommendedAmount = decimal.NewNullDecimal(*recommended)
	}
	apps := mysql.NewApplicationRepository(db)
	require.NoError(t, apps.Create(ctx, a))

	uc := NewUsecase(apps, mysql.NewGormUoW(db), &scorermock.Scorer{}, nil, nil)
	uc.SetClock(func() time.Time { return approvedAt })
	return uc, db, a
}

func TestReview_ApproveBuildsLoanAndSchedule(t *testing.T) {
	rec := decimal.NewFromInt(1200)
	uc, db, a := newReviewFixture(t, 12, &rec)

	out, err := uc.Review(context.Background(), 99, a.ID, ReviewInput{Action: "approve"})
	require.NoError(t, err)
	assert.Equal(t, "approved", out.Status)
	require.NotNil(t, out.Loan)
	assert.True(t, out.Loan.Amount.Equal(rec), "recommended amount wins over requested")
	assert.True(t, out.Loan.InterestRate.Equal(decimal.RequireFromString("0.12")))
	assert.Equal(t, 12, out.Loan.DurationMonths)
	assert.True(t, out.Loan.MonthlyPayment.Equal(decimal.RequireFromString("106.62")), "got %s", out.Loan.MonthlyPayment)

	var stored application.Application
	require.NoError(t, db.First(&stored, a.ID).Error)
	assert.Equal(t, application.StatusApproved, stored.Status)
	require.NotNil(t, stored.ReviewedByID)
	assert.EqualValues(t, 99, *stored.ReviewedByID)

	var reps []loan.Repayment
	require.NoError(t, db.Where("loan_id = ?", out.Loan.ID).Order("due_date ASC").Find(&reps).Error)
	require.Len(t, reps, 12)
	first := time.Date(2025, 4, 13, 0, 0, 0, 0, time.UTC)
	assert.True(t, reps[0].DueDate.UTC().Equal(first), "first due %v", reps[0].DueDate)
	for i := 1; i < len(reps); i++ {
		assert.Equal(t, 30*24*time.Hour, reps[i].DueDate.Sub(reps[i-1].DueDate))
		assert.True(t, reps[i].Amount.Equal(out.Loan.MonthlyPayment))
		assert.Equal(t, loan.RepaymentPending, reps[i].Status)
	}
}

func TestReview_ApproveOverridesAndZeroDuration(t *testing.T) {
	uc, db, a := newReviewFixture(t, 6, nil)

	amount := decimal.NewFromInt(500)
	rate := 0.2
	zero := 0
	out, err := uc.Review(context.Background(), 1, a.ID, ReviewInput{
		Action: "APPROVE", Amount: &amount, InterestRate: &rate, DurationMonths: &zero,
	})
	require.NoError(t, err)
	assert.True(t, out.Loan.Amount.Equal(amount))
	assert.True(t, out.Loan.MonthlyPayment.IsZero())

	var n int64
	require.NoError(t, db.Model(&loan.Repayment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestReview_ApproveFallsBackToRequestedAmount(t *testing.T) {
	uc, _, a := newReviewFixture(t, 2, nil)

	out, err := uc.Review(context.Background(), 1, a.ID, ReviewInput{Action: "approve"})
	require.NoError(t, err)
	assert.True(t, out.Loan.Amount.Equal(decimal.NewFromInt(1000)))
	assert.Nil(t, out.RejectionReason)
}

func TestReview_ApproveRejectsOutOfRangeDuration(t *testing.T) {
	t.Run("stored duration", func(t *testing.T) {
		uc, db, a := newReviewFixture(t, 80000, nil)

		_, err := uc.Review(context.Background(), 1, a.ID, ReviewInput{Action: "approve"})
		require.ErrorIs(t, err, ErrInvalidDuration)

		var stored application.Application
		require.NoError(t, db.First(&stored, a.ID).Error)
		assert.Equal(t, application.StatusPending, stored.Status)
		var n int64
		require.NoError(t, db.Model(&loan.Loan{}).Count(&n).Error)
		assert.Zero(t, n)
	})

	t.Run("override", func(t *testing.T) {
		uc, _, a := newReviewFixture(t, 12, nil)
		months := loan.MaxDurationMonths + 1

		_, err := uc.Review(context.Background(), 1, a.ID, ReviewInput{Action: "approve", DurationMonths: &months})
		require.ErrorIs(t, err, ErrInvalidDuration)
	})

	t.Run("upper bound is accepted", func(t *testing.T) {
		uc, db, a := newReviewFixture(t, loan.MaxDurationMonths, nil)

		out, err := uc.Review(context.Background(), 1, a.ID, ReviewInput{Action: "approve"})
		require.NoError(t, err)
		assert.True(t, out.Loan.MonthlyPayment.IsPositive())
		var n int64
		require.NoError(t, db.Model(&loan.Repayment{}).Where("loan_id = ?", out.Loan.ID).Count(&n).Error)
		assert.EqualValues(t, loan.MaxDurationMonths, n)
	})
}

func TestReview_RejectStoresTruncatedReason(t *testing.T) {
	uc, db, a := newReviewFixture(t, 12, nil)
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'r'
	}

	out, err := uc.Review(context.Background(), 7, a.ID, ReviewInput{Action: "reject", RejectionReason: string(long)})
	require.NoError(t, err)
	assert.Equal(t, "rejected", out.Status)
	assert.Nil(t, out.Loan)
	require.NotNil(t, out.RejectionReason)
	assert.Len(t, *out.RejectionReason, application.MaxRejectionReasonLen)

	var n int64
	require.NoError(t, db.Model(&loan.Loan{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestReview_SecondReviewIsNotFound(t *testing.T) {
	uc, _, a := newReviewFixture(t, 3, nil)
	ctx := context.Background()

	_, err := uc.Review(ctx, 1, a.ID, ReviewInput{Action: "reject"})
	require.NoError(t, err)

	_, err = uc.Review(ctx, 2, a.ID, ReviewInput{Action: "approve"})
	assert.ErrorIs(t, err, application.ErrNotFound)

	_, err = uc.Review(ctx, 2, a.ID+100, ReviewInput{Action: "approve"})
	assert.ErrorIs(t, err, application.ErrNotFound)
}

func TestReview_ConcurrentReviewsExactlyOneWins(t *testing.T) {
	uc, db, a := newReviewFixture(t, 4, nil)
	ctx := context.Background()

	actions := []string{"approve", "reject", "approve", "reject"}
	errs := make([]error, len(actions))
	var wg sync.WaitGroup
	for i, act := range actions {
		wg.Add(1)
		go func(i int, act string) {
			defer wg.Done()
			_, errs[i] = uc.Review(ctx, uint64(i+1), a.ID, ReviewInput{Action: act})
		}(i, act)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, application.ErrNotFound):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)

	var stored application.Application
	require.NoError(t, db.First(&stored, a.ID).Error)
	assert.NotEqual(t, application.StatusPending, stored.Status)

	var loans int64
	require.NoError(t, db.Model(&loan.Loan{}).Count(&loans).Error)
	if stored.Status == application.StatusApproved {
		assert.EqualValues(t, 1, loans)
	} else {
		assert.Zero(t, loans)
	}
}
