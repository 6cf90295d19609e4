package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"agrifin-backend/internal/domain/application"
	"agrifin-backend/internal/domain/loan"
	"agrifin-backend/internal/domain/uow"
	"agrifin-backend/internal/events"
	"agrifin-backend/internal/explain"
	"agrifin-backend/internal/logging"
	"agrifin-backend/internal/metrics"
	"agrifin-backend/internal/ml"
	loanUC "agrifin-backend/internal/usecase/loan"
)

var (
	ErrInvalidAction   = errors.New("action must be approve or reject")
	ErrInvalidDuration = fmt.Errorf("loan duration must be between 0 and %d months", loan.MaxDurationMonths)
)

// Page sizes.
const (
	FarmerPageSize = 50
	ReviewPageSize = 100
)

type Usecase struct {
	apps   application.Repository
	uow    uow.UnitOfWork
	scorer ml.Scorer
	pub    events.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewUsecase(apps application.Repository, tx uow.UnitOfWork, scorer ml.Scorer, pub events.Publisher, log *zap.Logger) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{apps: apps, uow: tx, scorer: scorer, pub: pub, log: log, now: time.Now}
}

// SetClock replaces the review clock.
func (u *Usecase) SetClock(now func() time.Time) { u.now = now }

// Submit scores the application and persists it only once every prediction
// it needs has succeeded. ml.ErrModelUnavailable and *ml.PredictionError are
// returned as-is so the caller can tell them apart.
func (u *Usecase) Submit(ctx context.Context, userID uint64, in SubmitInput) (*ApplicationDTO, error) {
	a := buildApplication(userID, in)
	if !validDuration(a.LoanDurationMonths) {
		return nil, ErrInvalidDuration
	}
	features := featuresFor(a)

	approved, err := u.scorer.PredictEligibility(ctx, features)
	if err != nil {
		metrics.ScoringCalls.WithLabelValues("eligibility", "error").Inc()
		return nil, ml.Classify("eligibility", err)
	}
	risk, err := u.scorer.PredictRisk(ctx, features)
	if err != nil {
		metrics.ScoringCalls.WithLabelValues("risk", "error").Inc()
		return nil, ml.Classify("risk", err)
	}
	if approved {
		amount, err := u.scorer.RecommendAmount(ctx, features)
		if err != nil {
			metrics.ScoringCalls.WithLabelValues("recommend", "error").Inc()
			return nil, ml.Classify("recommend", err)
		}
		a.RecommendedAmount = decimal.NewNullDecimal(amount.Round(2))
	}
	metrics.ScoringCalls.WithLabelValues("application", "ok").Inc()

	a.EligibilityApproved = &approved
	a.EligibilityReason = explain.EligibilityReason(features, approved)
	a.RiskScore = &risk
	raw, err := json.Marshal(features)
	if err != nil {
		return nil, err
	}
	a.Features = datatypes.JSON(raw)

	if err := u.apps.Create(ctx, a); err != nil {
		return nil, err
	}
	metrics.ApplicationsSubmitted.Inc()
	u.publish(ctx, events.NewEvent(events.TypeApplicationSubmitted, map[string]any{
		"application_id": a.ID,
		"user_id":        userID,
		"eligible":       approved,
	}))

	dto := toDTO(*a)
	return &dto, nil
}

func (u *Usecase) ListMine(ctx context.Context, userID uint64) ([]ApplicationDTO, error) {
	as, err := u.apps.ListByUser(ctx, userID, FarmerPageSize)
	if err != nil {
		return nil, err
	}
	return lo.Map(as, func(a application.Application, _ int) ApplicationDTO { return toDTO(a) }), nil
}

// ListForReview lists applications in status (pending when empty) with
// their applicant.
func (u *Usecase) ListForReview(ctx context.Context, status string) ([]ApplicationDTO, error) {
	if status == "" {
		status = string(application.StatusPending)
	}
	st, err := application.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	as, err := u.apps.ListByStatus(ctx, st, ReviewPageSize)
	if err != nil {
		return nil, err
	}
	return lo.Map(as, func(a application.Application, _ int) ApplicationDTO { return toDTO(a) }), nil
}

// Review moves a pending application to approved or rejected exactly once.
// A concurrent second review of the same id gets application.ErrNotFound.
func (u *Usecase) Review(ctx context.Context, reviewerID, applicationID uint64, in ReviewInput) (*ReviewDTO, error) {
	action := strings.ToLower(strings.TrimSpace(in.Action))
	if action != ActionApprove && action != ActionReject {
		return nil, ErrInvalidAction
	}
	if in.DurationMonths != nil && !validDuration(*in.DurationMonths) {
		return nil, ErrInvalidDuration
	}

	var out *ReviewDTO
	err := u.uow.WithinPendingApplicationTx(ctx, applicationID, func(r uow.Repos, a *application.Application) error {
		now := u.now().UTC()
		a.ReviewedByID = &reviewerID
		a.ReviewedAt = &now

		if action == ActionReject {
			a.Status = application.StatusRejected
			a.RejectionReason = lo.Substring(strings.TrimSpace(in.RejectionReason), 0, application.MaxRejectionReasonLen)
			if err := r.Applications.CompleteReview(ctx, a); err != nil {
				return err
			}
			out = &ReviewDTO{ID: a.ID, Status: string(a.Status), ReviewedAt: now, RejectionReason: lo.ToPtr(a.RejectionReason)}
			return nil
		}

		a.Status = application.StatusApproved
		a.RejectionReason = ""
		if err := r.Applications.CompleteReview(ctx, a); err != nil {
			return err
		}

		l := loanFor(a, in)
		if !validDuration(l.DurationMonths) {
			return ErrInvalidDuration
		}
		schedule := loan.BuildSchedule(0, l.MonthlyPayment, l.DurationMonths, now)
		if err := r.Loans.CreateWithSchedule(ctx, l, schedule); err != nil {
			return err
		}
		dto := loanUC.ToLoanDTO(*l)
		out = &ReviewDTO{ID: a.ID, Status: string(a.Status), ReviewedAt: now, Loan: &dto}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ApplicationsReviewed.WithLabelValues(action).Inc()
	payload := map[string]any{"application_id": out.ID, "status": out.Status, "reviewed_by": reviewerID}
	if out.Loan != nil {
		payload["loan_id"] = out.Loan.ID
	}
	u.publish(ctx, events.NewEvent(events.TypeApplicationReviewed, payload))
	return out, nil
}

func (u *Usecase) publish(ctx context.Context, e events.Event) {
	if err := u.pub.Publish(ctx, e); err != nil {
		logging.FromContext(ctx, u.log).Warn("publish event failed", zap.String("type", e.Type), zap.Error(err))
	}
}

// loanFor picks the loan terms: explicit override, else recommended amount,
// else requested amount; rate 0.12 and the requested duration by default.
func loanFor(a *application.Application, in ReviewInput) *loan.Loan {
	amount := a.LoanAmountRequested
	switch {
	case in.Amount != nil:
		amount = *in.Amount
	case a.RecommendedAmount.Valid:
		amount = a.RecommendedAmount.Decimal
	}
	rate := loan.DefaultInterestRate
	if in.InterestRate != nil {
		rate = *in.InterestRate
	}
	months := a.LoanDurationMonths
	if in.DurationMonths != nil {
		months = *in.DurationMonths
	}
	amount = amount.Round(2)
	return &loan.Loan{
		ApplicationID:  a.ID,
		Amount:         amount,
		InterestRate:   decimal.NewFromFloat(rate),
		DurationMonths: months,
		MonthlyPayment: loan.MonthlyPayment(amount, rate, months),
	}
}

func validDuration(months int) bool { return months >= 0 && months <= loan.MaxDurationMonths }

func buildApplication(userID uint64, in SubmitInput) *application.Application {
	a := &application.Application{
		UserID:              userID,
		Age:                 lo.FromPtrOr(in.Age, DefaultAge),
		AnnualIncome:        lo.FromPtrOr(in.AnnualIncome, decimal.Zero).Round(2),
		CreditScore:         lo.FromPtrOr(in.CreditScore, DefaultCreditScore),
		LoanAmountRequested: lo.FromPtrOr(in.LoanAmountRequested, decimal.Zero).Round(2),
		LoanDurationMonths:  lo.FromPtrOr(in.LoanDurationMonths, DefaultDurationMonths),
		EmploymentStatus:    textOr(in.EmploymentStatus, DefaultEmploymentStatus, application.MaxEmploymentStatusLen),
		EducationLevel:      textOr(in.EducationLevel, DefaultEducationLevel, application.MaxEducationLevelLen),
		MaritalStatus:       textOr(in.MaritalStatus, DefaultMaritalStatus, application.MaxMaritalStatusLen),
		LoanPurpose:         textOr(in.LoanPurpose, DefaultLoanPurpose, application.MaxLoanPurposeLen),
		Status:              application.StatusPending,
	}
	return a
}

func textOr(s, def string, n int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		s = def
	}
	return lo.Substring(s, 0, uint(n))
}

// featuresFor maps the stored inputs onto the model's feature schema.
func featuresFor(a *application.Application) ml.Features {
	f := ml.WithDefaults(map[string]any{
		"Age":          float64(a.Age),
		"AnnualIncome": a.AnnualIncome.InexactFloat64(),
		"CreditScore":  float64(a.CreditScore),
		"LoanAmount":   a.LoanAmountRequested.InexactFloat64(),
		"LoanDuration": float64(a.LoanDurationMonths),
	})
	f.SetCategorical("EmploymentStatus", a.EmploymentStatus)
	f.SetCategorical("EducationLevel", a.EducationLevel)
	f.SetCategorical("MaritalStatus", a.MaritalStatus)
	f.SetCategorical("LoanPurpose", a.LoanPurpose)
	f.SetCategorical("HomeOwnershipStatus", DefaultHomeOwnership)
	return f
}

func toDTO(a application.Application) ApplicationDTO {
	dto := ApplicationDTO{
		ID:                  a.ID,
		Age:                 a.Age,
		AnnualIncome:        a.AnnualIncome,
		CreditScore:         a.CreditScore,
		LoanAmountRequested: a.LoanAmountRequested,
		LoanDurationMonths:  a.LoanDurationMonths,
		EmploymentStatus:    a.EmploymentStatus,
		EducationLevel:      a.EducationLevel,
		MaritalStatus:       a.MaritalStatus,
		LoanPurpose:         a.LoanPurpose,
		EligibilityApproved: a.EligibilityApproved,
		EligibilityReason:   a.EligibilityReason,
		RiskScore:           a.RiskScore,
		RecommendedAmount:   a.RecommendedAmount,
		Status:              string(a.Status),
		ReviewedAt:          a.ReviewedAt,
		RejectionReason:     a.RejectionReason,
		CreatedAt:           a.CreatedAt,
	}
	if a.User != nil {
		dto.Applicant = &ApplicantDTO{ID: a.User.ID, Email: a.User.Email, Name: a.User.FirstName}
	}
	return dto
}
