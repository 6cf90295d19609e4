package scorermock

import (
	"context"

	"github.com/shopspring/decimal"

	"agrifin-backend/internal/ml"
)

var _ ml.Scorer = (*Scorer)(nil)

// Scorer is a function-backed ml.Scorer. Unset predictions report
// ml.ErrModelUnavailable, like a service whose models are not loaded.
type Scorer struct {
	EligibilityFn func(ctx context.Context, f ml.Features) (bool, error)
	RiskFn        func(ctx context.Context, f ml.Features) (float64, error)
	AmountFn      func(ctx context.Context, f ml.Features) (decimal.Decimal, error)

	Calls []string
}

// Fixed returns a scorer that always answers with the given values.
func Fixed(approved bool, risk float64, amount decimal.Decimal) *Scorer {
	return &Scorer{
		EligibilityFn: func(context.Context, ml.Features) (bool, error) { return approved, nil },
		RiskFn:        func(context.Context, ml.Features) (float64, error) { return risk, nil },
		AmountFn:      func(context.Context, ml.Features) (decimal.Decimal, error) { return amount, nil },
	}
}

func (s *Scorer) PredictEligibility(ctx context.Context, f ml.Features) (bool, error) {
	s.Calls = append(s.Calls, "eligibility")
	if s.EligibilityFn != nil {
		return s.EligibilityFn(ctx, f)
	}
	return false, ml.ErrModelUnavailable
}

func (s *Scorer) PredictRisk(ctx context.Context, f ml.Features) (float64, error) {
	s.Calls = append(s.Calls, "risk")
	if s.RiskFn != nil {
		return s.RiskFn(ctx, f)
	}
	return 0, ml.ErrModelUnavailable
}

func (s *Scorer) RecommendAmount(ctx context.Context, f ml.Features) (decimal.Decimal, error) {
	s.Calls = append(s.Calls, "recommend")
	if s.AmountFn != nil {
		return s.AmountFn(ctx, f)
	}
	return decimal.Zero, ml.ErrModelUnavailable
}
