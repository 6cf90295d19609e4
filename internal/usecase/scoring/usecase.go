package scoring

import (
	"context"

	"github.com/shopspring/decimal"

	"agrifin-backend/internal/explain"
	"agrifin-backend/internal/metrics"
	"agrifin-backend/internal/ml"
)

const EligibilityDescription = "Approved means the model predicts the application would be accepted; denied means it would likely be rejected. " +
	"The reason is derived from your application features (e.g. credit score, income, debt-to-income, employment, payment history)."

type EligibilityDTO struct {
	Approved    bool   `json:"approved"`
	Prediction  int    `json:"prediction"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

type RiskDTO struct {
	RiskScore      float64 `json:"risk_score"`
	Interpretation string  `json:"interpretation"`
	Description    string  `json:"description"`
	ScoreMeaning   string  `json:"score_meaning"`
}

type AmountDTO struct {
	RecommendedAmount decimal.Decimal `json:"recommended_amount"`
	Explanation       string          `json:"explanation"`
	Basis             string          `json:"basis"`
}

// Usecase serves the stand-alone prediction endpoints: the raw payload is
// completed with defaults, scored and explained.
type Usecase struct{ scorer ml.Scorer }

func NewUsecase(s ml.Scorer) *Usecase { return &Usecase{scorer: s} }

func observe(model string, err error) error {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ScoringCalls.WithLabelValues(model, result).Inc()
	return ml.Classify(model, err)
}

func (u *Usecase) Eligibility(ctx context.Context, payload map[string]any) (*EligibilityDTO, error) {
	f := ml.WithDefaults(payload)
	approved, err := u.scorer.PredictEligibility(ctx, f)
	if err := observe("eligibility", err); err != nil {
		return nil, err
	}
	out := &EligibilityDTO{
		Approved:    approved,
		Reason:      explain.EligibilityReason(f, approved),
		Description: EligibilityDescription,
	}
	if approved {
		out.Prediction = 1
	}
	return out, nil
}

func (u *Usecase) Risk(ctx context.Context, payload map[string]any) (*RiskDTO, error) {
	f := ml.WithDefaults(payload)
	score, err := u.scorer.PredictRisk(ctx, f)
	if err := observe("risk", err); err != nil {
		return nil, err
	}
	d := explain.RiskScoreDescription(score)
	return &RiskDTO{
		RiskScore:      score,
		Interpretation: d.Interpretation,
		Description:    d.Description,
		ScoreMeaning:   d.ScoreMeaning,
	}, nil
}

func (u *Usecase) RecommendAmount(ctx context.Context, payload map[string]any) (*AmountDTO, error) {
	f := ml.WithDefaults(payload)
	amount, err := u.scorer.RecommendAmount(ctx, f)
	if err := observe("recommend", err); err != nil {
		return nil, err
	}
	amount = amount.Round(2)
	e := explain.RecommendAmountExplanation(f, amount.InexactFloat64())
	return &AmountDTO{RecommendedAmount: amount, Explanation: e.Explanation, Basis: e.Basis}, nil
}
