package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// ErrModelUnavailable means the scoring models are not loaded or the
// service cannot be reached.
var ErrModelUnavailable = errors.New("ML models not available")

type Scorer interface {
	PredictEligibility(ctx context.Context, f Features) (bool, error)
	PredictRisk(ctx context.Context, f Features) (float64, error)
	RecommendAmount(ctx context.Context, f Features) (decimal.Decimal, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// RPS paces outbound calls; zero disables pacing.
	RPS float64
}

// HTTPScorer calls the scoring service at BaseURL:
//
//	POST /predict/eligibility      -> {"approved": bool}
//	POST /predict/risk             -> {"risk_score": float}
//	POST /predict/recommend-amount -> {"recommended_amount": number}
//
// The service answers 503 while its models are not loaded.
type HTTPScorer struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewHTTPScorer(cfg Config) *HTTPScorer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), int(cfg.RPS)+1)
	}
	return &HTTPScorer{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

func (s *HTTPScorer) PredictEligibility(ctx context.Context, f Features) (bool, error) {
	var out struct {
		Approved *bool `json:"approved"`
	}
	if err := s.post(ctx, "/predict/eligibility", f, &out); err != nil {
		return false, err
	}
	if out.Approved == nil {
		return false, errors.New("eligibility response missing approved")
	}
	return *out.Approved, nil
}

func (s *HTTPScorer) PredictRisk(ctx context.Context, f Features) (float64, error) {
	var out struct {
		RiskScore *float64 `json:"risk_score"`
	}
	if err := s.post(ctx, "/predict/risk", f, &out); err != nil {
		return 0, err
	}
	if out.RiskScore == nil {
		return 0, errors.New("risk response missing risk_score")
	}
	return *out.RiskScore, nil
}

func (s *HTTPScorer) RecommendAmount(ctx context.Context, f Features) (decimal.Decimal, error) {
	var out struct {
		Amount *decimal.Decimal `json:"recommended_amount"`
	}
	if err := s.post(ctx, "/predict/recommend-amount", f, &out); err != nil {
		return decimal.Zero, err
	}
	if out.Amount == nil {
		return decimal.Zero, errors.New("amount response missing recommended_amount")
	}
	return out.Amount.Round(2), nil
}

func (s *HTTPScorer) post(ctx context.Context, path string, f Features, out any) error {
	if s.baseURL == "" {
		return ErrModelUnavailable
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	body, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return ErrModelUnavailable
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("scoring failed (%d): %s", resp.StatusCode, errorMessage(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls {"error": "..."} or {"detail": "..."} out of an error body.
func errorMessage(raw []byte) string {
	var e struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Detail != "" {
			return e.Detail
		}
	}
	return strings.TrimSpace(string(raw))
}

// PredictionError is any scoring failure other than ErrModelUnavailable.
// Its message is safe to return to the caller.
type PredictionError struct {
	Model string
	Err   error
}

func (e *PredictionError) Error() string { return e.Err.Error() }
func (e *PredictionError) Unwrap() error { return e.Err }

// Classify leaves ErrModelUnavailable (and nil) untouched and wraps every
// other error in a PredictionError for model.
func Classify(model string, err error) error {
	if err == nil || errors.Is(err, ErrModelUnavailable) {
		return err
	}
	var pe *PredictionError
	if errors.As(err, &pe) {
		return err
	}
	return &PredictionError{Model: model, Err: err}
}
