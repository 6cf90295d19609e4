// Package explain renders rule-based, human readable justifications for
// the scoring outputs. It never calls the models; every function is a pure
// function of the feature payload and the prediction.
package explain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fallbacks for missing or non-numeric payload values.
const (
	DefaultCreditScore    = 620
	DefaultAnnualIncome   = 60000
	DefaultLoanAmount     = 20000
	DefaultDebtToIncome   = 0.35
	DefaultPaymentHistory = 25
	DefaultNetWorth       = 30000
	DefaultSavings        = 5000
	DefaultLoanDuration   = 48
	DefaultEmployment     = "Employed"
)

// EligibilityReason explains an eligibility decision as one sentence
// prefixed "Approved:" or "Denied:".
func EligibilityReason(payload map[string]any, approved bool) string {
	credit := Num(payload, "CreditScore", DefaultCreditScore)
	income := Num(payload, "AnnualIncome", DefaultAnnualIncome)
	amount := Num(payload, "LoanAmount", DefaultLoanAmount)
	dti := Num(payload, "DebtToIncomeRatio", DefaultDebtToIncome)
	employment := Str(payload, "EmploymentStatus", DefaultEmployment)
	defaults := Num(payload, "PreviousLoanDefaults", 0)
	bankruptcy := Num(payload, "BankruptcyHistory", 0)
	history := Num(payload, "PaymentHistory", DefaultPaymentHistory)

	var reasons []string
	if approved {
		switch {
		case credit >= 650:
			reasons = append(reasons, fmt.Sprintf("strong credit score (%d).", int(credit)))
		case credit >= 600:
			reasons = append(reasons, fmt.Sprintf("acceptable credit score (%d).", int(credit)))
		}
		// monthly income against a 48-month installment
		if income >= 50000 && amount > 0 && income/12 > amount/48 {
			reasons = append(reasons, "income supports the requested loan amount and repayment.")
		}
		if dti <= 0.40 {
			reasons = append(reasons, fmt.Sprintf("manageable debt-to-income ratio (%s).", percent(dti)))
		}
		if employment == "Employed" {
			reasons = append(reasons, "stable employment status.")
		}
		if defaults == 0 {
			reasons = append(reasons, "no previous loan defaults.")
		}
		if bankruptcy == 0 {
			reasons = append(reasons, "no bankruptcy history.")
		}
		if history >= 20 {
			reasons = append(reasons, "good payment history.")
		}
		if len(reasons) == 0 {
			reasons = append(reasons, "your overall profile meets the eligibility criteria.")
		}
		return "Approved: The application was approved based on " + strings.Join(reasons, " ")
	}

	if credit < 600 {
		reasons = append(reasons, fmt.Sprintf("credit score (%d).", int(credit)))
	}
	if dti > 0.45 {
		reasons = append(reasons, fmt.Sprintf("high debt-to-income ratio (%s).", percent(dti)))
	}
	if defaults > 0 {
		reasons = append(reasons, "previous loan default(s).")
	}
	if bankruptcy > 0 {
		reasons = append(reasons, "bankruptcy history.")
	}
	if employment == "Unemployed" {
		reasons = append(reasons, "employment status.")
	}
	if income < 30000 && amount > 10000 {
		reasons = append(reasons, "income may be insufficient for the requested amount.")
	}
	if history < 15 {
		reasons = append(reasons, "limited or weak payment history.")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "the combined risk factors in your profile.")
	}
	return "Denied: The application was not approved primarily due to " + strings.Join(reasons, ", ")
}

type RiskBand string

const (
	RiskLow      RiskBand = "Low risk"
	RiskModerate RiskBand = "Moderate risk"
	RiskHigher   RiskBand = "Higher risk"
)

// ScoreMeaning is the same for every score.
const ScoreMeaning = "Scores are typically in a range where lower values (e.g. below 40) indicate lower default risk " +
	"and higher values (e.g. above 55) indicate higher default risk. " +
	"The exact scale depends on the model training data."

var bandInterpretation = map[RiskBand]string{
	RiskLow: "The score indicates a lower likelihood of default. " +
		"Lenders may offer more favorable terms for applications in this range.",
	RiskModerate: "The score indicates a moderate level of default risk. " +
		"Lenders may apply standard terms or request additional assurance.",
	RiskHigher: "The score indicates a higher likelihood of default. " +
		"Lenders may require stronger guarantees or offer different terms.",
}

type RiskDescription struct {
	Band           RiskBand `json:"band"`
	Interpretation string   `json:"interpretation"`
	Description    string   `json:"description"`
	ScoreMeaning   string   `json:"score_meaning"`
}

// Band buckets a score: <35 low, <55 moderate, otherwise higher.
func Band(score float64) RiskBand {
	switch {
	case score < 35:
		return RiskLow
	case score < 55:
		return RiskModerate
	default:
		return RiskHigher
	}
}

func RiskScoreDescription(score float64) RiskDescription {
	band := Band(score)
	interp := bandInterpretation[band]
	return RiskDescription{
		Band:           band,
		Interpretation: string(band),
		Description: fmt.Sprintf("Risk score: %.1f. This is a relative measure of default risk (higher number = higher risk). Interpretation: %s \u2014 %s",
			score, band, interp),
		ScoreMeaning: ScoreMeaning,
	}
}

// AmountBasis is the same for every recommendation.
const AmountBasis = "The recommendation is driven by income, credit score, debt burden, assets, employment, " +
	"and loan term from your application."

type AmountExplanation struct {
	Explanation string `json:"explanation"`
	Basis       string `json:"basis"`
}

func RecommendAmountExplanation(payload map[string]any, amount float64) AmountExplanation {
	income := Num(payload, "AnnualIncome", DefaultAnnualIncome)
	credit := Num(payload, "CreditScore", DefaultCreditScore)
	dti := Num(payload, "DebtToIncomeRatio", DefaultDebtToIncome)
	netWorth := Num(payload, "NetWorth", DefaultNetWorth)
	savings := Num(payload, "SavingsAccountBalance", DefaultSavings)
	employment := Str(payload, "EmploymentStatus", DefaultEmployment)
	duration := Num(payload, "LoanDuration", DefaultLoanDuration)

	var factors []string
	if income > 0 {
		factors = append(factors, fmt.Sprintf("your annual income (%d RWF)", int(income)))
	}
	factors = append(factors,
		fmt.Sprintf("your credit score (%d)", int(credit)),
		fmt.Sprintf("your debt-to-income ratio (%s)", percent(dti)),
	)
	if netWorth > 0 {
		factors = append(factors, fmt.Sprintf("your net worth (%d RWF)", int(netWorth)))
	}
	if savings > 0 {
		factors = append(factors, fmt.Sprintf("savings and reserves (%d RWF)", int(savings)))
	}
	factors = append(factors, fmt.Sprintf("employment status (%s)", employment))
	if duration > 0 {
		factors = append(factors, fmt.Sprintf("requested loan duration (%d months)", int(duration)))
	}

	return AmountExplanation{
		Explanation: fmt.Sprintf("The recommended amount of %.0f RWF is based on your profile: %s. "+
			"The model considers these and other application features to suggest a loan amount "+
			"that aligns with typical approvals for similar profiles while respecting affordability and risk.",
			amount, strings.Join(factors, ", ")),
		Basis: AmountBasis,
	}
}

func percent(v float64) string { return fmt.Sprintf("%.0f%%", v*100) }

// Num reads a numeric payload value, accepting JSON numbers, Go numeric
// types and numeric strings. Anything else yields def.
func Num(payload map[string]any, key string, def float64) float64 {
	v, ok := payload[key]
	if !ok || v == nil {
		return def
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case bool:
		if n {
			f = 1
		}
	case json.Number:
		p, err := n.Float64()
		if err != nil {
			return def
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return def
		}
		f = p
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// Str reads a string payload value; missing, empty or non-string values yield def.
func Str(payload map[string]any, key, def string) string {
	if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return def
}
