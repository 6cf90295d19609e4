// Package ml is the client side of the external scoring service: the
// feature payload it expects and an HTTP client for its three predictions.
package ml

import (
	"maps"
	"slices"
)

// Features is the flat key/value payload the models are trained on.
type Features map[string]any

// DefaultNumeric fills numeric features the caller did not send.
var DefaultNumeric = map[string]float64{
	"Age":                   35,
	"AnnualIncome":          60000,
	"CreditScore":           620,
	"LoanAmount":            20000,
	"LoanDuration":          48,
	"DebtToIncomeRatio":     0.35,
	"PreviousLoanDefaults":  0,
	"BankruptcyHistory":     0,
	"PaymentHistory":        25,
	"NetWorth":              30000,
	"SavingsAccountBalance": 5000,
	"NumberOfDependents":    1,
	"MonthlyDebtPayments":   500,
}

// CategoricalOptions enumerates the values each categorical feature was
// trained with. The first entry is the fallback for unknown input.
var CategoricalOptions = map[string][]string{
	"EmploymentStatus":    {"Employed", "Self-Employed", "Unemployed"},
	"EducationLevel":      {"High School", "Associate", "Bachelor", "Master", "Doctorate"},
	"MaritalStatus":       {"Married", "Single", "Divorced", "Widowed"},
	"LoanPurpose":         {"Other", "Home", "Auto", "Education", "Debt Consolidation"},
	"HomeOwnershipStatus": {"Own", "Rent", "Mortgage", "Other"},
}

// WithDefaults returns a copy of payload with missing numeric features set
// from DefaultNumeric. Values already present are kept as sent.
func WithDefaults(payload map[string]any) Features {
	out := make(Features, len(DefaultNumeric)+len(payload))
	for k, v := range DefaultNumeric {
		out[k] = v
	}
	maps.Copy(out, payload)
	return out
}

// SetCategorical stores value when it is a known option of key, otherwise
// the key's first option.
func (f Features) SetCategorical(key, value string) {
	opts := CategoricalOptions[key]
	if slices.Contains(opts, value) {
		f[key] = value
		return
	}
	if len(opts) > 0 {
		f[key] = opts[0]
	}
}
