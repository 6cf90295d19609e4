package loan

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultInterestRate = 0.12
	// MaxDurationMonths caps the schedule length of any loan.
	MaxDurationMonths = 600
	// InstallmentInterval separates consecutive due dates.
	InstallmentInterval = 30 * 24 * time.Hour
)

// MonthlyPayment is the fixed amortized installment rounded to 2 decimals:
//
//	amount * r * (1+r)^n / ((1+r)^n - 1), r = annualRate/12
//
// n == 0 yields zero. A zero rate spreads the principal evenly. When (1+r)^n
// overflows the installment converges to amount * r.
func MonthlyPayment(amount decimal.Decimal, annualRate float64, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	even := amount.Div(decimal.NewFromInt(int64(months))).Round(2)
	if annualRate == 0 {
		return even
	}
	r := annualRate / 12
	f := math.Pow(1+r, float64(months))
	var p float64
	if math.IsInf(f, 1) {
		p = amount.InexactFloat64() * r
	} else {
		p = amount.InexactFloat64() * r * f / (f - 1)
	}
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return even
	}
	return decimal.NewFromFloat(p).Round(2)
}

// BuildSchedule returns one pending installment per month, due every 30
// days starting 30 days after the approval date.
func BuildSchedule(loanID uint64, installment decimal.Decimal, months int, approvedAt time.Time) []Repayment {
	if months <= 0 {
		return nil
	}
	start := approvedAt.UTC().Truncate(24 * time.Hour)
	out := make([]Repayment, 0, months)
	for i := 1; i <= months; i++ {
		out = append(out, Repayment{
			LoanID:  loanID,
			Amount:  installment,
			DueDate: start.Add(time.Duration(i) * InstallmentInterval),
			Status:  RepaymentPending,
		})
	}
	return out
}
