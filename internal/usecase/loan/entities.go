package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanDTO struct {
	ID             uint64          `json:"id"`
	ApplicationID  uint64          `json:"application_id"`
	Amount         decimal.Decimal `json:"amount"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	DurationMonths int             `json:"duration_months"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	DisbursedAt    *time.Time      `json:"disbursed_at"`
	CreatedAt      time.Time       `json:"created_at"`
}

type RepaymentDTO struct {
	ID      uint64          `json:"id"`
	LoanID  uint64          `json:"loan_id"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate string          `json:"due_date"` // YYYY-MM-DD
	Status  string          `json:"status"`
	PaidAt  *time.Time      `json:"paid_at"`
}

type RepaymentCounts struct {
	Paid    int64 `json:"paid"`
	Overdue int64 `json:"overdue"`
	Pending int64 `json:"pending"`
	Total   int64 `json:"total"`
}

type PortfolioDTO struct {
	TotalLoans           int64           `json:"total_loans"`
	TotalAmountDisbursed decimal.Decimal `json:"total_amount_disbursed"`
	Repayments           RepaymentCounts `json:"repayments"`
}
