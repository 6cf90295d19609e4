package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table: loans. Exactly one per approved application.
type Loan struct {
	ID             uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	ApplicationID  uint64          `gorm:"column:application_id;not null;uniqueIndex:ux_loans_application"`
	Amount         decimal.Decimal `gorm:"column:amount;type:decimal(14,2);not null"`
	InterestRate   decimal.Decimal `gorm:"column:interest_rate;type:decimal(6,4);not null"`
	DurationMonths int             `gorm:"column:duration_months;not null"`
	MonthlyPayment decimal.Decimal `gorm:"column:monthly_payment;type:decimal(14,2);not null"`
	DisbursedAt    *time.Time      `gorm:"column:disbursed_at"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Repayments []Repayment `gorm:"foreignKey:LoanID"`
}

func (Loan) TableName() string { return "loans" }

type RepaymentStatus string

const (
	RepaymentPending RepaymentStatus = "pending"
	RepaymentPaid    RepaymentStatus = "paid"
	RepaymentOverdue RepaymentStatus = "overdue"
)

// Table: repayments. One row per installment.
type Repayment struct {
	ID        uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	LoanID    uint64          `gorm:"column:loan_id;not null;index:idx_repayments_loan"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(14,2);not null"`
	DueDate   time.Time       `gorm:"column:due_date;type:date;not null;index:idx_repayments_due"`
	Status    RepaymentStatus `gorm:"column:status;size:16;not null;default:'pending'"`
	PaidAt    *time.Time      `gorm:"column:paid_at"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Repayment) TableName() string { return "repayments" }

// Portfolio aggregates the lending book for MFI dashboards.
type Portfolio struct {
	TotalLoans     int64
	TotalAmount    decimal.Decimal
	PaidCount      int64
	OverdueCount   int64
	PendingCount   int64
	RepaymentCount int64
}
