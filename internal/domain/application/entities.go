package application

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"agrifin-backend/internal/domain/user"
)

var (
	// ErrNotFound also covers applications that were already reviewed.
	ErrNotFound      = errors.New("application not found or already reviewed")
	ErrInvalidStatus = errors.New("invalid application status")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Free-text column widths.
const (
	MaxEmploymentStatusLen = 30
	MaxEducationLevelLen   = 30
	MaxMaritalStatusLen    = 20
	MaxLoanPurposeLen      = 50
	MaxRejectionReasonLen  = 500
)

// Table: loan_applications
type Application struct {
	ID     uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	UserID uint64 `gorm:"column:user_id;not null;index:idx_applications_user"`

	Age                 int             `gorm:"column:age;not null"`
	AnnualIncome        decimal.Decimal `gorm:"column:annual_income;type:decimal(14,2);not null"`
	CreditScore         int             `gorm:"column:credit_score;not null"`
	LoanAmountRequested decimal.Decimal `gorm:"column:loan_amount_requested;type:decimal(14,2);not null"`
	LoanDurationMonths  int             `gorm:"column:loan_duration_months;not null"`
	EmploymentStatus    string          `gorm:"column:employment_status;size:30"`
	EducationLevel      string          `gorm:"column:education_level;size:30"`
	MaritalStatus       string          `gorm:"column:marital_status;size:20"`
	LoanPurpose         string          `gorm:"column:loan_purpose;size:50"`

	// Scored feature payload as sent to the model.
	Features datatypes.JSON `gorm:"column:features"`

	// Model outputs, set before the first insert.
	EligibilityApproved *bool               `gorm:"column:eligibility_approved"`
	EligibilityReason   string              `gorm:"column:eligibility_reason;type:text"`
	RiskScore           *float64            `gorm:"column:risk_score"`
	RecommendedAmount   decimal.NullDecimal `gorm:"column:recommended_amount;type:decimal(14,2)"`

	Status          Status     `gorm:"column:status;size:16;not null;default:'pending';index:idx_applications_status"`
	ReviewedByID    *uint64    `gorm:"column:reviewed_by_id"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at"`
	RejectionReason string     `gorm:"column:rejection_reason;size:500"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	User *user.User `gorm:"foreignKey:UserID"`
}

func (Application) TableName() string { return "loan_applications" }
