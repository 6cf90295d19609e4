package application

import (
	"time"

	"github.com/shopspring/decimal"

	"agrifin-backend/internal/usecase/loan"
)

// SubmitInput carries what the farmer sent; nil/empty fields take defaults.
type SubmitInput struct {
	Age                 *int
	AnnualIncome        *decimal.Decimal
	CreditScore         *int
	LoanAmountRequested *decimal.Decimal
	LoanDurationMonths  *int
	EmploymentStatus    string
	EducationLevel      string
	MaritalStatus       string
	LoanPurpose         string
}

// Defaults for inputs the farmer left out.
const (
	DefaultAge              = 35
	DefaultCreditScore      = 600
	DefaultDurationMonths   = 24
	DefaultEmploymentStatus = "Self-Employed"
	DefaultEducationLevel   = "High School"
	DefaultMaritalStatus    = "Married"
	DefaultLoanPurpose      = "Other"
	DefaultHomeOwnership    = "Own"
)

type ApplicantDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type ApplicationDTO struct {
	ID                  uint64              `json:"id"`
	Age                 int                 `json:"age"`
	AnnualIncome        decimal.Decimal     `json:"annual_income"`
	CreditScore         int                 `json:"credit_score"`
	LoanAmountRequested decimal.Decimal     `json:"loan_amount_requested"`
	LoanDurationMonths  int                 `json:"loan_duration_months"`
	EmploymentStatus    string              `json:"employment_status"`
	EducationLevel      string              `json:"education_level"`
	MaritalStatus       string              `json:"marital_status"`
	LoanPurpose         string              `json:"loan_purpose"`
	EligibilityApproved *bool               `json:"eligibility_approved"`
	EligibilityReason   string              `json:"eligibility_reason"`
	RiskScore           *float64            `json:"risk_score"`
	RecommendedAmount   decimal.NullDecimal `json:"recommended_amount"`
	Status              string              `json:"status"`
	ReviewedAt          *time.Time          `json:"reviewed_at"`
	RejectionReason     string              `json:"rejection_reason"`
	CreatedAt           time.Time           `json:"created_at"`
	Applicant           *ApplicantDTO       `json:"applicant,omitempty"`
}

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ReviewInput: the optional overrides only apply to approvals.
type ReviewInput struct {
	Action          string
	RejectionReason string
	Amount          *decimal.Decimal
	InterestRate    *float64
	DurationMonths  *int
}

// ReviewDTO: RejectionReason is null unless the application was rejected.
type ReviewDTO struct {
	ID              uint64        `json:"id"`
	Status          string        `json:"status"`
	ReviewedAt      time.Time     `json:"reviewed_at"`
	RejectionReason *string       `json:"rejection_reason"`
	Loan            *loan.LoanDTO `json:"loan,omitempty"`
}
