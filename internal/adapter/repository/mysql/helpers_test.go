package mysql

import (
	"context"
	"testing"
	"time"

	appDomain "agrifin-backend/internal/domain/application"
	userDomain "agrifin-backend/internal/domain/user"
	"agrifin-backend/internal/testutil/sqlitedb"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB { return sqlitedb.Open(t) }

func seedUser(t *testing.T, db *gorm.DB, email string, role userDomain.Role) *userDomain.User {
	t.Helper()
	u := &userDomain.User{Email: email, PasswordHash: "x", FirstName: "Test"}
	if role != "" {
		u.Profile = &userDomain.Profile{Role: role}
	}
	if err := NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func makeApplication(userID uint64, status appDomain.Status, createdAt time.Time) *appDomain.Application {
	approved := true
	risk := 31.5
	return &appDomain.Application{
		UserID:              userID,
		Age:                 35,
		AnnualIncome:        decimal.NewFromInt(60000),
		CreditScore:         700,
		LoanAmountRequested: decimal.NewFromInt(20000),
		LoanDurationMonths:  12,
		EmploymentStatus:    "Employed",
		EducationLevel:      "High School",
		MaritalStatus:       "Married",
		LoanPurpose:         "Other",
		EligibilityApproved: &approved,
		EligibilityReason:   "Approved: ok",
		RiskScore:           &risk,
		RecommendedAmount:   decimal.NewNullDecimal(decimal.NewFromInt(18000)),
		Status:              status,
		CreatedAt:           createdAt,
	}
}

func seedApplication(t *testing.T, db *gorm.DB, userID uint64, status appDomain.Status, createdAt time.Time) *appDomain.Application {
	t.Helper()
	a := makeApplication(userID, status, createdAt)
	if err := NewApplicationRepository(db).Create(context.Background(), a); err != nil {
		t.Fatalf("seed application: %v", err)
	}
	return a
}
