package db

import (
	"agrifin-backend/internal/domain/activity"
	"agrifin-backend/internal/domain/application"
	"agrifin-backend/internal/domain/chat"
	"agrifin-backend/internal/domain/farmer"
	"agrifin-backend/internal/domain/loan"
	"agrifin-backend/internal/domain/passwordreset"
	"agrifin-backend/internal/domain/user"

	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{
		&user.User{},
		&user.Profile{},
		&user.AuthToken{},
		&passwordreset.Token{},
		&farmer.Profile{},
		&farmer.AgriculturalRecord{},
		&application.Application{},
		&loan.Loan{},
		&loan.Repayment{},
		&chat.Interaction{},
		&activity.GetStartedEvent{},
	}
}

func Migrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
