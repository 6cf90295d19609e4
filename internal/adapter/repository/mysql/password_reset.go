package mysql

import (
	"context"
	"errors"
	"time"

	resetDomain "agrifin-backend/internal/domain/passwordreset"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PasswordResetRepository struct{ db *gorm.DB }

func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Replace upserts on the unique user index, so two concurrent requests for
// the same user leave exactly one token behind (the last writer's).
func (r *PasswordResetRepository) Replace(ctx context.Context, t *resetDomain.Token) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "created_at", "expires_at"}),
		}).
		Create(t).Error
}

func (r *PasswordResetRepository) Consume(ctx context.Context, token string, now time.Time) (*resetDomain.Token, error) {
	db := r.db.WithContext(ctx)
	var out resetDomain.Token
	err := db.Where("token = ? AND expires_at > ?", token, now.UTC()).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, resetDomain.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	// the delete is the single-use guard: only one consumer removes the row
	res := db.Where("id = ? AND token = ?", out.ID, out.Token).Delete(&resetDomain.Token{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, resetDomain.ErrInvalidToken
	}
	return &out, nil
}
