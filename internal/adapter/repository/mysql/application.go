package mysql

import (
	"context"

	appDomain "agrifin-backend/internal/domain/application"

	"gorm.io/gorm"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *appDomain.Application) error {
	return r.db.WithContext(ctx).Omit("User").Create(a).Error
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID uint64, limit int) ([]appDomain.Application, error) {
	var out []appDomain.Application
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

func (r *ApplicationRepository) ListByStatus(ctx context.Context, status appDomain.Status, limit int) ([]appDomain.Application, error) {
	var out []appDomain.Application
	res := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", status).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context, status appDomain.Status) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&appDomain.Application{}).Where("status = ?", status).Count(&n)
	return n, res.Error
}

func (r *ApplicationRepository) FindPendingByID(ctx context.Context, id uint64) (*appDomain.Application, error) {
	var out appDomain.Application
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, appDomain.StatusPending).
		First(&out)
	return &out, res.Error
}

func (r *ApplicationRepository) CompleteReview(ctx context.Context, a *appDomain.Application) error {
	res := r.db.WithContext(ctx).
		Model(&appDomain.Application{}).
		Where("id = ? AND status = ?", a.ID, appDomain.StatusPending).
		Updates(map[string]any{
			"status":           a.Status,
			"reviewed_by_id":   a.ReviewedByID,
			"reviewed_at":      a.ReviewedAt,
			"rejection_reason": a.RejectionReason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appDomain.ErrNotFound
	}
	return nil
}
