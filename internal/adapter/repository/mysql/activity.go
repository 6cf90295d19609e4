package mysql

import (
	"context"

	activityDomain "agrifin-backend/internal/domain/activity"
	chatDomain "agrifin-backend/internal/domain/chat"

	"gorm.io/gorm"
)

type ActivityRepository struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) *ActivityRepository { return &ActivityRepository{db: db} }

func (r *ActivityRepository) Create(ctx context.Context, e *activityDomain.GetStartedEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]activityDomain.GetStartedEvent, error) {
	var out []activityDomain.GetStartedEvent
	res := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&out)
	return out, res.Error
}

type ChatRepository struct{ db *gorm.DB }

func NewChatRepository(db *gorm.DB) *ChatRepository { return &ChatRepository{db: db} }

func (r *ChatRepository) Create(ctx context.Context, i *chatDomain.Interaction) error {
	return r.db.WithContext(ctx).Create(i).Error
}
