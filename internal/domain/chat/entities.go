package chat

import (
	"context"
	"time"
)

// Table: chat_interactions. Append-only audit of message/reply pairs.
type Interaction struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"column:user_id;not null;index"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Reply     string    `gorm:"column:reply;type:text;not null"`
	Language  string    `gorm:"column:language;size:8"`
	Fallback  bool      `gorm:"column:fallback;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Interaction) TableName() string { return "chat_interactions" }

type Repository interface {
	Create(ctx context.Context, i *Interaction) error
}
