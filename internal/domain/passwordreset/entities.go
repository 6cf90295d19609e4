package passwordreset

import (
	"errors"
	"time"
)

// TTL is how long an issued reset token stays valid.
const TTL = time.Hour

var ErrInvalidToken = errors.New("invalid or expired reset token")

// Table: password_reset_tokens. The unique user index keeps at most one
// live token per user; issuing a new one replaces the old row.
type Token struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:ux_reset_tokens_user"`
	Token     string    `gorm:"column:token;size:64;not null;uniqueIndex:ux_reset_tokens_token"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
}

func (Token) TableName() string { return "password_reset_tokens" }

func NewToken(userID uint64, token string, now time.Time) *Token {
	now = now.UTC()
	return &Token{UserID: userID, Token: token, CreatedAt: now, ExpiresAt: now.Add(TTL)}
}

func (t *Token) Valid(now time.Time) bool { return t.ExpiresAt.After(now) }
