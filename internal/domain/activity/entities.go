package activity

import (
	"errors"
	"time"
)

var ErrInvalidEventType = errors.New("invalid event_type")

type EventType string

const (
	EventModalOpened     EventType = "modal_opened"
	EventRegisterClicked EventType = "register_clicked"
	EventLoginClicked    EventType = "login_clicked"
)

// ParseEventType defaults an empty value to modal_opened.
func ParseEventType(s string) (EventType, error) {
	if s == "" {
		return EventModalOpened, nil
	}
	switch e := EventType(s); e {
	case EventModalOpened, EventRegisterClicked, EventLoginClicked:
		return e, nil
	}
	return "", ErrInvalidEventType
}

const (
	MaxUserAgentLen = 500
	MaxRoleLen      = 32
)

// Table: get_started_events. Write-once analytics rows.
type GetStartedEvent struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	EventType EventType `gorm:"column:event_type;size:32;not null;index"`
	Role      string    `gorm:"column:role;size:32"`
	IPAddress *string   `gorm:"column:ip_address;size:45"`
	UserAgent string    `gorm:"column:user_agent;size:500"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

func (GetStartedEvent) TableName() string { return "get_started_events" }
