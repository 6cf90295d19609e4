package activity

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"agrifin-backend/internal/domain/activity"
	"agrifin-backend/internal/events"
	"agrifin-backend/internal/logging"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

type LogInput struct {
	EventType string
	Role      string
	IP        string
	UserAgent string
}

type EventDTO struct {
	ID        uint64    `json:"id"`
	EventType string    `json:"event_type"`
	Role      string    `json:"role"`
	IPAddress *string   `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

type Usecase struct {
	repo activity.Repository
	pub  events.Publisher
	log  *zap.Logger
}

func NewUsecase(r activity.Repository, pub events.Publisher, log *zap.Logger) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: r, pub: pub, log: log}
}

// Log stores one "get started" analytics event. An unknown event type is
// activity.ErrInvalidEventType; an empty one means modal_opened.
func (u *Usecase) Log(ctx context.Context, in LogInput) error {
	et, err := activity.ParseEventType(strings.TrimSpace(in.EventType))
	if err != nil {
		return err
	}
	e := &activity.GetStartedEvent{
		EventType: et,
		Role:      lo.Substring(strings.TrimSpace(in.Role), 0, activity.MaxRoleLen),
		UserAgent: lo.Substring(in.UserAgent, 0, activity.MaxUserAgentLen),
	}
	if ip := strings.TrimSpace(in.IP); ip != "" {
		e.IPAddress = &ip
	}
	if err := u.repo.Create(ctx, e); err != nil {
		return err
	}

	ev := events.NewEvent(events.TypeActivityLogged, map[string]any{"event_type": string(et), "role": e.Role})
	if err := u.pub.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx, u.log).Warn("publish event failed", zap.String("type", ev.Type), zap.Error(err))
	}
	return nil
}

// List returns the newest events; limit is clamped to [1, MaxListLimit]
// with DefaultListLimit for non-positive values.
func (u *Usecase) List(ctx context.Context, limit int) ([]EventDTO, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)
	es, err := u.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return lo.Map(es, func(e activity.GetStartedEvent, _ int) EventDTO {
		return EventDTO{
			ID:        e.ID,
			EventType: string(e.EventType),
			Role:      e.Role,
			IPAddress: e.IPAddress,
			UserAgent: e.UserAgent,
			CreatedAt: e.CreatedAt,
		}
	}), nil
}
