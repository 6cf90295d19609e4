package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/segmentio/kafka-go"
)

const (
	TypeApplicationSubmitted = "application.submitted"
	TypeApplicationReviewed  = "application.reviewed"
	TypeActivityLogged       = "activity.logged"
	TypeRepaymentsOverdue    = "repayments.overdue"
	TypeUserRegistered       = "user.registered"
)

type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

func NewEvent(typ string, payload map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers domain events on a best-effort basis. Callers must not
// fail a request because publishing failed.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// KafkaBatchTimeout bounds how long a Publish call waits for its batch to
// fill before the writer flushes.
const KafkaBatchTimeout = 5 * time.Millisecond

// KafkaPublisher writes every event to one topic keyed by event type.
type KafkaPublisher struct {
	w *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka: topic is required")
	}
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           KafkaBatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{Key: []byte(e.Type), Value: b})
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// NATSPublisher publishes each event on "<prefix>.<type>".
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
}

func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("agrifin-backend"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return NewNATSPublisherWithConn(nc, prefix), nil
}

func NewNATSPublisherWithConn(nc *nats.Conn, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = "agrifin"
	}
	return &NATSPublisher{nc: nc, prefix: prefix}
}

func (p *NATSPublisher) Subject(typ string) string { return p.prefix + "." + typ }

func (p *NATSPublisher) Publish(_ context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.nc.Publish(p.Subject(e.Type), b)
}

func (p *NATSPublisher) Close() error {
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
		return err
	}
	return nil
}

// New picks a publisher from the configured driver: "kafka", "nats" or none.
func New(driver string, kafkaBrokers []string, topic, natsURL string) (Publisher, error) {
	switch driver {
	case "kafka":
		return NewKafkaPublisher(kafkaBrokers, topic)
	case "nats":
		return NewNATSPublisher(natsURL, topic)
	case "", "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unsupported events driver %q", driver)
	}
}
