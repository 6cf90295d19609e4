// Package mailer delivers transactional email. Delivery is handed to a
// queue consumed by the mail worker; this service never talks SMTP.
package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"agrifin-backend/internal/logging"
)

type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// SQSAPI is the subset of *sqs.Client used here.
type SQSAPI interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSMailer enqueues each message as one JSON document on the mail queue.
type SQSMailer struct {
	client   SQSAPI
	queueURL string
}

func NewSQSMailer(client SQSAPI, queueURL string) *SQSMailer {
	return &SQSMailer{client: client, queueURL: queueURL}
}

// NewSQSMailerFromEnv resolves AWS credentials the default way and looks
// up the queue URL by name.
func NewSQSMailerFromEnv(ctx context.Context, queueName string) (*SQSMailer, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := sqs.New(sqs.Options{
		Region:       cfg.Region,
		Credentials:  cfg.Credentials,
		HTTPClient:   cfg.HTTPClient,
		BaseEndpoint: cfg.BaseEndpoint,
	})
	resp, err := client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(queueName)})
	if err != nil {
		return nil, fmt.Errorf("get queue url %s: %w", queueName, err)
	}
	return NewSQSMailer(client, aws.ToString(resp.QueueUrl)), nil
}

func (m *SQSMailer) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(struct {
		Message
		QueuedAt time.Time `json:"queued_at"`
	}{msg, time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal mail: %w", err)
	}
	_, err = m.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(m.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	return nil
}

// LogMailer writes mail to the log instead of sending it (local dev).
type LogMailer struct{ log *zap.Logger }

func NewLogMailer(l *zap.Logger) *LogMailer { return &LogMailer{log: l} }

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	logging.FromContext(ctx, m.log).Info("mail (not sent)",
		zap.String("to", logging.MaskEmail(msg.To)),
		zap.String("subject", msg.Subject),
		zap.Int("body_len", len(msg.Body)),
	)
	return nil
}
