package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrifin-backend/internal/logging"
)

type fakeSQS struct {
	in  *sqs.SendMessageInput
	err error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func TestSQSMailer_Send(t *testing.T) {
	fake := &fakeSQS{}
	m := NewSQSMailer(fake, "https://sqs.local/000/mail")

	err := m.Send(context.Background(), Message{From: "no-reply@x.rw", To: "a@b.rw", Subject: "Hi", Body: "link"})
	require.NoError(t, err)
	assert.Equal(t, "https://sqs.local/000/mail", aws.ToString(fake.in.QueueUrl))

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(fake.in.MessageBody)), &doc))
	assert.Equal(t, "a@b.rw", doc["to"])
	assert.Equal(t, "Hi", doc["subject"])
	assert.NotEmpty(t, doc["queued_at"])
}

func TestSQSMailer_SendError(t *testing.T) {
	m := NewSQSMailer(&fakeSQS{err: errors.New("throttled")}, "q")
	err := m.Send(context.Background(), Message{To: "a@b.rw"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestLogMailer_MasksRecipient(t *testing.T) {
	l, logs := logging.NewTest()
	require.NoError(t, NewLogMailer(l).Send(context.Background(), Message{To: "alice@example.rw", Subject: "Reset"}))

	entries := logs.FilterMessage("mail (not sent)").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "a***@example.rw", entries[0].ContextMap()["to"])
}
