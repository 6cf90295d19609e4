package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrifin-backend/internal/chatbot"
	domain "agrifin-backend/internal/domain/chat"
	"agrifin-backend/internal/logging"
	"agrifin-backend/internal/metrics"
)

type botFunc func(ctx context.Context, message string) (string, error)

func (f botFunc) Reply(ctx context.Context, m string) (string, error) { return f(ctx, m) }

type memRepo struct {
	rows []domain.Interaction
	err  error
}

func (r *memRepo) Create(_ context.Context, i *domain.Interaction) error {
	if r.err != nil {
		return r.err
	}
	r.rows = append(r.rows, *i)
	return nil
}

func TestReply_EmptyMessage(t *testing.T) {
	repo := &memRepo{}
	out := NewUsecase(botFunc(func(context.Context, string) (string, error) {
		t.Fatal("bot must not be called")
		return "", nil
	}), repo, nil).Reply(context.Background(), 1, Input{Message: "   "})

	assert.Equal(t, EmptyMessageReply, out.Reply)
	assert.Empty(t, repo.rows)
}

func TestReply_FallbackByLanguage(t *testing.T) {
	uc := NewUsecase(chatbot.Unavailable{}, nil, nil)
	tests := []struct{ lang, want string }{
		{"en", Fallback["en"]},
		{"FR", Fallback["fr"]},
		{"rw", Fallback["rw"]},
		{"sw", Fallback["en"]},
		{"", Fallback["en"]},
	}
	for _, tc := range tests {
		out := uc.Reply(context.Background(), 0, Input{Message: "hello", Language: tc.lang})
		assert.True(t, out.Fallback, tc.lang)
		assert.Equal(t, tc.want, out.Reply, tc.lang)
		assert.Equal(t, out.Reply, out.Response)
	}
}

func TestReply_ModelAnswerIsRecorded(t *testing.T) {
	repo := &memRepo{}
	uc := NewUsecase(botFunc(func(_ context.Context, m string) (string, error) {
		return "Muraho! " + m, nil
	}), repo, nil)

	out := uc.Reply(context.Background(), 42, Input{Message: "loan?", Language: "rw"})
	assert.False(t, out.Fallback)
	assert.Equal(t, "Muraho! loan?", out.Reply)
	require.Len(t, repo.rows, 1)
	assert.EqualValues(t, 42, repo.rows[0].UserID)
	assert.Equal(t, "rw", repo.rows[0].Language)
}

func TestReply_RecordFailureIsLoggedOnly(t *testing.T) {
	log, logs := logging.NewTest()
	repo := &memRepo{err: errors.New("db down")}
	uc := NewUsecase(chatbot.Unavailable{}, repo, log)

	out := uc.Reply(context.Background(), 7, Input{Message: "hi"})
	assert.Equal(t, Fallback["en"], out.Reply)
	assert.Equal(t, 1, logs.FilterMessage("chat interaction not recorded").Len())
}

func TestLanguageLabel(t *testing.T) {
	for in, want := range map[string]string{"": "en", " FR ": "fr", "rw": "rw", "en": "en", "xx1": "other", "sw": "other"} {
		assert.Equal(t, want, LanguageLabel(in), in)
	}
}

func TestReply_UnknownLanguagesShareOneSeries(t *testing.T) {
	uc := NewUsecase(chatbot.Unavailable{}, nil, nil)
	other := metrics.ChatReplies.WithLabelValues("other", "fallback")
	before := testutil.ToFloat64(other)
	series := testutil.CollectAndCount(metrics.ChatReplies)

	for _, lang := range []string{"xx1", "xx2", "xx3"} {
		uc.Reply(context.Background(), 0, Input{Message: "hi", Language: lang})
	}

	assert.Equal(t, before+3, testutil.ToFloat64(other))
	assert.Equal(t, series, testutil.CollectAndCount(metrics.ChatReplies))
}
