// Package chatbot talks to the text-generation model behind the help chat.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var ErrUnavailable = errors.New("chatbot model not available")

type Bot interface {
	Reply(ctx context.Context, message string) (string, error)
}

type Config struct {
	// BaseURL of an OpenAI-compatible endpoint serving the chat model.
	// Empty means no model is deployed.
	BaseURL string
	APIKey  string
	Model   string
}

const systemPrompt = "You are the AgriFinConnect Rwanda assistant. You help smallholder farmers " +
	"understand agricultural loans, eligibility and repayments. Answer briefly and in the language of the question.\n\n"

// New returns an LLM-backed bot, or Unavailable when no endpoint is configured.
func New(cfg Config) (Bot, error) {
	if cfg.BaseURL == "" {
		return Unavailable{}, nil
	}
	token := cfg.APIKey
	if token == "" {
		// openai.New insists on a token; self-hosted endpoints ignore it
		token = "unused"
	}
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithToken(token),
	)
	if err != nil {
		return nil, fmt.Errorf("create chat model client: %w", err)
	}
	return &LLMBot{llm: llm}, nil
}

type LLMBot struct{ llm llms.Model }

func (b *LLMBot) Reply(ctx context.Context, message string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, b.llm, systemPrompt+message,
		llms.WithMaxTokens(256),
		llms.WithTemperature(0.3),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%w: empty reply", ErrUnavailable)
	}
	return out, nil
}

// Unavailable is the bot used when no model is deployed.
type Unavailable struct{}

func (Unavailable) Reply(context.Context, string) (string, error) { return "", ErrUnavailable }
