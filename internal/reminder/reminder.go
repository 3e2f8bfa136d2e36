// Package reminder produces friendly chore reminders. A Generator phrases the
// reminder text; the Dispatcher runs it in the background and records the
// outcome in the household chat log.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var ErrEmptyResponse = errors.New("empty reminder response")

// Generator phrases a reminder for memberName about choreName.
type Generator interface {
	Generate(ctx context.Context, choreName, memberName string) (string, error)
}

// Fallback is the fixed reminder used whenever no generated text is available.
func Fallback(choreName, memberName string) string {
	return fmt.Sprintf("Just a friendly nudge for %s: please remember to take care of the chore \"%s\". Thanks!", memberName, choreName)
}

// TemplateGenerator always returns the fallback text.
type TemplateGenerator struct{}

func (TemplateGenerator) Generate(_ context.Context, choreName, memberName string) (string, error) {
	return Fallback(choreName, memberName), nil
}

// NewGenerator returns a Gemini-backed generator when an API key is
// configured, and the template generator otherwise.
func NewGenerator(ctx context.Context, cfg GeminiConfig, logger *slog.Logger) Generator {
	if cfg.APIKey == "" {
		logger.Warn("gemini API key not set, reminders will use the default message")
		return TemplateGenerator{}
	}
	g, err := NewGeminiGenerator(ctx, cfg)
	if err != nil {
		logger.Error("create gemini generator, reminders will use the default message", "error", err)
		return TemplateGenerator{}
	}
	return g
}
