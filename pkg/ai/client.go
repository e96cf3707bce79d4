package ai

import (
	"context"
	"fmt"
	"time"

	"cvchef-backend/internal/domain"
)

// Providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config selects and configures the completion provider.
type Config struct {
	Provider      string
	OpenAIKey     string
	OpenAIBaseURL string
	ChatModel     string
	ATSModel      string
	GeminiKey     string
	GeminiModel   string
	Timeout       time.Duration
}

// Error carries a message meant to be shown to the user as is.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds the configured completion service.
func New(ctx context.Context, cfg Config) (domain.CompletionService, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	switch cfg.Provider {
	case ProviderOpenAI, "":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("ai: OPENAI_API_KEY not configured")
		}
		return NewOpenAI(cfg), nil
	case ProviderGemini:
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("ai: GEMINI_API_KEY not configured")
		}
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("ai: unknown provider %q", cfg.Provider)
	}
}
