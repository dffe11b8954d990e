package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/hireflow/hireflow/internal/llm/anthropic"
	"github.com/hireflow/hireflow/internal/llm/gemini"
	"github.com/hireflow/hireflow/internal/llm/openai"
)

// Supported provider names.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMistral   = "mistral"
)

const mistralBaseURL = "https://api.mistral.ai/v1"

// Completer is the single capability the rest of the system depends on:
// send a prompt, get the textual reply back. Callers never see which
// provider answers.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Config carries the resolved provider settings. APIKey must already be
// loaded from its secret source.
type Config struct {
	Provider string
	APIKey   string
	Model    string
}

// New builds a Completer for the configured provider.
func New(ctx context.Context, cfg Config) (Completer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", ProviderGemini:
		return gemini.NewClient(ctx, cfg.APIKey, cfg.Model)
	case ProviderOpenAI:
		return openai.NewClient(cfg.APIKey, cfg.Model, "")
	case ProviderMistral:
		return openai.NewClient(cfg.APIKey, cfg.Model, mistralBaseURL)
	case ProviderAnthropic:
		return anthropic.NewClient(cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
