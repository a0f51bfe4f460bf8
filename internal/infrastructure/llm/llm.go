package llm

import (
	"context"
	"fmt"

	"BlogScout/internal/config"
	"BlogScout/internal/ports"
)

// Client is a completer that owns resources.
type Client interface {
	ports.Completer
	Close() error
}

// New selects the provider named in cfg.
func New(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		return NewOpenAICompleter(cfg, nil), nil
	case config.ProviderGemini:
		return NewGeminiCompleter(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
