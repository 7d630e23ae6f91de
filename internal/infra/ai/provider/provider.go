// Package provider builds the AI collaborator named in the configuration.
package provider

import (
	"context"
	"encoding/json"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bryanwahyu/aiact-classifier/internal/config"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/ai"
	"github.com/bryanwahyu/aiact-classifier/internal/infra/ai/gemini"
	"github.com/bryanwahyu/aiact-classifier/internal/infra/ai/openai"
)

// New returns the configured client. Without an API key it returns a
// Disabled client so every call short-circuits without network I/O.
func New(ctx context.Context, cfg config.AIConfig, log *zap.Logger) (ai.Client, error) {
	if cfg.APIKey == "" {
		log.Warn("ai api key not configured, assessments will be skipped", zap.String("provider", cfg.Provider))
		return Disabled{Name: cfg.Provider}, nil
	}
	switch cfg.Provider {
	case config.ProviderOpenAI:
		oc := goopenai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		return openai.NewClientWithConfig(oc, cfg.Model, log.Named("openai")), nil
	case config.ProviderGemini:
		return gemini.NewClient(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL, log.Named("gemini"))
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// Disabled answers every call with ai.ErrNotConfigured.
type Disabled struct {
	Name string
}

func (d Disabled) Provider() string { return d.Name }

func (Disabled) Assess(context.Context, string) (json.RawMessage, error) {
	return nil, ai.ErrNotConfigured
}

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", ai.ErrNotConfigured
}

// Configured reports whether c reaches a real backend.
func Configured(c ai.Client) bool {
	_, off := c.(Disabled)
	return !off
}
