package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"alfredoptarigan/skillsync/internal/config"
)

// LLMClient is a text completion backend.
type LLMClient interface {
	Name() string
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
}

// Embedder turns text into a dense vector for the job index.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// NewLLMClient builds the completion backend selected by AI_PROVIDER.
func NewLLMClient(cfg config.AIConfig) (LLMClient, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiClient(cfg.GeminiAPIKey, cfg.Model)
	case "openai":
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.Model)
	case "claude", "anthropic":
		return NewClaudeClient(cfg.AnthropicAPIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}

// GenerateTextWithRetry calls client up to maxAttempts times and returns the
// first successful completion.
func GenerateTextWithRetry(ctx context.Context, client LLMClient, prompt string, temperature float32, maxAttempts int) (string, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := client.GenerateText(ctx, prompt, temperature)
		if err == nil {
			return result, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < maxAttempts {
			log.Warnf("⚠️ %s attempt %d failed: %v. Retrying...", client.Name(), attempt, err)
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}

type disabledLLM struct {
	reason string
}

// NewDisabledLLM returns a client whose every call fails. It keeps the API
// serving when no AI credential is configured.
func NewDisabledLLM(reason string) LLMClient {
	return &disabledLLM{reason: reason}
}

func (d *disabledLLM) Name() string {
	return "disabled"
}

func (d *disabledLLM) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	return "", fmt.Errorf("llm disabled: %s", d.reason)
}
