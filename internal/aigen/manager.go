package aigen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"blogforge-backend/internal/config"
	"blogforge-backend/pkg/cache"
	"blogforge-backend/pkg/logger"
)

// Manager routes completion requests through the configured providers in
// order, serving repeated prompts from the response cache. Content generation
// itself always comes from the template generator; providers only refine
// titles and excerpts when available.
type Manager struct {
	providers []Provider
	generator *Generator
	cache     *cache.Cache
}

func NewManager(cfg *config.Config, c *cache.Cache) *Manager {
	m := &Manager{
		generator: NewGenerator(),
		cache:     c,
	}

	if cfg.OpenAIAPIKey != "" {
		m.providers = append(m.providers, WithRetry(NewOpenAIProvider(cfg.OpenAIAPIKey), cfg.AIMaxRetries))
	}
	if cfg.AnthropicAPIKey != "" {
		m.providers = append(m.providers, WithRetry(NewAnthropicProvider(cfg.AnthropicAPIKey), cfg.AIMaxRetries))
	}
	if cfg.GoogleAPIKey != "" {
		m.providers = append(m.providers, WithRetry(NewGoogleProvider(cfg.GoogleAPIKey), cfg.AIMaxRetries))
	}

	return m
}

func (m *Manager) Generator() *Generator { return m.generator }

// HasProviders reports whether at least one LLM provider is configured.
func (m *Manager) HasProviders() bool { return len(m.providers) > 0 }

// ProviderNames lists configured providers in fallback order.
func (m *Manager) ProviderNames() []string {
	names := make([]string, 0, len(m.providers))
	for _, p := range m.providers {
		names = append(names, p.Name())
	}
	return names
}

// GeneratePost produces a complete post from the template banks.
func (m *Manager) GeneratePost(category, topic string) (*GeneratedPost, error) {
	return m.generator.Generate(category, topic)
}

// Complete sends the prompt to the first provider that answers, consulting
// the cache first. Responses are cached by prompt hash for a day.
func (m *Manager) Complete(ctx context.Context, prompt string) (string, error) {
	if len(m.providers) == 0 {
		return "", fmt.Errorf("no AI providers configured")
	}

	hash := promptHash(prompt)
	if m.cache != nil && m.cache.Enabled() {
		var cached string
		if err := m.cache.GetCachedAIResponse(hash, &cached); err == nil && cached != "" {
			return cached, nil
		}
	}

	var lastErr error
	for _, p := range m.providers {
		text, err := p.Complete(ctx, prompt)
		if err != nil {
			logger.Warn("AI provider failed, trying next", map[string]interface{}{
				"provider": p.Name(),
				"error":    err.Error(),
			})
			lastErr = err
			continue
		}

		if m.cache != nil {
			m.cache.CacheAIResponse(hash, text)
		}
		return text, nil
	}

	return "", fmt.Errorf("all AI providers failed: %w", lastErr)
}

// TestProviders checks each configured provider with a short prompt and
// returns per-provider results. Used by the CLI test command.
func (m *Manager) TestProviders(ctx context.Context) map[string]error {
	results := make(map[string]error, len(m.providers))
	for _, p := range m.providers {
		_, err := p.Complete(ctx, "Ответь одним словом: работает?")
		results[p.Name()] = err
	}
	return results
}

func promptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
