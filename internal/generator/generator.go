// Package generator provides adapters that reach the external content
// generator. The orchestrator only sees diamond.Generator.
package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/doublediamond/internal/config"
	"github.com/rpggio/doublediamond/internal/domain/diamond"
)

// ErrEmptyResponse indicates the generator answered without content.
var ErrEmptyResponse = errors.New("generator returned no content")

// New builds the generator named by cfg.Provider.
func New(cfg config.GeneratorConfig, logger *slog.Logger) (diamond.Generator, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	switch cfg.Provider {
	case "", "stub":
		return NewStub(cfg.CostPerCall), nil
	case "http":
		return NewHTTPClient(HTTPConfig{
			BaseURL:   cfg.BaseURL,
			APIKey:    cfg.APIKey,
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RateLimit,
			Burst:     cfg.Burst,
		}, logger)
	case "openai":
		return NewOpenAI(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
	}
}

// decodePayload unmarshals raw JSON into the concrete payload type of phase.
func decodePayload(phase diamond.Phase, raw []byte) (diamond.Payload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrEmptyResponse
	}
	payload, err := diamond.NewPayload(phase)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", phase, err)
	}
	return payload, nil
}

// extractJSON returns the outermost JSON object in a model completion,
// tolerating markdown fences and surrounding prose.
func extractJSON(content string) (string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON object in completion", ErrEmptyResponse)
	}
	return content[start : end+1], nil
}
