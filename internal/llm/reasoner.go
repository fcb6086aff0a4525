// Package llm enriches suggestion reasoning through a language model. The
// model is optional; everything the loop decides works without it.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/sevigo/evo-warden/internal/config"
	"github.com/sevigo/evo-warden/internal/core"
)

// NewGeneratorLLM constructs the configured model backend.
func NewGeneratorLLM(ctx context.Context, cfg *config.LLMConfig, logger *slog.Logger) (llms.Model, error) {
	switch cfg.Provider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set in environment for gemini provider")
		}
		return gemini.New(ctx,
			gemini.WithModel(cfg.GeneratorModelName),
			gemini.WithAPIKey(cfg.GeminiAPIKey),
		)
	case "ollama":
		return ollama.New(
			ollama.WithServerURL(cfg.OllamaHost),
			ollama.WithModel(cfg.GeneratorModelName),
			ollama.WithHTTPClient(newOllamaHTTPClient()),
			ollama.WithLogger(logger),
		)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

func newOllamaHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   5 * time.Minute,
	}
}

// Reasoner rewrites a suggestion's heuristic reasoning into reviewer-facing
// prose grounded in the findings.
type Reasoner struct {
	model  llms.Model
	logger *slog.Logger
}

// NewReasoner creates a Reasoner over the given model.
func NewReasoner(model llms.Model, logger *slog.Logger) *Reasoner {
	return &Reasoner{model: model, logger: logger}
}

const reasoningPrompt = `You are reviewing an automated refactoring suggestion.
Explain in two or three sentences why this change is worth making, grounded
only in the findings below. Do not invent findings. Plain prose, no markdown.

Suggestion: %s (%s, priority %s)
%s

Findings:
%s`

// EnrichReasoning asks the model for richer reasoning text. The caller keeps
// the heuristic text on any failure.
func (r *Reasoner) EnrichReasoning(ctx context.Context, s *core.Suggestion, findings []core.Finding) (string, error) {
	var b strings.Builder
	for _, f := range findings {
		fmt.Fprintf(&b, "- %s:%d [%s/%s] %s\n", f.File, f.Line, f.Type, f.Impact, f.Description)
	}
	prompt := fmt.Sprintf(reasoningPrompt, s.Title, s.Type, s.Priority, s.Description, b.String())

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	response, err := llms.GenerateFromSinglePrompt(ctx, r.model, prompt)
	if err != nil {
		return "", fmt.Errorf("reasoning generation failed: %w", err)
	}
	return strings.TrimSpace(response), nil
}
