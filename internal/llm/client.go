// Package llm wraps the text-completion provider behind a template-based
// client with typed errors and a bounded output length.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"git.home.luguber.info/inful/reposcribe/internal/logfields"
)

// ErrUnknownTemplate is returned when a caller names a template that does not exist.
var ErrUnknownTemplate = errors.New("unknown prompt template")

// ErrMissingAPIKey is returned when the provider credential is absent.
var ErrMissingAPIKey = errors.New("generation API key is not configured")

// GenerationError wraps a failed generation call. Callers drop the affected
// unit and continue; no retries happen at this layer.
type GenerationError struct {
	Template Template
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for template %s: %v", e.Template, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Client issues single text-completion calls from named templates.
type Client interface {
	Invoke(ctx context.Context, tmpl Template, vars map[string]string) (string, error)
}

// GoogleAIClient is the production Client backed by the Gemini API.
type GoogleAIClient struct {
	model     llms.Model
	maxTokens int
}

// NewGoogleAI constructs a GoogleAIClient. The max output token cap bounds
// cost and latency per call; callers must not assume unbounded output.
func NewGoogleAI(ctx context.Context, apiKey, modelName string, maxTokens int) (*GoogleAIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	model, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize googleai client: %w", err)
	}
	return &GoogleAIClient{model: model, maxTokens: maxTokens}, nil
}

// Invoke renders the named template with vars and performs one completion
// call. A single failed call fails that unit only; retry policy, if any,
// belongs to the caller.
func (c *GoogleAIClient) Invoke(ctx context.Context, tmpl Template, vars map[string]string) (string, error) {
	prompt, err := RenderTemplate(tmpl, vars)
	if err != nil {
		return "", err
	}

	start := time.Now()
	out, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, llms.WithMaxTokens(c.maxTokens))
	if err != nil {
		return "", &GenerationError{Template: tmpl, Err: err}
	}

	slog.Debug("Generation call completed",
		logfields.Template(string(tmpl)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return out, nil
}
