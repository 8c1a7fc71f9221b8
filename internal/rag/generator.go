package rag

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/bharatvarsh/bhoomi/internal/log"
)

// StreamCallback receives each generated text fragment as it arrives.
// Return an error to abort the stream; the abort surfaces from Generate.
type StreamCallback func(ctx context.Context, text string) error

// GenkitGenerator produces answers through a Genkit-registered model.
type GenkitGenerator struct {
	g      *genkit.Genkit
	model  string
	logger log.Logger
}

// NewGenkitGenerator creates a generator bound to the named model, e.g.
// "googleai/gemini-2.5-flash".
func NewGenkitGenerator(g *genkit.Genkit, model string, logger log.Logger) (*GenkitGenerator, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &GenkitGenerator{g: g, model: model, logger: logger}, nil
}

// Generate runs the model over the composed prompt. Fragments stream
// through cb when it is non-nil; the complete text is returned either way.
func (gen *GenkitGenerator) Generate(ctx context.Context, prompt ComposedPrompt, cb StreamCallback) (string, error) {
	opts := []ai.GenerateOption{
		ai.WithModelName(gen.model),
		ai.WithSystem(prompt.SystemText()),
		ai.WithPrompt(prompt.Text()),
	}
	if cb != nil {
		opts = append(opts, ai.WithStreaming(func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
			return cb(ctx, chunk.Text())
		}))
	}

	resp, err := genkit.Generate(ctx, gen.g, opts...)
	if err != nil {
		return "", fmt.Errorf("model %s: %w", gen.model, err)
	}

	text := resp.Text()
	gen.logger.Debug("generation complete", "model", gen.model, "response_length", len(text))
	return text, nil
}
