package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/genai"
)

// DefaultVectorDimension matches the vector(768) column in the lore_chunks
// migration. gemini-embedding-001 emits 3072 dimensions by default and
// supports truncation via OutputDimensionality.
const DefaultVectorDimension int32 = 768

// Embedder turns text into fixed-length vectors through a model-provided
// ai.Embedder. The vector length is pinned per deployment so every stored
// chunk and every query share one similarity space.
type Embedder struct {
	embedder ai.Embedder
	dim      int32
}

// NewEmbedder wraps the given ai.Embedder at the given dimensionality.
func NewEmbedder(embedder ai.Embedder, dim int32) (*Embedder, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive, got %d", dim)
	}
	return &Embedder{embedder: embedder, dim: dim}, nil
}

// Embed generates the embedding vector for text. An embedding-service
// failure or an empty response is returned as an error; callers never
// receive a substitute zero vector.
func (e *Embedder) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	if strings.TrimSpace(text) == "" {
		return pgvector.Vector{}, fmt.Errorf("text is required")
	}

	dim := e.dim
	resp, err := e.embedder.Embed(ctx, &ai.EmbedRequest{
		Input:   []*ai.Document{ai.DocumentFromText(text, nil)},
		Options: &genai.EmbedContentConfig{OutputDimensionality: &dim},
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("embedding text: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return pgvector.Vector{}, fmt.Errorf("empty embedding response")
	}

	return pgvector.NewVector(resp.Embeddings[0].Embedding), nil
}
