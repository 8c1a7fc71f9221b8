package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"

	"github.com/bharatvarsh/bhoomi/internal/archive"
	"github.com/bharatvarsh/bhoomi/internal/log"
)

// DefaultTopK is how many chunks a query retrieves when the caller does
// not say otherwise.
const DefaultTopK = 3

// Embedder turns a query into a vector. *archive.Embedder satisfies it.
type Embedder interface {
	Embed(ctx context.Context, text string) (pgvector.Vector, error)
}

// Retriever finds the chunks nearest a query vector. *archive.Store
// satisfies it.
type Retriever interface {
	RetrieveTopK(ctx context.Context, vec pgvector.Vector, k int, opts ...archive.SearchOption) ([]archive.Result, error)
}

// Generator produces the final answer from a composed prompt.
// *GenkitGenerator satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt ComposedPrompt, cb StreamCallback) (string, error)
}

// Config wires a Pipeline.
type Config struct {
	Embedder  Embedder
	Retriever Retriever
	Generator Generator
	Persona   string
	// TopK and MaxContextChars fall back to DefaultTopK and
	// DefaultMaxContextChars when zero.
	TopK            int
	MaxContextChars int
	Logger          log.Logger
}

// Pipeline runs the embed-retrieve-compose-generate sequence.
type Pipeline struct {
	embedder        Embedder
	retriever       Retriever
	generator       Generator
	persona         string
	topK            int
	maxContextChars int
	logger          log.Logger
}

// NewPipeline validates cfg and builds a Pipeline.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if cfg.Retriever == nil {
		return nil, fmt.Errorf("retriever is required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if cfg.Persona == "" {
		return nil, fmt.Errorf("persona is required")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = DefaultMaxContextChars
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}
	return &Pipeline{
		embedder:        cfg.Embedder,
		retriever:       cfg.Retriever,
		generator:       cfg.Generator,
		persona:         cfg.Persona,
		topK:            cfg.TopK,
		maxContextChars: cfg.MaxContextChars,
		logger:          cfg.Logger,
	}, nil
}

// QueryOptions adjust a single query.
type QueryOptions struct {
	// SpoilerTier caps retrieval at the given tier ("S1", "S2", "S3").
	// Empty means no cap.
	SpoilerTier string
	// TopK overrides the pipeline default when positive.
	TopK int
}

// Answer is a completed pipeline run.
type Answer struct {
	Text   string
	Chunks []archive.Result
}

// Answer runs the full pipeline for query. Text streams through cb as it
// is generated when cb is non-nil.
//
// An embedding or retrieval failure stops the run before the model is
// called. Retrieving zero chunks is not a failure; generation proceeds
// with an empty context block.
func (p *Pipeline) Answer(ctx context.Context, query string, opts QueryOptions, cb StreamCallback) (*Answer, error) {
	prompt, chunks, err := p.compose(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	text, err := p.generator.Generate(ctx, prompt, cb)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerateFailed, err)
	}

	p.logger.Debug("answered query",
		"query_length", len(query),
		"chunks", len(chunks),
		"answer_length", len(text))

	return &Answer{Text: text, Chunks: chunks}, nil
}

// Context runs only the retrieval half of the pipeline and returns the
// composed context block. Forum services call this to augment their own
// prompts without going through generation.
func (p *Pipeline) Context(ctx context.Context, query string, opts QueryOptions) (string, error) {
	prompt, _, err := p.compose(ctx, query, opts)
	if err != nil {
		return "", err
	}
	return prompt.ContextBlock, nil
}

func (p *Pipeline) compose(ctx context.Context, query string, opts QueryOptions) (ComposedPrompt, []archive.Result, error) {
	if strings.TrimSpace(query) == "" {
		return ComposedPrompt{}, nil, ErrEmptyQuery
	}

	vec, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return ComposedPrompt{}, nil, fmt.Errorf("%w: %w", ErrEmbedFailed, err)
	}

	topK := p.topK
	if opts.TopK > 0 {
		topK = opts.TopK
	}

	var searchOpts []archive.SearchOption
	if opts.SpoilerTier != "" {
		searchOpts = append(searchOpts, archive.WithMaxSpoilerTier(opts.SpoilerTier))
	}

	chunks, err := p.retriever.RetrieveTopK(ctx, vec, topK, searchOpts...)
	if err != nil {
		return ComposedPrompt{}, nil, fmt.Errorf("%w: %w", ErrRetrieveFailed, err)
	}

	return Compose(p.persona, query, chunks, p.maxContextChars), chunks, nil
}
