package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"github.com/bharatvarsh/bhoomi/internal/log"
)

// Querier is the subset of pgx operations the store needs. Both
// *pgxpool.Pool and pgx.Tx satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// retrieveTimeout bounds a single vector search so a slow index scan cannot
// hold the request open indefinitely.
const retrieveTimeout = 10 * time.Second

// Store manages lore chunks in PostgreSQL + pgvector.
//
// Store is safe for concurrent use; all state lives in the database.
type Store struct {
	db       Querier
	embedder *Embedder
	logger   log.Logger
}

// NewStore creates a Store on the given querier and embedder.
func NewStore(db Querier, embedder *Embedder, logger log.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("querier is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Store{db: db, embedder: embedder, logger: logger}, nil
}

// Add embeds chunk content and upserts the chunk. Fixed IDs make seeding
// idempotent: re-indexing canon updates rows in place.
func (s *Store) Add(ctx context.Context, chunk Chunk) error {
	if chunk.ID == "" {
		return fmt.Errorf("chunk ID is required")
	}
	if chunk.Content == "" {
		return fmt.Errorf("chunk content is required")
	}

	vec, err := s.embedder.Embed(ctx, chunk.Content)
	if err != nil {
		return fmt.Errorf("embedding chunk %q: %w", chunk.ID, err)
	}

	metadataJSON, err := json.Marshal(chunk.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling metadata for %q: %w", chunk.ID, err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO lore_chunks (id, content, embedding, metadata, created_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (id) DO UPDATE
		 SET content = EXCLUDED.content, embedding = EXCLUDED.embedding, metadata = EXCLUDED.metadata`,
		chunk.ID, chunk.Content, vec, metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("upserting chunk %q: %w", chunk.ID, err)
	}

	s.logger.Debug("indexed chunk", "id", chunk.ID, "content_length", len(chunk.Content))
	return nil
}

// RetrieveTopK returns up to k chunks nearest to vec, in descending
// similarity order with the chunk ID as a stable tie-break. An empty result
// set is a valid outcome, not an error: the caller still composes a prompt,
// just with no archive context.
func (s *Store) RetrieveTopK(ctx context.Context, vec pgvector.Vector, k int, opts ...SearchOption) ([]Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("top-k must be positive, got %d", k)
	}
	cfg := buildSearchConfig(opts)

	queryCtx, cancel := context.WithTimeout(ctx, retrieveTimeout)
	defer cancel()

	var rows pgx.Rows
	var err error
	if cfg.maxTier != "" {
		rows, err = s.db.Query(queryCtx,
			`SELECT id, content, metadata, created_at, 1 - (embedding <=> $1) AS similarity
			 FROM lore_chunks
			 WHERE metadata->>'spoiler_tier' = ANY($2)
			 ORDER BY embedding <=> $1, id
			 LIMIT $3`,
			vec, allowedTiers(cfg.maxTier), k,
		)
	} else {
		rows, err = s.db.Query(queryCtx,
			`SELECT id, content, metadata, created_at, 1 - (embedding <=> $1) AS similarity
			 FROM lore_chunks
			 ORDER BY embedding <=> $1, id
			 LIMIT $2`,
			vec, k,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("querying lore chunks: %w", err)
	}
	defer rows.Close()

	return s.scanResults(rows)
}

// Search is the one-call form: embed query, then retrieve. The RAG pipeline
// keeps the stages separate; this exists for CLI and maintenance use.
func (s *Store) Search(ctx context.Context, query string, k int, opts ...SearchOption) ([]Result, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return s.RetrieveTopK(ctx, vec, k, opts...)
}

// Count returns the number of indexed chunks.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM lore_chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// Delete removes a chunk by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM lore_chunks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting chunk %q: %w", id, err)
	}
	s.logger.Debug("deleted chunk", "id", id)
	return nil
}

// scanResults converts rows into Results. Malformed metadata downgrades to
// an empty map with a warning rather than failing the whole retrieval.
func (s *Store) scanResults(rows pgx.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var (
			id, content   string
			metadataBytes []byte
			createdAt     time.Time
			similarity    float64
		)
		if err := rows.Scan(&id, &content, &metadataBytes, &createdAt, &similarity); err != nil {
			return nil, fmt.Errorf("scanning chunk row: %w", err)
		}

		metadata := make(map[string]string)
		if len(metadataBytes) > 0 {
			if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
				s.logger.Warn("unparseable chunk metadata", "chunk_id", id, "error", err)
				metadata = make(map[string]string)
			}
		}

		results = append(results, Result{
			Chunk: Chunk{
				ID:        id,
				Content:   content,
				Metadata:  metadata,
				CreatedAt: createdAt,
			},
			Similarity: similarity,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunk rows: %w", err)
	}
	return results, nil
}
