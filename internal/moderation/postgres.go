package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bharatvarsh/bhoomi/internal/log"
)

// Querier is the subset of pgx operations the post store needs. Both
// *pgxpool.Pool and pgx.Tx satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostStore is the PostgreSQL-backed collaborator for the gate's stateful
// checks. The forum owns post content; this store records only the author,
// fingerprint, and timestamp the gate needs.
//
// PostStore is safe for concurrent use.
type PostStore struct {
	db     Querier
	logger log.Logger
}

// NewPostStore creates a PostStore on the given querier.
func NewPostStore(db Querier, logger log.Logger) (*PostStore, error) {
	if db == nil {
		return nil, fmt.Errorf("querier is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &PostStore{db: db, logger: logger}, nil
}

// CountSince implements PostCounter.
func (s *PostStore) CountSince(ctx context.Context, authorID string, since time.Time) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM posts WHERE author_id = $1 AND created_at >= $2`,
		authorID, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting posts: %w", err)
	}
	return count, nil
}

// Seen implements FingerprintIndex.
func (s *PostStore) Seen(ctx context.Context, fingerprint string) (bool, error) {
	var seen bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE fingerprint = $1)`,
		fingerprint,
	).Scan(&seen)
	if err != nil {
		return false, fmt.Errorf("looking up fingerprint: %w", err)
	}
	return seen, nil
}

// RecordPost stores the moderation-relevant slice of an accepted post so
// later velocity and duplicate checks can see it. Called by the publication
// workflow after the gate passes.
func (s *PostStore) RecordPost(ctx context.Context, authorID, content string) (uuid.UUID, error) {
	if authorID == "" {
		return uuid.Nil, fmt.Errorf("author ID is required")
	}

	id := uuid.New()
	_, err := s.db.Exec(ctx,
		`INSERT INTO posts (id, author_id, fingerprint, created_at) VALUES ($1, $2, $3, now())`,
		id, authorID, Fingerprint(content),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("recording post: %w", err)
	}

	s.logger.Debug("recorded post", "id", id, "author_id", authorID)
	return id, nil
}
