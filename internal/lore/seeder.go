package lore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bharatvarsh/bhoomi/internal/archive"
	"github.com/bharatvarsh/bhoomi/internal/log"
)

// Indexer is the subset of the archive store the seeder needs.
type Indexer interface {
	Add(ctx context.Context, chunk archive.Chunk) error
}

// Seeder indexes the built-in canon and operator-supplied lore files.
//
// Safe for concurrent use; SeedCanon and IndexText serialize on mu.
type Seeder struct {
	store  Indexer
	logger log.Logger
	mu     sync.Mutex
}

// NewSeeder creates a Seeder over the given store.
func NewSeeder(store Indexer, logger log.Logger) (*Seeder, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Seeder{store: store, logger: logger}, nil
}

// SeedCanon upserts every built-in canon chunk. A single failed chunk is
// logged and skipped; the error return fires only when nothing indexed,
// so one bad row cannot silence the whole seed.
func (s *Seeder) SeedCanon(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunks := Canon()
	indexed := 0
	for _, chunk := range chunks {
		if err := s.store.Add(ctx, chunk); err != nil {
			s.logger.Error("failed to index canon chunk", "id", chunk.ID, "error", err)
			continue
		}
		indexed++
	}

	s.logger.Debug("canon seeded", "total", len(chunks), "indexed", indexed)

	if indexed == 0 {
		return 0, fmt.Errorf("failed to index any canon chunks")
	}
	return indexed, nil
}

// IndexText splits an operator lore document into paragraph chunks and
// upserts each under a deterministic ID derived from the source name and
// paragraph content, so re-indexing an unchanged file is a no-op upsert.
// The spoiler tier applies to every chunk in the document; pass "" for
// untiered lore.
func (s *Seeder) IndexText(ctx context.Context, source, text, tier string) (int, error) {
	if source == "" {
		return 0, fmt.Errorf("source name is required")
	}
	if tier != "" && !archive.ValidTier(tier) {
		return 0, fmt.Errorf("unknown spoiler tier %q", tier)
	}

	paragraphs := SplitParagraphs(text)
	if len(paragraphs) == 0 {
		return 0, fmt.Errorf("no content in %q", source)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	indexed := 0
	for _, paragraph := range paragraphs {
		chunk := archive.Chunk{
			ID:      chunkID(name, paragraph),
			Content: paragraph,
		}
		if tier != "" {
			chunk.Metadata = map[string]string{archive.MetadataTierKey: tier}
		}
		if err := s.store.Add(ctx, chunk); err != nil {
			return indexed, fmt.Errorf("indexing %q: %w", source, err)
		}
		indexed++
	}

	s.logger.Debug("lore document indexed", "source", source, "chunks", indexed)
	return indexed, nil
}

// SplitParagraphs breaks text on blank lines. Whitespace-only paragraphs
// are dropped; interior single newlines are preserved.
func SplitParagraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string
	for _, block := range strings.Split(normalized, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		paragraphs = append(paragraphs, block)
	}
	return paragraphs
}

// chunkID derives a stable chunk ID from the source name and content.
func chunkID(name, content string) string {
	sum := sha256.Sum256([]byte(content))
	return fmt.Sprintf("lore:%s:%s", name, hex.EncodeToString(sum[:8]))
}
