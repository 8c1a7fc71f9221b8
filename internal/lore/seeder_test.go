package lore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bharatvarsh/bhoomi/internal/archive"
)

type fakeIndexer struct {
	chunks  []archive.Chunk
	failIDs map[string]bool
	failAll bool
}

func (f *fakeIndexer) Add(_ context.Context, chunk archive.Chunk) error {
	if f.failAll || f.failIDs[chunk.ID] {
		return errors.New("insert failed")
	}
	f.chunks = append(f.chunks, chunk)
	return nil
}

func TestCanon_WellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, chunk := range Canon() {
		if chunk.ID == "" || chunk.Content == "" {
			t.Errorf("canon chunk %+v missing ID or content", chunk)
		}
		if seen[chunk.ID] {
			t.Errorf("duplicate canon ID %q", chunk.ID)
		}
		seen[chunk.ID] = true

		tier := chunk.Metadata[archive.MetadataTierKey]
		if !archive.ValidTier(tier) {
			t.Errorf("canon chunk %q has invalid tier %q", chunk.ID, tier)
		}
	}
}

func TestSeeder_SeedCanon(t *testing.T) {
	store := &fakeIndexer{}
	seeder, err := NewSeeder(store, nil)
	if err != nil {
		t.Fatalf("NewSeeder() error = %v", err)
	}

	indexed, err := seeder.SeedCanon(context.Background())
	if err != nil {
		t.Fatalf("SeedCanon() error = %v", err)
	}
	if indexed != len(Canon()) {
		t.Errorf("indexed = %d, want %d", indexed, len(Canon()))
	}
}

func TestSeeder_SeedCanonPartialFailure(t *testing.T) {
	store := &fakeIndexer{failIDs: map[string]bool{"canon-mesh": true}}
	seeder, _ := NewSeeder(store, nil)

	indexed, err := seeder.SeedCanon(context.Background())
	if err != nil {
		t.Fatalf("SeedCanon() with one bad chunk should not fail, got %v", err)
	}
	if indexed != len(Canon())-1 {
		t.Errorf("indexed = %d, want %d", indexed, len(Canon())-1)
	}
}

func TestSeeder_SeedCanonTotalFailure(t *testing.T) {
	seeder, _ := NewSeeder(&fakeIndexer{failAll: true}, nil)

	if _, err := seeder.SeedCanon(context.Background()); err == nil {
		t.Error("SeedCanon() with no successes expected error")
	}
}

func TestSeeder_IndexText(t *testing.T) {
	store := &fakeIndexer{}
	seeder, _ := NewSeeder(store, nil)

	text := "The first enclave fell silent.\n\nThe second held out for a decade.\n\n\n\nThe third was never found."
	indexed, err := seeder.IndexText(context.Background(), "lore/fracture.md", text, archive.TierS2)
	if err != nil {
		t.Fatalf("IndexText() error = %v", err)
	}
	if indexed != 3 {
		t.Fatalf("indexed = %d, want 3", indexed)
	}

	for _, chunk := range store.chunks {
		if !strings.HasPrefix(chunk.ID, "lore:fracture:") {
			t.Errorf("chunk ID %q should carry the source name", chunk.ID)
		}
		if chunk.Metadata[archive.MetadataTierKey] != archive.TierS2 {
			t.Errorf("chunk %q tier = %q, want S2", chunk.ID, chunk.Metadata[archive.MetadataTierKey])
		}
	}
}

func TestSeeder_IndexTextDeterministicIDs(t *testing.T) {
	first := &fakeIndexer{}
	seeder, _ := NewSeeder(first, nil)
	if _, err := seeder.IndexText(context.Background(), "canon.md", "One paragraph.", ""); err != nil {
		t.Fatalf("IndexText() error = %v", err)
	}

	second := &fakeIndexer{}
	seeder2, _ := NewSeeder(second, nil)
	if _, err := seeder2.IndexText(context.Background(), "canon.md", "One paragraph.", ""); err != nil {
		t.Fatalf("IndexText() error = %v", err)
	}

	if first.chunks[0].ID != second.chunks[0].ID {
		t.Errorf("IDs differ for identical input: %q vs %q", first.chunks[0].ID, second.chunks[0].ID)
	}
}

func TestSeeder_IndexTextValidation(t *testing.T) {
	seeder, _ := NewSeeder(&fakeIndexer{}, nil)
	ctx := context.Background()

	if _, err := seeder.IndexText(ctx, "", "text", ""); err == nil {
		t.Error("IndexText() without source expected error")
	}
	if _, err := seeder.IndexText(ctx, "a.md", "   \n\n  ", ""); err == nil {
		t.Error("IndexText() with blank text expected error")
	}
	if _, err := seeder.IndexText(ctx, "a.md", "text", "S9"); err == nil {
		t.Error("IndexText() with unknown tier expected error")
	}
}

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single", "one paragraph", 1},
		{"two", "first\n\nsecond", 2},
		{"windows line endings", "first\r\n\r\nsecond", 2},
		{"interior newline kept", "line one\nline two\n\nnext", 2},
		{"blank runs collapse", "a\n\n\n\n\nb", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitParagraphs(tt.text); len(got) != tt.want {
				t.Errorf("SplitParagraphs() = %d paragraphs, want %d: %q", len(got), tt.want, got)
			}
		})
	}
}
