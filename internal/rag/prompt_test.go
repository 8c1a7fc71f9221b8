package rag

import (
	"strings"
	"testing"

	"github.com/bharatvarsh/bhoomi/internal/archive"
)

func chunk(id, content string, similarity float64) archive.Result {
	return archive.Result{
		Chunk:      archive.Chunk{ID: id, Content: content},
		Similarity: similarity,
	}
}

func TestCompose_LabelsFollowRetrievalOrder(t *testing.T) {
	chunks := []archive.Result{
		chunk("origin", "Bhoomi rose from the Mesh after the Great Fracture.", 0.91),
		chunk("archives", "The Archives of Bharatvarsh hold every recorded cycle.", 0.85),
	}

	p := Compose("You are Bhoomi.", "Who is Bhoomi?", chunks, 0)

	block := p.ContextBlock
	first := strings.Index(block, "[Context 1] Bhoomi rose from the Mesh")
	second := strings.Index(block, "[Context 2] The Archives of Bharatvarsh")
	if first == -1 || second == -1 {
		t.Fatalf("missing labeled entries in context block:\n%s", block)
	}
	if first > second {
		t.Errorf("context entries out of retrieval order:\n%s", block)
	}
	if !strings.Contains(block, "\n\n") {
		t.Error("entries should be separated by a blank line")
	}
}

func TestCompose_EmptyChunksStillComposes(t *testing.T) {
	p := Compose("You are Bhoomi.", "What is the Mesh?", nil, 0)

	if p.ContextBlock != "" {
		t.Errorf("ContextBlock = %q, want empty", p.ContextBlock)
	}
	if p.Query != "What is the Mesh?" {
		t.Errorf("Query = %q", p.Query)
	}
	if got := p.SystemText(); got != "You are Bhoomi." {
		t.Errorf("SystemText() = %q, want bare persona when no context", got)
	}
}

func TestCompose_DropsWholeChunksPastCap(t *testing.T) {
	big := strings.Repeat("x", 60)
	chunks := []archive.Result{
		chunk("a", big, 0.9),
		chunk("b", big, 0.8),
		chunk("c", big, 0.7),
	}

	// Each entry is len("[Context N] ") + 60 = 72 chars; two entries plus
	// the separator take 146. A cap of 150 fits exactly two.
	p := Compose("persona", "q", chunks, 150)

	if !strings.Contains(p.ContextBlock, "[Context 2]") {
		t.Errorf("second chunk should fit within cap:\n%s", p.ContextBlock)
	}
	if strings.Contains(p.ContextBlock, "[Context 3]") {
		t.Errorf("third chunk should be dropped whole:\n%s", p.ContextBlock)
	}
	if strings.Contains(p.ContextBlock, "xx\n") && len(p.ContextBlock) > 150 {
		t.Errorf("context block exceeds cap: %d chars", len(p.ContextBlock))
	}
}

func TestCompose_StopsAtFirstOverflow(t *testing.T) {
	chunks := []archive.Result{
		chunk("a", strings.Repeat("a", 100), 0.9),
		chunk("b", "tiny", 0.8),
	}

	// The first chunk overflows a 50-char cap, so composition stops there
	// even though the second chunk alone would fit.
	p := Compose("persona", "q", chunks, 50)

	if p.ContextBlock != "" {
		t.Errorf("ContextBlock = %q, want empty when first chunk overflows", p.ContextBlock)
	}
}

func TestComposedPrompt_SystemTextIncludesHeader(t *testing.T) {
	p := Compose("You are Bhoomi.", "q", []archive.Result{chunk("a", "lore", 0.9)}, 0)

	system := p.SystemText()
	if !strings.HasPrefix(system, "You are Bhoomi.") {
		t.Errorf("SystemText() should start with the persona:\n%s", system)
	}
	if !strings.Contains(system, ContextHeader) {
		t.Errorf("SystemText() missing %q:\n%s", ContextHeader, system)
	}
	if !strings.Contains(system, "[Context 1] lore") {
		t.Errorf("SystemText() missing context entry:\n%s", system)
	}
}
