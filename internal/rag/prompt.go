package rag

import (
	"fmt"
	"strings"

	"github.com/bharatvarsh/bhoomi/internal/archive"
)

// ContextHeader introduces the retrieved-context section of the prompt.
const ContextHeader = "## Archive Context"

// DefaultMaxContextChars caps the assembled context block. Chunks past the
// cap are dropped whole; a truncated chunk mid-sentence reads worse to the
// model than one fewer chunk.
const DefaultMaxContextChars = 8000

// ComposedPrompt is the fully assembled model input: persona instructions,
// the labeled context block, and the user's question.
type ComposedPrompt struct {
	Persona      string
	Query        string
	ContextBlock string
}

// Compose builds the prompt for query from retrieved chunks. Chunks are
// labeled [Context 1], [Context 2], ... in the order given, which is the
// retrieval order (highest similarity first). Chunks that would push the
// context block past maxContextChars are dropped, and composition stops at
// the first chunk that does not fit. maxContextChars <= 0 falls back to
// DefaultMaxContextChars.
//
// An empty chunk slice is valid: the context block is empty and the model
// answers from the persona alone.
func Compose(persona, query string, chunks []archive.Result, maxContextChars int) ComposedPrompt {
	if maxContextChars <= 0 {
		maxContextChars = DefaultMaxContextChars
	}

	var b strings.Builder
	for i, chunk := range chunks {
		entry := fmt.Sprintf("[Context %d] %s", i+1, chunk.Chunk.Content)
		need := len(entry)
		if b.Len() > 0 {
			need += 2
		}
		if b.Len()+need > maxContextChars {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(entry)
	}

	return ComposedPrompt{
		Persona:      persona,
		Query:        query,
		ContextBlock: b.String(),
	}
}

// SystemText renders the system instruction: the persona followed by the
// context section when any context survived composition.
func (p ComposedPrompt) SystemText() string {
	if p.ContextBlock == "" {
		return p.Persona
	}
	return p.Persona + "\n\n" + ContextHeader + "\n\n" + p.ContextBlock
}

// Text renders the user-facing portion of the prompt: just the question.
func (p ComposedPrompt) Text() string {
	return p.Query
}
