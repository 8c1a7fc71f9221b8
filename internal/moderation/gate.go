package moderation

import (
	"context"
	"fmt"

	"github.com/bharatvarsh/bhoomi/internal/log"
)

// Reasons appended by the gate's stateful checks. Pattern reasons are built
// in pattern.go.
const (
	reasonTooFrequent = "posting too frequently"
	reasonDuplicate   = "likely duplicate content"
)

// FingerprintIndex looks up whether a content fingerprint has been seen
// before. Read-only; the publication workflow records fingerprints.
type FingerprintIndex interface {
	Seen(ctx context.Context, fingerprint string) (bool, error)
}

// Gate is the single entry point for heuristic moderation. It composes the
// pattern matcher, the velocity check, and the duplicate fingerprint lookup,
// and runs before any AI moderation is consulted, so obviously-spam content
// never costs a model call.
//
// Gate is stateless; all mutable state lives behind the injected
// collaborators, so concurrent evaluations do not contend.
type Gate struct {
	counter      PostCounter
	fingerprints FingerprintIndex
	logger       log.Logger
}

// NewGate creates a moderation gate. counter is required; fingerprints may
// be nil, which disables the duplicate check.
func NewGate(counter PostCounter, fingerprints FingerprintIndex, logger log.Logger) (*Gate, error) {
	if counter == nil {
		return nil, fmt.Errorf("post counter is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Gate{counter: counter, fingerprints: fingerprints, logger: logger}, nil
}

// Evaluate runs every heuristic over content and returns the combined
// signal. Reason order is fixed: pattern findings first, then the velocity
// reason, then the duplicate reason.
//
// A collaborator failure is returned as an error, never folded into a clean
// signal: treating "service down" as "content is safe" would publish
// unmoderated content. Callers block publication on error.
func (g *Gate) Evaluate(ctx context.Context, content, authorID string) (Signal, error) {
	reasons := EvaluatePatterns(content).Reasons

	tooFast, err := PostingTooFast(ctx, authorID, g.counter)
	if err != nil {
		return Signal{}, fmt.Errorf("velocity check: %w", err)
	}
	if tooFast {
		reasons = append(reasons, reasonTooFrequent)
	}

	if g.fingerprints != nil {
		fp := Fingerprint(content)
		seen, err := g.fingerprints.Seen(ctx, fp)
		if err != nil {
			return Signal{}, fmt.Errorf("fingerprint lookup: %w", err)
		}
		if seen {
			// Collision policy: a match is only a review signal. The hash
			// is not cryptographic, so a false positive must never reject
			// outright.
			reasons = append(reasons, reasonDuplicate)
		}
	}

	sig := newSignal(reasons)
	if sig.Flagged {
		g.logger.Debug("content flagged", "author_id", authorID, "reasons", len(sig.Reasons))
	}
	return sig, nil
}
