package moderation

// Signal is the outcome of one moderation evaluation. It is produced fresh
// per evaluation and never persisted by this package.
type Signal struct {
	// Reasons lists every finding in evaluation order: pattern reasons
	// first, then the velocity reason, then the duplicate reason.
	Reasons []string `json:"reasons"`

	// Flagged is true exactly when Reasons is non-empty.
	Flagged bool `json:"flagged"`
}

// newSignal builds a Signal, deriving Flagged from the reason list.
func newSignal(reasons []string) Signal {
	return Signal{Reasons: reasons, Flagged: len(reasons) > 0}
}
