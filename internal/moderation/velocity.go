package moderation

import (
	"context"
	"fmt"
	"time"
)

// Velocity window parameters.
const (
	// velocityWindow is how far back the posting-rate check looks.
	velocityWindow = 60 * time.Second

	// velocityMaxPosts is the count at which the check trips. An author
	// with velocityMaxPosts or more posts inside the window is too fast.
	velocityMaxPosts = 5
)

// PostCounter counts an author's posts created at or after a point in time.
// It is the single suspension point of the heuristic gate; implementations
// are read-only.
type PostCounter interface {
	CountSince(ctx context.Context, authorID string, since time.Time) (int64, error)
}

// PostingTooFast reports whether authorID has posted at or above the rate
// limit within the last velocityWindow. Zero recent posts is a valid state
// and trivially passes. A counter failure propagates to the caller; this
// check offers no fallback of its own.
func PostingTooFast(ctx context.Context, authorID string, counter PostCounter) (bool, error) {
	windowStart := time.Now().Add(-velocityWindow)

	count, err := counter.CountSince(ctx, authorID, windowStart)
	if err != nil {
		return false, fmt.Errorf("counting recent posts for %q: %w", authorID, err)
	}

	return count >= velocityMaxPosts, nil
}
