package moderation

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeCounter returns a fixed count or error and records the query window.
type fakeCounter struct {
	count int64
	err   error

	calls     int
	lastSince time.Time
}

func (f *fakeCounter) CountSince(_ context.Context, _ string, since time.Time) (int64, error) {
	f.calls++
	f.lastSince = since
	if f.err != nil {
		return 0, f.err
	}
	return f.count, nil
}

func TestPostingTooFast_Boundary(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		want  bool
	}{
		{"zero posts", 0, false},
		{"four posts", 4, false},
		{"five posts", 5, true},
		{"six posts", 6, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := &fakeCounter{count: tt.count}
			got, err := PostingTooFast(context.Background(), "seeker-1", counter)
			if err != nil {
				t.Fatalf("PostingTooFast() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("PostingTooFast() with count %d = %v, want %v", tt.count, got, tt.want)
			}
		})
	}
}

func TestPostingTooFast_WindowIsSixtySeconds(t *testing.T) {
	counter := &fakeCounter{}
	before := time.Now().Add(-velocityWindow)

	if _, err := PostingTooFast(context.Background(), "seeker-1", counter); err != nil {
		t.Fatalf("PostingTooFast() error = %v", err)
	}

	after := time.Now().Add(-velocityWindow)
	if counter.lastSince.Before(before) || counter.lastSince.After(after) {
		t.Errorf("window start %v outside [%v, %v]", counter.lastSince, before, after)
	}
}

func TestPostingTooFast_CounterErrorPropagates(t *testing.T) {
	cause := errors.New("connection refused")
	counter := &fakeCounter{err: cause}

	_, err := PostingTooFast(context.Background(), "seeker-1", counter)
	if !errors.Is(err, cause) {
		t.Errorf("PostingTooFast() error = %v, want wrapped %v", err, cause)
	}
}
