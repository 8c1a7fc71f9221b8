package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatvarsh/bhoomi/internal/log"
	"github.com/bharatvarsh/bhoomi/internal/moderation"
)

type fakeGate struct {
	signal moderation.Signal
	err    error
}

func (f fakeGate) Evaluate(context.Context, string, string) (moderation.Signal, error) {
	if f.err != nil {
		return moderation.Signal{}, f.err
	}
	return f.signal, nil
}

type fakeRecorder struct {
	id      uuid.UUID
	err     error
	calls   int
	content string
}

func (f *fakeRecorder) RecordPost(_ context.Context, _, content string) (uuid.UUID, error) {
	f.calls++
	f.content = content
	if f.err != nil {
		return uuid.Nil, f.err
	}
	return f.id, nil
}

func TestModerationHandler_FlaggedContent(t *testing.T) {
	gate := fakeGate{signal: moderation.Signal{
		Flagged: true,
		Reasons: []string{"spam phrase detected: buy now"},
	}}
	recorder := &fakeRecorder{id: uuid.New()}
	h := NewModerationHandler(gate, recorder, log.NewNop())

	w := postJSON(t, h.evaluate, "/api/internal/moderation",
		`{"content":"Buy now traveler","userId":"user-1"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ModerationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Flagged)
	assert.Contains(t, resp.Reasons, "spam phrase detected: buy now")
	assert.Equal(t, moderation.Fingerprint("Buy now traveler"), resp.Fingerprint)

	assert.Zero(t, recorder.calls, "flagged content must not be recorded")
	assert.Empty(t, resp.PostID)
}

func TestModerationHandler_CleanContentIsRecorded(t *testing.T) {
	id := uuid.New()
	recorder := &fakeRecorder{id: id}
	h := NewModerationHandler(fakeGate{}, recorder, log.NewNop())

	const content = "A thoughtful reflection on the Reunification."
	w := postJSON(t, h.evaluate, "/api/internal/moderation",
		`{"content":"A thoughtful reflection on the Reunification.","userId":"user-1"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ModerationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Flagged)
	assert.Equal(t, id.String(), resp.PostID)
	assert.Equal(t, 1, recorder.calls)
	assert.Equal(t, content, recorder.content)
}

func TestModerationHandler_RecordFailureKeepsVerdict(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("insert failed")}
	h := NewModerationHandler(fakeGate{}, recorder, log.NewNop())

	w := postJSON(t, h.evaluate, "/api/internal/moderation",
		`{"content":"hello Archives","userId":"user-1"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ModerationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Flagged)
	assert.Empty(t, resp.PostID)
}

func TestModerationHandler_NilRecorder(t *testing.T) {
	h := NewModerationHandler(fakeGate{}, nil, log.NewNop())

	w := postJSON(t, h.evaluate, "/api/internal/moderation",
		`{"content":"hello","userId":"user-1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestModerationHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		gate       fakeGate
		wantStatus int
		wantError  string
	}{
		{"invalid JSON", `{broken`, fakeGate{}, http.StatusBadRequest, "invalid_request"},
		{"missing user", `{"content":"hello"}`, fakeGate{}, http.StatusBadRequest, "missing_user"},
		{
			// A collaborator failure must never read as a pass.
			name:       "gate failure",
			body:       `{"content":"hello","userId":"user-1"}`,
			gate:       fakeGate{err: errors.New("database down")},
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "gate_unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewModerationHandler(tt.gate, &fakeRecorder{}, log.NewNop())
			w := postJSON(t, h.evaluate, "/api/internal/moderation", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantError)
		})
	}
}
