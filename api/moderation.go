package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bharatvarsh/bhoomi/internal/log"
	"github.com/bharatvarsh/bhoomi/internal/moderation"
)

// ModerationGate evaluates content before it is accepted.
// *moderation.Gate satisfies it.
type ModerationGate interface {
	Evaluate(ctx context.Context, content, authorID string) (moderation.Signal, error)
}

// PostRecorder records accepted posts so later velocity and duplicate
// checks see them. *moderation.PostStore satisfies it.
type PostRecorder interface {
	RecordPost(ctx context.Context, authorID, content string) (uuid.UUID, error)
}

// ModerationHandler handles the content gate endpoint.
type ModerationHandler struct {
	gate     ModerationGate
	recorder PostRecorder
	logger   log.Logger
}

// NewModerationHandler creates a moderation handler. recorder may be nil;
// accepted posts are then not recorded.
func NewModerationHandler(gate ModerationGate, recorder PostRecorder, logger log.Logger) *ModerationHandler {
	return &ModerationHandler{gate: gate, recorder: recorder, logger: logger}
}

// RegisterRoutes registers moderation routes on the given mux.
func (h *ModerationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/internal/moderation", h.evaluate)
}

// ModerationRequest is the request body for /api/internal/moderation.
type ModerationRequest struct {
	Content string `json:"content"`
	UserID  string `json:"userId"`
}

// ModerationResponse carries the gate's verdict. PostID is set when the
// content passed and was recorded for future velocity and duplicate
// checks; flagged content is never recorded.
type ModerationResponse struct {
	Flagged     bool     `json:"flagged"`
	Reasons     []string `json:"reasons"`
	Fingerprint string   `json:"fingerprint"`
	PostID      string   `json:"postId,omitempty"`
}

// evaluate runs the gate over submitted content. A gate collaborator
// failure returns 503: the forum must not publish unchecked content on
// the strength of a missing answer.
func (h *ModerationHandler) evaluate(w http.ResponseWriter, r *http.Request) {
	var req ModerationRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body", h.logger)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "missing_user", "userId is required", h.logger)
		return
	}

	signal, err := h.gate.Evaluate(r.Context(), req.Content, req.UserID)
	if err != nil {
		h.logger.Error("moderation gate failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "gate_unavailable", "unable to evaluate content right now", h.logger)
		return
	}

	resp := ModerationResponse{
		Flagged:     signal.Flagged,
		Reasons:     signal.Reasons,
		Fingerprint: moderation.Fingerprint(req.Content),
	}

	if !signal.Flagged && h.recorder != nil {
		postID, err := h.recorder.RecordPost(r.Context(), req.UserID, req.Content)
		if err != nil {
			// The verdict stands; the gate just loses this post's history.
			h.logger.Error("failed to record accepted post", "error", err)
		} else {
			resp.PostID = postID.String()
		}
	}

	writeJSON(w, http.StatusOK, resp, h.logger)
}
