package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bharatvarsh/bhoomi/internal/log"
	"github.com/bharatvarsh/bhoomi/internal/rag"
)

// maxRequestBody caps request bodies on the internal surface.
const maxRequestBody = 1 << 20 // 1MB

// QueryPipeline is the RAG surface the query handlers need.
// *rag.Pipeline satisfies it.
type QueryPipeline interface {
	Context(ctx context.Context, query string, opts rag.QueryOptions) (string, error)
	Answer(ctx context.Context, query string, opts rag.QueryOptions, cb rag.StreamCallback) (*rag.Answer, error)
}

// QueryHandler handles RAG context and answer endpoints.
type QueryHandler struct {
	pipeline QueryPipeline
	logger   log.Logger
}

// NewQueryHandler creates a query handler.
func NewQueryHandler(pipeline QueryPipeline, logger log.Logger) *QueryHandler {
	return &QueryHandler{pipeline: pipeline, logger: logger}
}

// RegisterRoutes registers query routes on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/internal/rag", h.ragContext)
	mux.HandleFunc("POST /api/internal/ask/stream", h.askStream)
}

// RAGRequest is the request body for /api/internal/rag and
// /api/internal/ask/stream. SpoilerMode caps retrieval at a spoiler tier;
// empty means no cap.
type RAGRequest struct {
	Query       string `json:"query"`
	SpoilerMode string `json:"spoilerMode,omitempty"`
}

// RAGResponse is the response body for /api/internal/rag.
type RAGResponse struct {
	Context string `json:"context"`
}

// ragContext serves the retrieval-only endpoint: forum services feed the
// returned context block into their own prompts.
func (h *QueryHandler) ragContext(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	contextBlock, err := h.pipeline.Context(r.Context(), req.Query, rag.QueryOptions{SpoilerTier: req.SpoilerMode})
	if err != nil {
		h.writeQueryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RAGResponse{Context: contextBlock}, h.logger)
}

// SSE event types for answer streaming.
const (
	EventChunk = "chunk"
	EventDone  = "done"
	EventError = "error"
)

// ChunkPayload is the SSE data payload for streaming text fragments.
type ChunkPayload struct {
	Text string `json:"text"`
}

// DonePayload is the SSE data payload when streaming completes.
type DonePayload struct {
	Response string `json:"response"`
	Chunks   int    `json:"chunks"`
}

// ErrorPayload is the SSE data payload when an error occurs.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// askStream serves the full RAG answer over SSE. Partial text streams as
// chunk events; a done event carries the complete answer.
func (h *QueryHandler) askStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	var req RAGRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = writeEvent(w, flusher, EventError, ErrorPayload{
			Code:    "INVALID_REQUEST",
			Message: "invalid request body",
		})
		return
	}

	ctx := r.Context()
	h.logger.Debug("answer stream started", "query_length", len(req.Query))

	answer, err := h.pipeline.Answer(ctx, req.Query, rag.QueryOptions{SpoilerTier: req.SpoilerMode},
		func(_ context.Context, text string) error {
			if text == "" {
				return nil
			}
			// A write failure usually means the client disconnected.
			return writeEvent(w, flusher, EventChunk, ChunkPayload{Text: text})
		})
	if err != nil {
		if ctx.Err() != nil {
			h.logger.Info("client disconnected during stream")
			return
		}
		h.writeStreamError(w, flusher, err)
		return
	}

	_ = writeEvent(w, flusher, EventDone, DonePayload{
		Response: answer.Text,
		Chunks:   len(answer.Chunks),
	})

	h.logger.Info("answer stream completed", "chunks", len(answer.Chunks))
}

// decodeRequest decodes and validates a RAGRequest for JSON endpoints.
func (h *QueryHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (RAGRequest, bool) {
	var req RAGRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body", h.logger)
		return RAGRequest{}, false
	}
	return req, true
}

// writeQueryError maps pipeline errors to JSON responses. Infrastructure
// failures hide the cause from the caller; the detail goes to the log.
func (h *QueryHandler) writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rag.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "empty_query", "query is required", h.logger)
	default:
		h.logger.Error("query pipeline failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "pipeline_unavailable", "unable to answer right now", h.logger)
	}
}

// writeStreamError maps pipeline errors to SSE error events.
func (h *QueryHandler) writeStreamError(w io.Writer, f http.Flusher, err error) {
	code := "STREAM_ERROR"
	message := "unable to answer right now"

	switch {
	case errors.Is(err, rag.ErrEmptyQuery):
		code = "EMPTY_QUERY"
		message = "query is required"
	case errors.Is(err, rag.ErrEmbedFailed):
		code = "EMBED_FAILED"
	case errors.Is(err, rag.ErrRetrieveFailed):
		code = "RETRIEVE_FAILED"
	case errors.Is(err, rag.ErrGenerateFailed):
		code = "GENERATE_FAILED"
	}

	h.logger.Error("answer stream failed", "code", code, "error", err)
	_ = writeEvent(w, f, EventError, ErrorPayload{Code: code, Message: message})
}

// writeEvent writes a single SSE event with JSON-encoded data.
// SSE format: "event: <type>\ndata: <json>\n\n"
func writeEvent[T any](w io.Writer, flusher http.Flusher, event string, data T) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	flusher.Flush()
	return nil
}
