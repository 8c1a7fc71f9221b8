// Package rag answers user questions with Archives of Bharatvarsh context.
//
// The pipeline runs four stages in order:
//
//	embed query -> retrieve top-K chunks -> compose prompt -> generate
//
// Failures are never silent. An embedding failure aborts the pipeline
// before generation; only a successful embedding may proceed to
// retrieval. An empty retrieval result is NOT a failure: the prompt is
// composed with no archive context and generation still runs, relying on
// the persona alone.
//
// Generated text streams through a StreamCallback as it arrives; the
// complete answer is also returned once generation finishes.
package rag
