package rag

import "errors"

// Stage sentinel errors. Callers map these to transport responses with
// errors.Is; the wrapped cause carries the detail.
var (
	// ErrEmptyQuery indicates a blank query reached the pipeline.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrEmbedFailed indicates the query could not be embedded. Generation
	// must not proceed past this error.
	ErrEmbedFailed = errors.New("embedding query failed")

	// ErrRetrieveFailed indicates the vector search itself failed. This is
	// distinct from an empty result set, which is valid.
	ErrRetrieveFailed = errors.New("retrieving context failed")

	// ErrGenerateFailed indicates the model call failed or the stream was
	// aborted by its consumer.
	ErrGenerateFailed = errors.New("generating answer failed")
)
