package search

import "fmt"

// BackendError marks a failure of the strategy's terminal procedure. Proc
// names the remote procedure for diagnostics.
type BackendError struct {
	Proc string
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend procedure %s failed: %s", e.Proc, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// fallbackReason records internally why the semantic path was abandoned.
// It is logged for observability and never surfaced to the client.
type fallbackReason string

const (
	fallbackNone           fallbackReason = ""
	fallbackEmbeddingError fallbackReason = "embedding_failed"
	fallbackSemanticError  fallbackReason = "semantic_error"
	fallbackSemanticEmpty  fallbackReason = "semantic_empty"
)
