// internal/services/errors.go
package services

import "errors"

// Error taxonomy shared by the ingestion and enrichment paths. Callers match
// with errors.Is; lower layers wrap these with fmt.Errorf("%w: ...").
var (
	// ErrValidation marks malformed or out-of-range input (series length,
	// date ordering).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced product or record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSchemaMismatch marks an enrichment batch whose columns are not a
	// subset of the target dataset's columns.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrUpstreamStore marks a remote dataset download or upload failure,
	// including timeouts.
	ErrUpstreamStore = errors.New("upstream store failure")

	// ErrPersistence marks a local store write failure.
	ErrPersistence = errors.New("persistence failure")
)
