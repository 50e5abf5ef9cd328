package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicate         = errors.New("duplicate entry")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrAnnotation and ErrEmbedding are fatal to a pipeline run.
	ErrAnnotation = errors.New("annotation failed")
	ErrEmbedding  = errors.New("embedding failed")

	// ErrEnrichment marks a malformed or failed enrichment response.
	ErrEnrichment = errors.New("enrichment failed")
)
