package konl

import "errors"

// Sentinel errors observable by callers, per spec.md §7. Store failures
// (badger open/commit/iterator errors) are wrapped with fmt.Errorf and
// %w rather than modeled as sentinels, since spec.md treats them as
// fatal, unclassified failures for that operation.
var (
	// ErrNotFound is returned by Delete when a document id is absent.
	// Get reports the same condition through its bool return instead;
	// BatchWriter.Delete treats an absent id as a no-op and returns nil.
	ErrNotFound = errors.New("konl: document not found")

	// ErrClosed is returned by any Index/Engine operation after Close.
	ErrClosed = errors.New("konl: use of closed index")

	// ErrInvalidQuery is returned by SearchComplex for a malformed query
	// tree (neither a leaf nor a well-formed interior node).
	ErrInvalidQuery = errors.New("konl: invalid query")
)
