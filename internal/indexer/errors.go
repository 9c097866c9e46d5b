package indexer

import "errors"

var (
	// ErrInvalidDocument is returned for uploads that yield no usable page
	// text. Empty chunks are never indexed silently.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrIndexWriteIncomplete is returned when one index collection was
	// written but the other was not, leaving the document partially indexed.
	// The upload layer decides re-upload semantics.
	ErrIndexWriteIncomplete = errors.New("index write incomplete")
)
