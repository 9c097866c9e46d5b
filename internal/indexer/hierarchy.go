package indexer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"sherlock/internal/contextutil"
)

// Builder turns one document's pages into a parent-chunk sequence (one per
// page) and a child-chunk sequence (many per page), all tagged with shared
// identifiers.
type Builder struct {
	normalizer  *TableNormalizer
	spanSize    int
	spanOverlap int
}

// NewBuilder creates a hierarchy builder with the default span sizing.
func NewBuilder(normalizer *TableNormalizer) *Builder {
	return &Builder{
		normalizer:  normalizer,
		spanSize:    defaultSpanSize,
		spanOverlap: defaultSpanOverlap,
	}
}

// Build constructs the two-level chunk hierarchy for a document.
// Per page in order: assign a fresh document id, normalize table-like text,
// construct the parent chunk, and split into overlapping child spans sharing
// the parent's id. Blank pages are skipped; a document with no usable text
// returns ErrInvalidDocument.
//
// DocumentID uniqueness rides on 128-bit random identifiers; no membership
// check is kept.
func (b *Builder) Build(ctx context.Context, pages []string, fileID, docType string) ([]ParentChunk, []ChildChunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if fileID == "" {
		return nil, nil, fmt.Errorf("file id is required")
	}

	var parents []ParentChunk
	var children []ChildChunk

	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			logger.DebugContext(ctx, "skipping blank page", "file_id", fileID, "page", i+1)
			continue
		}

		documentID := uuid.NewString()

		text := page
		if b.normalizer != nil {
			text = b.normalizer.Normalize(ctx, page)
		}

		parents = append(parents, ParentChunk{
			FileID:     fileID,
			DocumentID: documentID,
			DocType:    docType,
			Text:       text,
		})

		for _, span := range splitSpans(text, b.spanSize, b.spanOverlap) {
			children = append(children, ChildChunk{
				FileID:     fileID,
				DocumentID: documentID,
				DocType:    docType,
				Text:       span,
			})
		}

		logger.DebugContext(ctx, "page chunked", "file_id", fileID, "page", i+1, "total_pages", len(pages))
	}

	if len(parents) == 0 {
		return nil, nil, fmt.Errorf("%w: document has no extractable text", ErrInvalidDocument)
	}

	return parents, children, nil
}
