package indexer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"sherlock/internal/contextutil"
	"sherlock/internal/vectorstore"
)

// Embedder generates embedding vectors for texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Pipeline orchestrates building the chunk hierarchy for an uploaded document
// and writing both levels to their index collections.
type Pipeline struct {
	builder          *Builder
	embedder         Embedder
	vectorStore      vectorstore.VectorStore
	parentCollection string
	childCollection  string
}

// NewPipeline creates an indexing pipeline.
func NewPipeline(
	builder *Builder,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	parentCollection string,
	childCollection string,
) *Pipeline {
	return &Pipeline{
		builder:          builder,
		embedder:         embedder,
		vectorStore:      vectorStore,
		parentCollection: parentCollection,
		childCollection:  childCollection,
	}
}

// IndexDocument chunks the document's pages and upserts parents then children.
// The two writes are sequential and non-atomic: if the parent write succeeds
// and the child write fails, the error wraps ErrIndexWriteIncomplete so the
// upload layer can decide re-upload semantics.
func (p *Pipeline) IndexDocument(ctx context.Context, pages []string, fileID, docType string) error {
	logger := contextutil.LoggerFromContext(ctx)

	parents, children, err := p.builder.Build(ctx, pages, fileID, docType)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "chunk hierarchy built",
		"file_id", fileID,
		"doc_type", docType,
		"parents", len(parents),
		"children", len(children),
	)

	parentPoints, err := p.embedChunks(ctx, parentTexts(parents), parentPointsFor(parents))
	if err != nil {
		return fmt.Errorf("failed to embed parent chunks: %w", err)
	}

	childPoints, err := p.embedChunks(ctx, childTexts(children), childPointsFor(children))
	if err != nil {
		return fmt.Errorf("failed to embed child chunks: %w", err)
	}

	if err := p.vectorStore.Upsert(ctx, p.parentCollection, parentPoints); err != nil {
		return fmt.Errorf("failed to write parent index: %w", err)
	}

	if err := p.vectorStore.Upsert(ctx, p.childCollection, childPoints); err != nil {
		logger.ErrorContext(ctx, "child index write failed after parent write",
			"file_id", fileID, "error", err)
		return fmt.Errorf("%w: parents written, child write failed: %v", ErrIndexWriteIncomplete, err)
	}

	logger.InfoContext(ctx, "document indexed",
		"file_id", fileID,
		"parents", len(parentPoints),
		"children", len(childPoints),
	)
	return nil
}

// embedChunks fills in the vectors for a prepared point slice.
func (p *Pipeline) embedChunks(ctx context.Context, texts []string, points []vectorstore.Point) ([]vectorstore.Point, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(points) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(points), len(embeddings))
	}

	for i := range points {
		points[i].Vec = embeddings[i]
	}
	return points, nil
}

func parentTexts(parents []ParentChunk) []string {
	texts := make([]string, len(parents))
	for i, parent := range parents {
		texts[i] = parent.Text
	}
	return texts
}

func childTexts(children []ChildChunk) []string {
	texts := make([]string, len(children))
	for i, child := range children {
		texts[i] = child.Text
	}
	return texts
}

// parentPointsFor uses the parent's document id as the point id so a parent
// is addressable in the index by its identity.
func parentPointsFor(parents []ParentChunk) []vectorstore.Point {
	points := make([]vectorstore.Point, len(parents))
	for i, parent := range parents {
		points[i] = vectorstore.Point{
			ID:   parent.DocumentID,
			Text: parent.Text,
			Meta: vectorstore.Meta{
				FileID:     parent.FileID,
				DocumentID: parent.DocumentID,
				DocType:    parent.DocType,
			},
		}
	}
	return points
}

// childPointsFor gives each child span its own point id; the parent identity
// travels in metadata only.
func childPointsFor(children []ChildChunk) []vectorstore.Point {
	points := make([]vectorstore.Point, len(children))
	for i, child := range children {
		points[i] = vectorstore.Point{
			ID:   uuid.NewString(),
			Text: child.Text,
			Meta: vectorstore.Meta{
				FileID:     child.FileID,
				DocumentID: child.DocumentID,
				DocType:    child.DocType,
			},
		}
	}
	return points
}
