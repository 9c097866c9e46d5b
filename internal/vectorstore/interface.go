package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks sherlock/internal/vectorstore VectorStore

import "context"

// Meta is the fixed metadata record attached to every indexed chunk.
// FileID groups all chunks from one uploaded document, DocumentID is the
// owning parent chunk's identity, and DocType is the user-chosen category
// that scopes both indexing and retrieval.
type Meta struct {
	FileID     string
	DocumentID string
	DocType    string
}

// Point represents a vector point with its text and metadata.
type Point struct {
	ID   string
	Vec  []float32
	Text string
	Meta Meta
}

// Chunk is a stored chunk returned from a search.
type Chunk struct {
	ID   string
	Text string
	Meta Meta
}

// ScoredChunk pairs a chunk with its normalized relevance score in [0,1],
// higher meaning more relevant.
type ScoredChunk struct {
	Chunk Chunk
	Score float32
}

// Filter restricts a search to chunks whose metadata matches every non-empty
// field exactly.
type Filter struct {
	FileID     string
	DocumentID string
	DocType    string
}

// IsZero reports whether no filter fields are set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// VectorStore defines the interface for vector storage operations across
// named collections.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a top-k similarity search restricted by filter.
	Search(ctx context.Context, collection string, query []float32, k int, filter Filter) ([]Chunk, error)

	// SearchWithScore is Search plus a normalized relevance score per result,
	// in descending score order.
	SearchWithScore(ctx context.Context, collection string, query []float32, k int, filter Filter) ([]ScoredChunk, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error

	// EnsureCollection creates the collection if missing and validates its
	// vector size otherwise.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// CollectionExists checks if a collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}
