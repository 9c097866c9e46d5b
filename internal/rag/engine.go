package rag

import (
	"context"
	"fmt"

	"sherlock/internal/contextutil"
	"sherlock/internal/vectorstore"
)

// Embedder generates embedding vectors for texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Engine selects a compact, deduplicated context window for a question:
// it searches the child index for precision, thresholds adaptively on the
// candidate pool's own score distribution, and joins back to parent chunks
// for enough surrounding context to answer from.
type Engine interface {
	// Retrieve returns up to k parent texts relevant to the question within
	// the given doc_type scope. An empty result is not an error.
	Retrieve(ctx context.Context, question, docType string, k int) ([]string, error)
}

type engine struct {
	embedder         Embedder
	vectorStore      vectorstore.VectorStore
	parentCollection string
	childCollection  string
	poolSize         int
}

// NewEngine creates a retrieval engine over the parent and child collections.
func NewEngine(embedder Embedder, vectorStore vectorstore.VectorStore, parentCollection, childCollection string) Engine {
	return &engine{
		embedder:         embedder,
		vectorStore:      vectorStore,
		parentCollection: parentCollection,
		childCollection:  childCollection,
		poolSize:         candidatePoolSize,
	}
}

// Retrieve implements the child-search / mean-threshold / dedup / parent-join
// pipeline.
func (e *engine) Retrieve(ctx context.Context, question, docType string, k int) ([]string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if question == "" {
		return nil, fmt.Errorf("question is required")
	}
	if k <= 0 {
		k = defaultK
	}

	embeddings, err := e.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for question")
	}
	queryVector := embeddings[0]

	candidates, err := e.vectorStore.SearchWithScore(ctx, e.childCollection, queryVector, e.poolSize, vectorstore.Filter{DocType: docType})
	if err != nil {
		return nil, fmt.Errorf("failed to search child index: %w", err)
	}

	// Empty pool means the mean is undefined: treat as no context, fail soft.
	if len(candidates) == 0 {
		logger.InfoContext(ctx, "no child candidates found", "doc_type", docType)
		return []string{}, nil
	}

	// The adaptive threshold is the mean of the pool's scores. Absolute
	// relevance scores are not comparable across queries or embedding models,
	// so the cutoff rescales to each query's own distribution.
	threshold := meanScore(candidates)

	kept := candidates[:0:0]
	for _, candidate := range candidates {
		if candidate.Score >= threshold {
			kept = append(kept, candidate)
		}
	}

	// Collapse matching child spans to unique parent ids, preserving order of
	// first appearance. This is the parent/child join: many spans from the
	// same page become a single parent reference.
	parentIDs := dedupeParentIDs(kept)

	logger.InfoContext(ctx, "child candidates filtered",
		"pool", len(candidates),
		"threshold", threshold,
		"kept", len(kept),
		"unique_parents", len(parentIDs),
	)

	texts := make([]string, 0, k)
	for _, documentID := range parentIDs {
		if len(texts) == k {
			break
		}

		parents, err := e.vectorStore.Search(ctx, e.parentCollection, queryVector, 1, vectorstore.Filter{DocumentID: documentID})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch parent chunk %s: %w", documentID, err)
		}
		if len(parents) == 0 {
			logger.WarnContext(ctx, "parent chunk missing from index", "document_id", documentID)
			continue
		}
		texts = append(texts, parents[0].Text)
	}

	logger.InfoContext(ctx, "retrieval completed", "doc_type", docType, "parents_returned", len(texts), "k", k)
	return texts, nil
}

// meanScore computes the arithmetic mean of the candidate scores.
func meanScore(candidates []vectorstore.ScoredChunk) float32 {
	var sum float32
	for _, candidate := range candidates {
		sum += candidate.Score
	}
	return sum / float32(len(candidates))
}

// dedupeParentIDs returns the unique parent document ids of the candidates in
// order of first appearance.
func dedupeParentIDs(candidates []vectorstore.ScoredChunk) []string {
	seen := make(map[string]bool, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		id := candidate.Chunk.Meta.DocumentID
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
