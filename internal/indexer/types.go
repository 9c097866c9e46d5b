package indexer

// ParentChunk is one page-granularity text unit. Its DocumentID is globally
// unique and immutable; child chunks reference it for the parent/child join.
type ParentChunk struct {
	FileID     string // Groups all chunks from one uploaded document
	DocumentID string // Unique per parent chunk, used for cross-index joins
	DocType    string // User-chosen category
	Text       string // Page content, possibly restructured if table-like
}

// ChildChunk is a sub-page span used for precise similarity matching.
// DocumentID is a back-reference to the owning parent, not an independent
// identity.
type ChildChunk struct {
	FileID     string
	DocumentID string // The owning parent's id
	DocType    string
	Text       string // Sub-span of the parent text
}
