package rag

const (
	// defaultK is the maximum number of parent texts returned per query.
	defaultK = 5
	// candidatePoolSize is the child-index candidate pool requested before
	// adaptive filtering.
	candidatePoolSize = 30
)
