package domain

import "time"

// EmbeddingDimensions is the fixed vector width of the embedding model and the documents table.
const EmbeddingDimensions = 768

// Document is a knowledge-base snippet used as suggestion context.
type Document struct {
	ID        int64
	Content   string
	Metadata  map[string]any
	Embedding []float32
	CreatedAt time.Time
}

// DocumentMatch is a document returned by similarity search.
type DocumentMatch struct {
	ID         int64
	Content    string
	Metadata   map[string]any
	Similarity float64
}
