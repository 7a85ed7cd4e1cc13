package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// DocumentRepository stores knowledge-base snippets and runs similarity search.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	List(ctx context.Context) ([]domain.Document, error)
	Match(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.DocumentMatch, error)
}

type documentRepository struct {
	db DBTX
}

// NewDocumentRepository builds repository.
func NewDocumentRepository(db DBTX) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	const query = `
        INSERT INTO documents (content, metadata, embedding)
        VALUES ($1, $2, $3::vector)
        RETURNING id, created_at`

	metadata, err := encodeMetadata(doc.Metadata)
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, query,
		doc.Content,
		metadata,
		pgvector.NewVector(doc.Embedding),
	).Scan(&doc.ID, &doc.CreatedAt)
}

// List omits the embedding column.
func (r *documentRepository) List(ctx context.Context) ([]domain.Document, error) {
	const query = `
        SELECT id, content, metadata, created_at
        FROM documents
        ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var (
			doc      domain.Document
			metadata []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Content, &metadata, &doc.CreatedAt); err != nil {
			return nil, err
		}
		if doc.Metadata, err = decodeMetadata(metadata); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Match delegates to the match_documents SQL function (cosine similarity, best first).
func (r *documentRepository) Match(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.DocumentMatch, error) {
	const query = `SELECT id, content, metadata, similarity FROM match_documents($1::vector, $2, $3)`
	rows, err := r.db.Query(ctx, query, pgvector.NewVector(embedding), threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []domain.DocumentMatch{}
	for rows.Next() {
		var (
			m        domain.DocumentMatch
			metadata []byte
		)
		if err := rows.Scan(&m.ID, &m.Content, &metadata, &m.Similarity); err != nil {
			return nil, err
		}
		if m.Metadata, err = decodeMetadata(metadata); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func encodeMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return json.Marshal(metadata)
}

func decodeMetadata(raw []byte) (map[string]any, error) {
	metadata := map[string]any{}
	if len(raw) == 0 {
		return metadata, nil
	}
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return metadata, nil
}
