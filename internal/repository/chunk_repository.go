package repository

import (
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"propertyhub/internal/model"
)

type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) Create(chunk *model.ContentChunk) error {
	if err := r.db.Create(chunk).Error; err != nil {
		return fmt.Errorf("create content chunk failed: %w", err)
	}
	return nil
}

// ScoredChunk is a chunk row plus its cosine similarity to a query vector.
type ScoredChunk struct {
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// Search returns the chunks nearest to the query vector, most similar first.
// Similarity is 1 - cosine distance, computed entirely inside Postgres by the
// pgvector extension.
func (r *ChunkRepository) Search(queryVec []float32, limit int) ([]ScoredChunk, error) {
	if len(queryVec) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}
	if limit <= 0 {
		limit = 4
	}

	vec := pgvector.NewVector(queryVec)
	var results []ScoredChunk
	err := r.db.Raw(`
		SELECT content, 1 - (embedding <=> ?) AS similarity
		FROM content_chunks
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> ?
		LIMIT ?`, vec, vec, limit).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	return results, nil
}
