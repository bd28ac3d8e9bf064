package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// ContentChunk is a bounded-length fragment of a Resource paired 1:1 with its
// embedding vector. Similarity scoring over the embedding column is delegated
// to the pgvector extension, never computed in Go.
type ContentChunk struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ResourceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"resource_id"`
	Position   int             `gorm:"not null" json:"position"`
	Content    string          `gorm:"type:text;not null" json:"content"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
}
