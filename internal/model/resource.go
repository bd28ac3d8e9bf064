package model

import (
	"time"

	"github.com/google/uuid"
)

// Resource is one ingested source document for the retrieval pipeline.
// Resources are append-only: created together with their chunks and never
// updated afterwards. Re-ingesting the same text creates a new resource.
type Resource struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	ChunkCount int       `gorm:"not null;default:0" json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}
