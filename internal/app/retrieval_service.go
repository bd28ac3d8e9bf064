package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog"

	"propertyhub/internal/ai"
	"propertyhub/internal/chunker"
	"propertyhub/internal/model"
	"propertyhub/internal/repository"
)

const (
	retrievalTopK       = 4
	similarityThreshold = 0.5
)

var (
	ErrNoContent        = errors.New("content produced no usable chunks")
	ErrResourceNotFound = errors.New("resource not found")
)

// EmbeddingClient abstracts the model service used to vectorize text.
type EmbeddingClient interface {
	Embed(ctx context.Context, cfg ai.EmbeddingConfig, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, cfg ai.EmbeddingConfig, texts []string) ([][]float32, error)
}

// ChatClient abstracts the model service used to answer questions.
type ChatClient interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

// ResourceStore persists ingested documents.
type ResourceStore interface {
	Create(resource *model.Resource) error
	GetByID(id uuid.UUID) (*model.Resource, error)
	List(limit int) ([]model.Resource, error)
	UpdateChunkCount(id uuid.UUID, count int) error
}

// ChunkStore persists chunk rows and runs similarity search in the database.
type ChunkStore interface {
	Create(chunk *model.ContentChunk) error
	Search(queryVec []float32, limit int) ([]repository.ScoredChunk, error)
}

type RetrievalService struct {
	resources ResourceStore
	chunks    ChunkStore
	embedder  EmbeddingClient
	chat      ChatClient
	embCfg    ai.EmbeddingConfig
	chatCfg   ai.ChatConfig
	log       zerolog.Logger
}

func NewRetrievalService(
	resources ResourceStore,
	chunks ChunkStore,
	embedder EmbeddingClient,
	chat ChatClient,
	embCfg ai.EmbeddingConfig,
	chatCfg ai.ChatConfig,
	log zerolog.Logger,
) *RetrievalService {
	return &RetrievalService{
		resources: resources,
		chunks:    chunks,
		embedder:  embedder,
		chat:      chat,
		embCfg:    embCfg,
		chatCfg:   chatCfg,
		log:       log.With().Str("service", "retrieval").Logger(),
	}
}

// ChunkFailure records one chunk that could not be embedded or persisted.
type ChunkFailure struct {
	Position int    `json:"position"`
	Error    string `json:"error"`
}

// IngestReport enumerates the outcome of one ingestion, chunk by chunk.
// Ingestion tolerates partial failure: a bad chunk is skipped and reported,
// never rolled back.
type IngestReport struct {
	ResourceID uuid.UUID      `json:"resource_id"`
	Succeeded  int            `json:"succeeded"`
	Failed     []ChunkFailure `json:"failed,omitempty"`
}

// Message renders the report as the human-readable result string the chat
// tool surface expects.
func (r *IngestReport) Message() string {
	total := r.Succeeded + len(r.Failed)
	if len(r.Failed) == 0 {
		return fmt.Sprintf("Resource successfully created and embedded (%d chunks).", total)
	}
	return fmt.Sprintf("Resource created with partial failures: %d of %d chunks embedded.", r.Succeeded, total)
}

// CreateResource ingests a source document: one Resource row, a single
// batched embedding call for all chunks, then a sequential per-chunk persist
// loop. Re-ingesting the same text produces duplicate rows; ingestion is
// append-only by design.
func (s *RetrievalService) CreateResource(ctx context.Context, content string) (*IngestReport, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidInput
	}

	fragments := chunker.Split(content)
	if len(fragments) == 0 {
		return nil, ErrNoContent
	}

	resource := &model.Resource{
		ID:      uuid.New(),
		Content: content,
	}
	if err := s.resources.Create(resource); err != nil {
		return nil, err
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, s.embCfg, fragments)
	if err != nil {
		return nil, fmt.Errorf("embed chunks failed: %w", err)
	}
	if len(embeddings) != len(fragments) {
		return nil, fmt.Errorf("embedding count mismatch: %d texts, %d vectors", len(fragments), len(embeddings))
	}

	report := &IngestReport{ResourceID: resource.ID}
	for i, fragment := range fragments {
		if err := s.checkDimension(embeddings[i]); err != nil {
			s.log.Error().Err(err).
				Str("resource_id", resource.ID.String()).
				Int("position", i).
				Msg("reject chunk embedding")
			report.Failed = append(report.Failed, ChunkFailure{Position: i, Error: err.Error()})
			continue
		}
		chunk := &model.ContentChunk{
			ID:         uuid.New(),
			ResourceID: resource.ID,
			Position:   i,
			Content:    fragment,
			Embedding:  pgvector.NewVector(embeddings[i]),
		}
		if err := s.chunks.Create(chunk); err != nil {
			s.log.Error().Err(err).
				Str("resource_id", resource.ID.String()).
				Int("position", i).
				Msg("persist chunk failed, continuing")
			report.Failed = append(report.Failed, ChunkFailure{Position: i, Error: err.Error()})
			continue
		}
		report.Succeeded++
	}

	if err := s.resources.UpdateChunkCount(resource.ID, report.Succeeded); err != nil {
		s.log.Error().Err(err).Str("resource_id", resource.ID.String()).
			Msg("update chunk count failed")
	}
	return report, nil
}

// ListResources returns the most recently ingested documents.
func (s *RetrievalService) ListResources(ctx context.Context, limit int) ([]model.Resource, error) {
	return s.resources.List(limit)
}

// GetResource returns one ingested document by ID.
func (s *RetrievalService) GetResource(ctx context.Context, id uuid.UUID) (*model.Resource, error) {
	resource, err := s.resources.GetByID(id)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, ErrResourceNotFound
	}
	return resource, nil
}

// FindRelevantContent embeds the question and lets the database rank stored
// chunks by cosine similarity. Only chunks scoring above the threshold come
// back, at most four of them.
func (s *RetrievalService) FindRelevantContent(ctx context.Context, query string) ([]repository.ScoredChunk, error) {
	query = normalizeQuery(query)
	if query == "" {
		return nil, ErrInvalidInput
	}

	queryVec, err := s.embedder.Embed(ctx, s.embCfg, query)
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}
	if err := s.checkDimension(queryVec); err != nil {
		return nil, err
	}

	candidates, err := s.chunks.Search(queryVec, retrievalTopK)
	if err != nil {
		return nil, err
	}

	relevant := make([]repository.ScoredChunk, 0, len(candidates))
	for _, c := range candidates {
		if c.Similarity > similarityThreshold {
			relevant = append(relevant, c)
		}
	}
	return relevant, nil
}

// AskResult is the chatbot answer plus the chunks it was grounded on.
type AskResult struct {
	Answer string                   `json:"answer"`
	Chunks []repository.ScoredChunk `json:"chunks"`
}

// Ask answers an FAQ-style question from the ingested knowledge base.
func (s *RetrievalService) Ask(ctx context.Context, question string) (*AskResult, error) {
	relevant, err := s.FindRelevantContent(ctx, question)
	if err != nil {
		return nil, err
	}
	if len(relevant) == 0 {
		return &AskResult{
			Answer: "Sorry, I don't have enough information to answer that.",
		}, nil
	}

	var contextBlock strings.Builder
	for _, c := range relevant {
		contextBlock.WriteString("\n---\n")
		contextBlock.WriteString(c.Content)
	}
	contextBlock.WriteString("\n---")

	messages := []ai.ChatMessage{
		{
			Role: "system",
			Content: "You are a helpful assistant for a property services platform. " +
				"Answer the user's question based only on the following context. " +
				"If the context does not contain enough information, say so. Do not make up facts.",
		},
		{
			Role:    "user",
			Content: "Context:" + contextBlock.String() + "\n\nQuestion: " + question + "\n\nAnswer:",
		},
	}

	answer, err := s.chat.Complete(ctx, s.chatCfg, messages)
	if err != nil {
		return nil, err
	}
	return &AskResult{
		Answer: strings.TrimSpace(answer),
		Chunks: relevant,
	}, nil
}

// checkDimension rejects vectors that do not match the configured storage
// dimension. Catching the mismatch here gives a readable error instead of a
// failed insert against the vector column.
func (s *RetrievalService) checkDimension(vec []float32) error {
	if s.embCfg.Dimension > 0 && len(vec) != s.embCfg.Dimension {
		return fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vec), s.embCfg.Dimension)
	}
	return nil
}

// normalizeQuery collapses literal escaped-newline sequences, which chat
// front ends tend to leave in pasted questions.
func normalizeQuery(query string) string {
	query = strings.ReplaceAll(query, `\n`, " ")
	return strings.TrimSpace(query)
}
