package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertyhub/internal/ai"
	"propertyhub/internal/model"
	"propertyhub/internal/repository"
)

type fakeResourceStore struct {
	created     []*model.Resource
	chunkCounts map[uuid.UUID]int
	createErr   error
}

func (f *fakeResourceStore) Create(resource *model.Resource) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, resource)
	return nil
}

func (f *fakeResourceStore) GetByID(id uuid.UUID) (*model.Resource, error) {
	for _, r := range f.created {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeResourceStore) List(limit int) ([]model.Resource, error) {
	out := make([]model.Resource, 0, len(f.created))
	for _, r := range f.created {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeResourceStore) UpdateChunkCount(id uuid.UUID, count int) error {
	if f.chunkCounts == nil {
		f.chunkCounts = make(map[uuid.UUID]int)
	}
	f.chunkCounts[id] = count
	return nil
}

type fakeChunkStore struct {
	created       []*model.ContentChunk
	failPositions map[int]error
	searchResult  []repository.ScoredChunk
	searchLimit   int
}

func (f *fakeChunkStore) Create(chunk *model.ContentChunk) error {
	if err, ok := f.failPositions[chunk.Position]; ok {
		return err
	}
	f.created = append(f.created, chunk)
	return nil
}

func (f *fakeChunkStore) Search(queryVec []float32, limit int) ([]repository.ScoredChunk, error) {
	f.searchLimit = limit
	if len(f.searchResult) > limit {
		return f.searchResult[:limit], nil
	}
	return f.searchResult, nil
}

type fakeAIClient struct {
	embedCalls      int
	batchCalls      int
	batchSizes      []int
	completeAnswer  string
	completePrompts []ai.ChatMessage
}

func (f *fakeAIClient) Embed(_ context.Context, _ ai.EmbeddingConfig, text string) ([]float32, error) {
	f.embedCalls++
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeAIClient) EmbedBatch(_ context.Context, _ ai.EmbeddingConfig, texts []string) ([][]float32, error) {
	f.batchCalls++
	f.batchSizes = append(f.batchSizes, len(texts))
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), 1, 2}
	}
	return out, nil
}

func (f *fakeAIClient) Complete(_ context.Context, _ ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	f.completePrompts = messages
	return f.completeAnswer, nil
}

func newTestRetrievalService(resources *fakeResourceStore, chunks *fakeChunkStore, client *fakeAIClient) *RetrievalService {
	return NewRetrievalService(resources, chunks, client, client,
		ai.EmbeddingConfig{}, ai.ChatConfig{}, zerolog.Nop())
}

const ingestDoc = "# About us\n\n" +
	"We are a national quick-sale property buyer operating since 2009.\n\n" +
	"# Timescales\n\n" +
	"Most completions happen within twenty-one days of the first valuation."

func TestCreateResourceBatchesEmbeddings(t *testing.T) {
	resources := &fakeResourceStore{}
	chunks := &fakeChunkStore{}
	client := &fakeAIClient{}
	svc := newTestRetrievalService(resources, chunks, client)

	report, err := svc.CreateResource(context.Background(), ingestDoc)
	require.NoError(t, err)

	assert.Equal(t, 1, client.batchCalls, "all chunks embed in one request")
	assert.Equal(t, 0, client.embedCalls)
	require.Len(t, resources.created, 1)
	assert.Equal(t, report.Succeeded, len(chunks.created))
	assert.Empty(t, report.Failed)
	assert.Equal(t, report.Succeeded, resources.chunkCounts[report.ResourceID])

	for i, chunk := range chunks.created {
		assert.Equal(t, i, chunk.Position)
		assert.Equal(t, report.ResourceID, chunk.ResourceID)
	}
}

func TestCreateResourceContinuesPastChunkFailures(t *testing.T) {
	resources := &fakeResourceStore{}
	chunks := &fakeChunkStore{
		failPositions: map[int]error{0: errors.New("insert failed")},
	}
	client := &fakeAIClient{}
	svc := newTestRetrievalService(resources, chunks, client)

	report, err := svc.CreateResource(context.Background(), ingestDoc)
	require.NoError(t, err, "a failed chunk never fails the ingestion")

	require.Len(t, report.Failed, 1)
	assert.Equal(t, 0, report.Failed[0].Position)
	assert.Equal(t, 1, report.Succeeded)
	assert.Contains(t, report.Message(), "partial failures")
	assert.Equal(t, 1, resources.chunkCounts[report.ResourceID],
		"chunk count reflects only persisted chunks")
}

func TestCreateResourceRejectsEmptyInput(t *testing.T) {
	svc := newTestRetrievalService(&fakeResourceStore{}, &fakeChunkStore{}, &fakeAIClient{})

	_, err := svc.CreateResource(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateResource(context.Background(), "too short")
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestCreateResourceRejectsWrongDimension(t *testing.T) {
	resources := &fakeResourceStore{}
	chunks := &fakeChunkStore{}
	client := &fakeAIClient{}
	svc := NewRetrievalService(resources, chunks, client, client,
		ai.EmbeddingConfig{Dimension: 8}, ai.ChatConfig{}, zerolog.Nop())

	report, err := svc.CreateResource(context.Background(), ingestDoc)
	require.NoError(t, err)

	assert.Zero(t, report.Succeeded)
	require.NotEmpty(t, report.Failed)
	assert.Contains(t, report.Failed[0].Error, "dimension mismatch")
	assert.Empty(t, chunks.created, "mismatched vectors never reach the store")
}

func TestFindRelevantContentChecksDimension(t *testing.T) {
	client := &fakeAIClient{}
	svc := NewRetrievalService(&fakeResourceStore{}, &fakeChunkStore{}, client, client,
		ai.EmbeddingConfig{Dimension: 8}, ai.ChatConfig{}, zerolog.Nop())

	_, err := svc.FindRelevantContent(context.Background(), "anything at all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestGetResourceNotFound(t *testing.T) {
	svc := newTestRetrievalService(&fakeResourceStore{}, &fakeChunkStore{}, &fakeAIClient{})
	_, err := svc.GetResource(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestFindRelevantContentFiltersByThreshold(t *testing.T) {
	chunks := &fakeChunkStore{
		searchResult: []repository.ScoredChunk{
			{Content: "very relevant", Similarity: 0.92},
			{Content: "somewhat relevant", Similarity: 0.61},
			{Content: "borderline", Similarity: 0.5},
			{Content: "noise", Similarity: 0.12},
		},
	}
	svc := newTestRetrievalService(&fakeResourceStore{}, chunks, &fakeAIClient{})

	relevant, err := svc.FindRelevantContent(context.Background(), "how fast do you buy?")
	require.NoError(t, err)

	assert.Equal(t, retrievalTopK, chunks.searchLimit, "database is asked for the top four only")
	require.Len(t, relevant, 2, "scores at or below the threshold drop out")
	assert.Equal(t, "very relevant", relevant[0].Content)
	assert.Equal(t, "somewhat relevant", relevant[1].Content)
}

func TestFindRelevantContentNormalizesQuery(t *testing.T) {
	svc := newTestRetrievalService(&fakeResourceStore{}, &fakeChunkStore{}, &fakeAIClient{})

	_, err := svc.FindRelevantContent(context.Background(), `\n  \n`)
	assert.ErrorIs(t, err, ErrInvalidInput, "escaped newlines alone are not a query")
}

func TestAskWithoutRelevantContent(t *testing.T) {
	client := &fakeAIClient{completeAnswer: "should not be used"}
	svc := newTestRetrievalService(&fakeResourceStore{}, &fakeChunkStore{}, client)

	result, err := svc.Ask(context.Background(), "something off topic")
	require.NoError(t, err)
	assert.Contains(t, result.Answer, "don't have enough information")
	assert.Nil(t, client.completePrompts, "no model call without grounding context")
}

func TestAskGroundsAnswerOnChunks(t *testing.T) {
	chunks := &fakeChunkStore{
		searchResult: []repository.ScoredChunk{
			{Content: "Completions take about three weeks.", Similarity: 0.9},
		},
	}
	client := &fakeAIClient{completeAnswer: " About three weeks. "}
	svc := newTestRetrievalService(&fakeResourceStore{}, chunks, client)

	result, err := svc.Ask(context.Background(), "How long does a sale take?")
	require.NoError(t, err)

	assert.Equal(t, "About three weeks.", result.Answer)
	require.Len(t, result.Chunks, 1)
	require.Len(t, client.completePrompts, 2)
	assert.Equal(t, "system", client.completePrompts[0].Role)
	assert.True(t, strings.Contains(client.completePrompts[1].Content, "Completions take about three weeks."))
	assert.True(t, strings.Contains(client.completePrompts[1].Content, "How long does a sale take?"))
}
