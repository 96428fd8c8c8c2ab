package service

import (
	"context"
	"encoding/json"
	"testing"

	"navi-be/internal/dto"
	"navi-be/internal/pkg/logger"
	"navi-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingPublisher struct {
	payloads [][]byte
}

func (p *capturingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

func TestDocumentServiceBulkIngest(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturingPublisher{}
	svc := NewDocumentService(memory.NewRepositoryFactory(store), publisher, logger.NewNopLogger())

	req := &dto.BulkIngestDocumentsRequest{
		Documents: []dto.IngestDocumentItem{
			{DocumentId: "EPA-1", Title: "Emissions Rule", Content: "..."},
			{DocumentId: "DOT-1", Title: "Licensing Rule", Content: "..."},
		},
	}

	res, err := svc.BulkIngest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Ingested)
	assert.Equal(t, 0, res.Skipped)

	// One embedding message per new document
	require.Len(t, publisher.payloads, 2)
	var msg dto.PublishEmbedDocumentMessage
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &msg))
	assert.NotEqual(t, uuid.Nil, msg.DocumentId)

	// Re-ingesting the same ids skips them, no duplicate messages
	res, err = svc.BulkIngest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Ingested)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, publisher.payloads, 2)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, d := range all {
		assert.False(t, d.HasEmbedding, "embedding pass has not run yet")
	}
}

func TestDocumentServicePostedDateRoundTrip(t *testing.T) {
	store := memory.NewStore()
	svc := NewDocumentService(memory.NewRepositoryFactory(store), &capturingPublisher{}, logger.NewNopLogger())

	_, err := svc.BulkIngest(context.Background(), &dto.BulkIngestDocumentsRequest{
		Documents: []dto.IngestDocumentItem{
			{DocumentId: "EPA-1", Title: "A", Content: "...", PostedDate: "2026-01-15T00:00:00Z"},
			{DocumentId: "DOT-1", Title: "B", Content: "...", PostedDate: "2026-02-20"},
			{DocumentId: "FDA-1", Title: "C", Content: "...", PostedDate: "yesterday"},
			{DocumentId: "OSHA-1", Title: "D", Content: "..."},
		},
	})
	require.NoError(t, err)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 4)

	dates := map[string]string{}
	for _, d := range all {
		dates[d.DocumentId] = d.PostedDate
	}
	assert.Equal(t, "2026-01-15T00:00:00Z", dates["EPA-1"])
	assert.Equal(t, "2026-02-20T00:00:00Z", dates["DOT-1"])
	assert.Empty(t, dates["FDA-1"], "unparseable dates are dropped, not fatal")
	assert.Empty(t, dates["OSHA-1"])
}
