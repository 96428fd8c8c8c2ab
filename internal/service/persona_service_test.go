package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"navi-be/internal/dto"
	"navi-be/internal/pkg/logger"
	"navi-be/internal/repository/memory"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	texts []string
	err   error
}

func (s *stubEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	s.texts = append(s.texts, text)
	if s.err != nil {
		return nil, s.err
	}
	return []float32{1, 0, 0}, nil
}

func TestPersonaServiceSave(t *testing.T) {
	store := memory.NewStore()
	embedder := &stubEmbedder{}
	svc := NewPersonaService(memory.NewRepositoryFactory(store), embedder, logger.NewNopLogger())

	res, err := svc.Save(context.Background(), &dto.SavePersonaRequest{
		Name:            "Maria Alvarez",
		Location:        "Texas",
		PolicyInterests: []string{"emissions standards"},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, res.Id)

	// The embedding input is the serialized profile, not raw JSON
	require.Len(t, embedder.texts, 1)
	assert.True(t, strings.HasPrefix(embedder.texts[0], "Name: Maria Alvarez"))
	assert.Contains(t, embedder.texts[0], "Policy Interests: emissions standards")

	shown, err := svc.Show(context.Background(), res.Id)
	require.NoError(t, err)
	assert.Equal(t, "Maria Alvarez", shown.Name)
	assert.True(t, shown.HasEmbedding)
}

func TestPersonaServiceSaveUpdatesAndReembeds(t *testing.T) {
	store := memory.NewStore()
	embedder := &stubEmbedder{}
	svc := NewPersonaService(memory.NewRepositoryFactory(store), embedder, logger.NewNopLogger())

	created, err := svc.Save(context.Background(), &dto.SavePersonaRequest{Name: "Maria Alvarez", Location: "Texas"})
	require.NoError(t, err)

	updated, err := svc.Save(context.Background(), &dto.SavePersonaRequest{
		Id:       &created.Id,
		Name:     "Maria Alvarez",
		Location: "New Mexico",
	})
	require.NoError(t, err)
	assert.Equal(t, created.Id, updated.Id)

	// Both saves embed; the second uses the updated profile
	require.Len(t, embedder.texts, 2)
	assert.Contains(t, embedder.texts[1], "Location: New Mexico")

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "New Mexico", all[0].Location)

	// Unknown id is an error, not an implicit create
	missing := uuid.New()
	_, err = svc.Save(context.Background(), &dto.SavePersonaRequest{Id: &missing, Name: "X"})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestPersonaServiceSaveEmbeddingFailure(t *testing.T) {
	store := memory.NewStore()
	embedder := &stubEmbedder{err: errors.New("endpoint down")}
	svc := NewPersonaService(memory.NewRepositoryFactory(store), embedder, logger.NewNopLogger())

	_, err := svc.Save(context.Background(), &dto.SavePersonaRequest{Name: "Jo"})
	require.Error(t, err)

	// Nothing should be persisted on failure
	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPersonaServiceShowNotFound(t *testing.T) {
	svc := NewPersonaService(memory.NewRepositoryFactory(memory.NewStore()), &stubEmbedder{}, logger.NewNopLogger())

	_, err := svc.Show(context.Background(), uuid.New())
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}
