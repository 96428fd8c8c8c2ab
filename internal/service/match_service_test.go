package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"navi-be/internal/dto"
	"navi-be/internal/entity"
	"navi-be/internal/pkg/logger"
	"navi-be/internal/repository/memory"
	"navi-be/internal/repository/unitofwork"
	"navi-be/pkg/llm"
	"navi-be/pkg/matcher"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedJudgeLLM struct {
	mu     sync.Mutex
	scores map[string]int // document title -> relevance score
}

func (p *scriptedJudgeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for title, score := range p.scores {
		if strings.Contains(prompt, "Title: "+title) {
			return fmt.Sprintf("Relevance Score: %d\nShort Summary: about %s\nReasoning: scripted", score, title), nil
		}
	}
	return "", errors.New("unknown document")
}

type collectingBroadcaster struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (b *collectingBroadcaster) Broadcast(payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payloads = append(b.payloads, append([]byte(nil), payload...))
}

func (b *collectingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.payloads)
}

func seedPersona(t *testing.T, factory unitofwork.RepositoryFactory, embedding []float32) uuid.UUID {
	t.Helper()
	p := &entity.Persona{
		Id:        uuid.New(),
		Name:      "Maria Alvarez",
		Location:  "Texas",
		Embedding: embedding,
		CreatedAt: time.Now(),
	}
	uow := factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.PersonaRepository().Create(context.Background(), p))
	return p.Id
}

func seedDocument(t *testing.T, factory unitofwork.RepositoryFactory, documentId, title string, vector []float32) {
	t.Helper()
	ctx := context.Background()
	uow := factory.NewUnitOfWork(ctx)
	doc := &entity.Document{
		Id:         uuid.New(),
		DocumentId: documentId,
		Title:      title,
		Content:    "body",
		Embedding:  vector,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, uow.DocumentRepository().Create(ctx, doc))
	require.NoError(t, uow.DocumentEmbeddingRepository().Create(ctx, &entity.DocumentEmbedding{
		Id:             uuid.New(),
		DocumentId:     doc.Id,
		Chunk:          "body",
		ChunkIndex:     0,
		EmbeddingValue: vector,
		CreatedAt:      time.Now(),
	}))
}

func newTestMatchService(factory unitofwork.RepositoryFactory, scores map[string]int, broadcaster Broadcaster) IMatchService {
	judge := matcher.NewJudge(&scriptedJudgeLLM{scores: scores})
	cfg := matcher.Config{
		TopK:           20,
		ScoreThreshold: 5.0,
		CandidateDelay: 0,
		Concurrency:    1,
	}
	return NewMatchService(factory, judge, cfg, broadcaster, logger.NewNopLogger())
}

func waitForTerminalState(t *testing.T, svc IMatchService) string {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		status, err := svc.Status(context.Background())
		require.NoError(t, err)
		switch status.State {
		case "completed", "stopped", "failed":
			return status.State
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("run did not reach a terminal state")
	return ""
}

func TestMatchServiceFindMatches(t *testing.T) {
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)
	broadcaster := &collectingBroadcaster{}

	personaId := seedPersona(t, factory, []float32{1, 0})
	seedDocument(t, factory, "EPA-1", "Emissions", []float32{1, 0.05})
	seedDocument(t, factory, "DOT-1", "Licensing", []float32{1, 0.2})
	seedDocument(t, factory, "FDA-1", "Labeling", []float32{0.8, 0.3})

	svc := newTestMatchService(factory, map[string]int{
		"Emissions": 9,
		"Licensing": 4, // rejected by threshold
		"Labeling":  7,
	}, broadcaster)

	res, err := svc.FindMatches(context.Background(), &dto.FindMatchesRequest{PersonaId: personaId})
	require.NoError(t, err)
	assert.Equal(t, personaId, res.PersonaId)

	state := waitForTerminalState(t, svc)
	assert.Equal(t, "completed", state)

	// Give the event consumer a moment to finish persisting
	var matches []*dto.MatchResponse
	require.Eventually(t, func() bool {
		matches, err = svc.ListMatches(context.Background(), personaId)
		return err == nil && len(matches) == 2
	}, 5*time.Second, 10*time.Millisecond, "expected 2 persisted matches")

	// Ordered by relevance score, threshold enforced
	assert.Equal(t, "EPA-1", matches[0].DocumentId)
	assert.Equal(t, 9, matches[0].RelevanceScore)
	assert.Equal(t, "FDA-1", matches[1].DocumentId)
	assert.Equal(t, 7, matches[1].RelevanceScore)
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.RelevanceScore, 5)
		assert.NotEmpty(t, m.ShortSummary)
		assert.NotEmpty(t, m.Reasoning)
		assert.NotEmpty(t, m.RelevanceReason)
	}

	// Events went out over the websocket path
	assert.Greater(t, broadcaster.count(), 0)
}

func TestMatchServiceReplacesPreviousResults(t *testing.T) {
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)

	personaId := seedPersona(t, factory, []float32{1, 0})
	seedDocument(t, factory, "EPA-1", "Emissions", []float32{1, 0.05})

	svc := newTestMatchService(factory, map[string]int{"Emissions": 9}, &collectingBroadcaster{})

	_, err := svc.FindMatches(context.Background(), &dto.FindMatchesRequest{PersonaId: personaId})
	require.NoError(t, err)
	waitForTerminalState(t, svc)

	var first []*dto.MatchResponse
	require.Eventually(t, func() bool {
		first, err = svc.ListMatches(context.Background(), personaId)
		return err == nil && len(first) == 1
	}, 5*time.Second, 10*time.Millisecond)

	// Second run replaces, never appends
	_, err = svc.FindMatches(context.Background(), &dto.FindMatchesRequest{PersonaId: personaId})
	require.NoError(t, err)
	waitForTerminalState(t, svc)

	require.Eventually(t, func() bool {
		matches, err := svc.ListMatches(context.Background(), personaId)
		return err == nil && len(matches) == 1 && matches[0].Id != first[0].Id
	}, 5*time.Second, 10*time.Millisecond, "old matches must be replaced")
}

func TestMatchServiceZeroCandidateRunClearsMatches(t *testing.T) {
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)

	personaId := seedPersona(t, factory, []float32{1, 0})

	// Stale result left by an earlier run
	ctx := context.Background()
	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.MatchRepository().Create(ctx, &entity.Match{
		Id:             uuid.New(),
		PersonaId:      personaId,
		DocumentId:     "OLD-1",
		RelevanceScore: 8,
		CreatedAt:      time.Now(),
	}))

	// The only embedded document has a different dimensionality, so ranking
	// yields zero candidates and the run completes without judging
	seedDocument(t, factory, "EPA-1", "Emissions", []float32{1, 0, 0})

	svc := newTestMatchService(factory, nil, &collectingBroadcaster{})

	_, err := svc.FindMatches(ctx, &dto.FindMatchesRequest{PersonaId: personaId})
	require.NoError(t, err)
	assert.Equal(t, "completed", waitForTerminalState(t, svc))

	// Each run replaces the result set wholesale, even an empty one
	require.Eventually(t, func() bool {
		matches, err := svc.ListMatches(ctx, personaId)
		return err == nil && len(matches) == 0
	}, 5*time.Second, 10*time.Millisecond, "stale matches must be cleared")
}

type slowJudgeLLM struct {
	delay time.Duration
}

func (p *slowJudgeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(p.delay):
	}
	return "Relevance Score: 7\nShort Summary: slow\nReasoning: slow", nil
}

func TestMatchServiceConcurrentFindsAdmitOneRun(t *testing.T) {
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)

	personaId := seedPersona(t, factory, []float32{1, 0})
	seedDocument(t, factory, "EPA-1", "Emissions", []float32{1, 0.05})

	judge := matcher.NewJudge(&slowJudgeLLM{delay: 300 * time.Millisecond})
	cfg := matcher.Config{TopK: 20, ScoreThreshold: 5.0, Concurrency: 1}
	svc := NewMatchService(factory, judge, cfg, &collectingBroadcaster{}, logger.NewNopLogger())

	const callers = 8
	var wg sync.WaitGroup
	var started, rejected int32
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.FindMatches(context.Background(), &dto.FindMatchesRequest{PersonaId: personaId})
			switch {
			case err == nil:
				atomic.AddInt32(&started, 1)
			case errors.Is(err, matcher.ErrRunInProgress):
				atomic.AddInt32(&rejected, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&started), "exactly one run may start")
	assert.Equal(t, int32(callers-1), atomic.LoadInt32(&rejected))

	waitForTerminalState(t, svc)
}

func TestMatchServicePreconditions(t *testing.T) {
	t.Run("unknown persona", func(t *testing.T) {
		factory := memory.NewRepositoryFactory(memory.NewStore())
		svc := newTestMatchService(factory, nil, &collectingBroadcaster{})

		_, err := svc.FindMatches(context.Background(), &dto.FindMatchesRequest{PersonaId: uuid.New()})
		var fe *fiber.Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, fiber.StatusNotFound, fe.Code)
	})

	t.Run("persona without embedding", func(t *testing.T) {
		store := memory.NewStore()
		factory := memory.NewRepositoryFactory(store)
		personaId := seedPersona(t, factory, nil)
		seedDocument(t, factory, "EPA-1", "Emissions", []float32{1, 0})

		svc := newTestMatchService(factory, nil, &collectingBroadcaster{})

		_, err := svc.FindMatches(context.Background(), &dto.FindMatchesRequest{PersonaId: personaId})
		var pre *matcher.PreconditionError
		require.ErrorAs(t, err, &pre)
	})

	t.Run("no embedded documents", func(t *testing.T) {
		store := memory.NewStore()
		factory := memory.NewRepositoryFactory(store)
		personaId := seedPersona(t, factory, []float32{1, 0})

		svc := newTestMatchService(factory, nil, &collectingBroadcaster{})

		_, err := svc.FindMatches(context.Background(), &dto.FindMatchesRequest{PersonaId: personaId})
		var pre *matcher.PreconditionError
		require.ErrorAs(t, err, &pre)
	})
}

func TestMatchServiceStopWhenIdle(t *testing.T) {
	factory := memory.NewRepositoryFactory(memory.NewStore())
	svc := newTestMatchService(factory, nil, &collectingBroadcaster{})

	res, err := svc.Stop(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Stopped)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "idle", status.State)
}
