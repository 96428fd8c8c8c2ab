package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"navi-be/internal/dto"
	"navi-be/internal/entity"
	"navi-be/internal/pkg/logger"
	"navi-be/internal/repository/specification"
	"navi-be/internal/repository/unitofwork"
	"navi-be/pkg/matcher"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Broadcaster pushes run events to whoever is listening on the websocket.
type Broadcaster interface {
	Broadcast(payload []byte)
}

type IMatchService interface {
	FindMatches(ctx context.Context, req *dto.FindMatchesRequest) (*dto.FindMatchesResponse, error)
	Stop(ctx context.Context) (*dto.StopMatchingResponse, error)
	Status(ctx context.Context) (*dto.MatchingStatusResponse, error)
	ListMatches(ctx context.Context, personaId uuid.UUID) ([]*dto.MatchResponse, error)
}

type matchService struct {
	uowFactory  unitofwork.RepositoryFactory
	judge       *matcher.Judge
	pipelineCfg matcher.Config
	broadcaster Broadcaster
	logger      logger.ILogger

	mu       sync.Mutex
	starting bool // slot reserved between the in-progress check and pipeline start
	pipeline *matcher.Pipeline
	cancel   context.CancelFunc
}

func NewMatchService(
	uowFactory unitofwork.RepositoryFactory,
	judge *matcher.Judge,
	pipelineCfg matcher.Config,
	broadcaster Broadcaster,
	log logger.ILogger,
) IMatchService {
	return &matchService{
		uowFactory:  uowFactory,
		judge:       judge,
		pipelineCfg: pipelineCfg,
		broadcaster: broadcaster,
		logger:      log,
	}
}

// FindMatches starts a run for the persona and returns as soon as ranking has
// begun. Progress is streamed over the websocket; results land in the matches
// table as they are accepted. Only one run may be active at a time.
func (s *matchService) FindMatches(ctx context.Context, req *dto.FindMatchesRequest) (*dto.FindMatchesResponse, error) {
	// Reserve the slot before loading anything so two concurrent requests
	// can never both pass the in-progress check.
	s.mu.Lock()
	if s.starting {
		s.mu.Unlock()
		return nil, matcher.ErrRunInProgress
	}
	if s.pipeline != nil {
		switch s.pipeline.State() {
		case matcher.StateRanking, matcher.StateJudging:
			s.mu.Unlock()
			return nil, matcher.ErrRunInProgress
		}
	}
	s.starting = true
	s.mu.Unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	persona, err := uow.PersonaRepository().FindOne(ctx, specification.ByID{ID: req.PersonaId})
	if err != nil {
		s.releaseStart()
		return nil, err
	}
	if persona == nil {
		s.releaseStart()
		return nil, fiber.NewError(fiber.StatusNotFound, "persona not found")
	}

	candidates, err := s.loadCandidates(ctx, uow)
	if err != nil {
		s.releaseStart()
		return nil, err
	}

	in := matcher.RunInput{
		PersonaID:   persona.Id.String(),
		ProfileText: matcher.SerializePersona(persona),
		Location:    persona.Location,
		Embedding:   persona.Embedding,
	}

	pipeline := matcher.NewPipeline(s.judge, s.pipelineCfg, s.logger)

	// The run outlives the HTTP request; Stop() is the only way to cancel it.
	runCtx, cancel := context.WithCancel(context.Background())

	events, err := pipeline.Run(runCtx, in, candidates)
	if err != nil {
		cancel()
		s.releaseStart()
		return nil, err
	}

	s.mu.Lock()
	s.pipeline = pipeline
	s.cancel = cancel
	s.starting = false
	s.mu.Unlock()

	go s.consumeEvents(persona.Id, events)

	return &dto.FindMatchesResponse{
		PersonaId: persona.Id,
		State:     string(pipeline.State()),
	}, nil
}

func (s *matchService) releaseStart() {
	s.mu.Lock()
	s.starting = false
	s.mu.Unlock()
}

// loadCandidates builds the in-memory working set the ranker scores: every
// embedded document with its chunk vectors, falling back to the main vector
// for documents embedded before chunking existed.
func (s *matchService) loadCandidates(ctx context.Context, uow unitofwork.UnitOfWork) ([]matcher.CandidateDocument, error) {
	docs, err := uow.DocumentRepository().FindAll(ctx, specification.WithEmbedding{})
	if err != nil {
		return nil, err
	}

	candidates := make([]matcher.CandidateDocument, 0, len(docs))
	for _, doc := range docs {
		chunks, err := uow.DocumentEmbeddingRepository().FindAll(ctx, specification.ByParentDocument{DocumentId: doc.Id})
		if err != nil {
			return nil, err
		}

		var vectors [][]float32
		for _, c := range chunks {
			vectors = append(vectors, c.EmbeddingValue)
		}
		if len(vectors) == 0 {
			vectors = [][]float32{doc.Embedding}
		}

		candidates = append(candidates, matcher.CandidateDocument{
			ID:           doc.DocumentId,
			Title:        doc.Title,
			Agency:       doc.AgencyId,
			DocumentType: doc.DocumentType,
			Content:      doc.Content,
			Vectors:      vectors,
		})
	}
	return candidates, nil
}

// consumeEvents drains the run's event stream: every event goes out over the
// websocket, the old result set is cleared as soon as the run gets past
// ranking, and each accepted match is persisted as it arrives so a stopped
// run keeps its partial results.
func (s *matchService) consumeEvents(personaId uuid.UUID, events <-chan matcher.Event) {
	ctx := context.Background()
	cleared := false

	for ev := range events {
		if payload, err := json.Marshal(ev); err == nil {
			s.broadcaster.Broadcast(payload)
		}

		switch {
		// Each run replaces the persona's result set wholesale. Completed is
		// included for the zero-candidate short-circuit, which never reaches
		// judging but must still clear the previous run's matches. A failed
		// ranking keeps them.
		case ev.Type == matcher.EventState && (ev.State == matcher.StateJudging || ev.State == matcher.StateCompleted):
			if cleared {
				break
			}
			cleared = true
			uow := s.uowFactory.NewUnitOfWork(ctx)
			if err := uow.MatchRepository().Delete(ctx, specification.ByPersonaId{PersonaId: personaId}); err != nil {
				s.logger.Error("MatchService", "Failed to clear previous matches", map[string]interface{}{
					"persona_id": personaId.String(),
					"error":      err.Error(),
				})
			}
		case ev.Type == matcher.EventMatch && ev.Match != nil:
			s.persistMatch(ctx, personaId, ev.Match)
		}
	}

	s.logger.Info("MatchService", "Run finished", map[string]interface{}{
		"persona_id": personaId.String(),
	})
}

func (s *matchService) persistMatch(ctx context.Context, personaId uuid.UUID, m *matcher.Match) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.MatchRepository().Create(ctx, &entity.Match{
		Id:              uuid.New(),
		PersonaId:       personaId,
		DocumentId:      m.DocumentID,
		SimilarityScore: m.Similarity,
		RelevanceScore:  m.Judgment.Score,
		RelevanceReason: m.SimilarityReason,
		ShortSummary:    m.Judgment.ShortSummary,
		Reasoning:       m.Judgment.Reasoning,
		CreatedAt:       time.Now(),
	})
	if err != nil {
		s.logger.Error("MatchService", "Failed to persist match", map[string]interface{}{
			"persona_id":  personaId.String(),
			"document_id": m.DocumentID,
			"error":       err.Error(),
		})
	}
}

// Stop cancels the active run, if any. Judged results already accepted stay.
func (s *matchService) Stop(ctx context.Context) (*dto.StopMatchingResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil || s.pipeline == nil {
		return &dto.StopMatchingResponse{Stopped: false}, nil
	}
	switch s.pipeline.State() {
	case matcher.StateRanking, matcher.StateJudging:
		s.cancel()
		return &dto.StopMatchingResponse{Stopped: true}, nil
	}
	return &dto.StopMatchingResponse{Stopped: false}, nil
}

func (s *matchService) Status(ctx context.Context) (*dto.MatchingStatusResponse, error) {
	s.mu.Lock()
	pipeline := s.pipeline
	s.mu.Unlock()

	if pipeline == nil {
		return &dto.MatchingStatusResponse{State: string(matcher.StateIdle)}, nil
	}
	processed, total := pipeline.Progress()
	return &dto.MatchingStatusResponse{
		State:     string(pipeline.State()),
		Processed: processed,
		Total:     total,
	}, nil
}

func (s *matchService) ListMatches(ctx context.Context, personaId uuid.UUID) ([]*dto.MatchResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	matches, err := uow.MatchRepository().FindAll(ctx,
		specification.ByPersonaId{PersonaId: personaId},
		specification.OrderByRelevance{},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.MatchResponse, len(matches))
	for i, m := range matches {
		out[i] = &dto.MatchResponse{
			Id:              m.Id,
			PersonaId:       m.PersonaId,
			DocumentId:      m.DocumentId,
			SimilarityScore: m.SimilarityScore,
			RelevanceScore:  m.RelevanceScore,
			RelevanceReason: m.RelevanceReason,
			ShortSummary:    m.ShortSummary,
			Reasoning:       m.Reasoning,
			CreatedAt:       m.CreatedAt,
		}
	}
	return out, nil
}
