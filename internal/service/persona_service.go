package service

import (
	"context"
	"time"

	"navi-be/internal/dto"
	"navi-be/internal/entity"
	"navi-be/internal/pkg/logger"
	"navi-be/internal/repository/specification"
	"navi-be/internal/repository/unitofwork"
	"navi-be/pkg/embedding"
	"navi-be/pkg/matcher"
	"navi-be/pkg/textutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPersonaService interface {
	Save(ctx context.Context, req *dto.SavePersonaRequest) (*dto.SavePersonaResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowPersonaResponse, error)
	List(ctx context.Context) ([]*dto.ShowPersonaResponse, error)
}

type personaService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	logger            logger.ILogger
}

func NewPersonaService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	log logger.ILogger,
) IPersonaService {
	return &personaService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

// Save persists the persona and refreshes its profile embedding in one shot.
// The embedding is generated from the serialized profile text, so any field
// change reflects in subsequent match runs.
func (s *personaService) Save(ctx context.Context, req *dto.SavePersonaRequest) (*dto.SavePersonaResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	persona := &entity.Persona{
		Id:        uuid.New(),
		CreatedAt: time.Now(),
	}
	isUpdate := false
	if req.Id != nil {
		existing, err := uow.PersonaRepository().FindOne(ctx, specification.ByID{ID: *req.Id})
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fiber.NewError(fiber.StatusNotFound, "persona not found")
		}
		persona = existing
		isUpdate = true
	}

	persona.Name = req.Name
	persona.Role = req.Role
	persona.Location = req.Location
	persona.AgeBracket = req.AgeBracket
	persona.EmploymentStatus = req.EmploymentStatus
	persona.Industry = req.Industry
	persona.PolicyInterests = req.PolicyInterests
	persona.PreferredAgencies = req.PreferredAgencies
	persona.ImpactLevels = req.ImpactLevels
	persona.Context = req.Context

	profile := textutil.Normalize(matcher.SerializePersona(persona))
	vector, err := s.embeddingProvider.Generate(ctx, profile)
	if err != nil {
		s.logger.Error("PersonaService", "Failed to embed persona profile", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	persona.Embedding = vector

	if isUpdate {
		err = uow.PersonaRepository().Update(ctx, persona)
	} else {
		err = uow.PersonaRepository().Create(ctx, persona)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("PersonaService", "Persona saved", map[string]interface{}{
		"persona_id": persona.Id.String(),
	})
	return &dto.SavePersonaResponse{Id: persona.Id}, nil
}

func (s *personaService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowPersonaResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	persona, err := uow.PersonaRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if persona == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "persona not found")
	}
	return toShowPersonaResponse(persona), nil
}

func (s *personaService) List(ctx context.Context) ([]*dto.ShowPersonaResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	personas, err := uow.PersonaRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ShowPersonaResponse, len(personas))
	for i, p := range personas {
		out[i] = toShowPersonaResponse(p)
	}
	return out, nil
}

func toShowPersonaResponse(p *entity.Persona) *dto.ShowPersonaResponse {
	return &dto.ShowPersonaResponse{
		Id:                p.Id,
		Name:              p.Name,
		Role:              p.Role,
		Location:          p.Location,
		AgeBracket:        p.AgeBracket,
		EmploymentStatus:  p.EmploymentStatus,
		Industry:          p.Industry,
		PolicyInterests:   p.PolicyInterests,
		PreferredAgencies: p.PreferredAgencies,
		ImpactLevels:      p.ImpactLevels,
		Context:           p.Context,
		HasEmbedding:      len(p.Embedding) > 0,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
