package mapper

import (
	"navi-be/internal/entity"
	"navi-be/internal/model"
)

type MatchMapper struct{}

func NewMatchMapper() *MatchMapper {
	return &MatchMapper{}
}

func (m *MatchMapper) ToEntity(e *model.Match) *entity.Match {
	if e == nil {
		return nil
	}
	return &entity.Match{
		Id:              e.Id,
		PersonaId:       e.PersonaId,
		DocumentId:      e.DocumentId,
		SimilarityScore: e.SimilarityScore,
		RelevanceScore:  e.RelevanceScore,
		RelevanceReason: e.RelevanceReason,
		ShortSummary:    e.ShortSummary,
		Reasoning:       e.Reasoning,
		CreatedAt:       e.CreatedAt,
	}
}

func (m *MatchMapper) ToModel(e *entity.Match) *model.Match {
	if e == nil {
		return nil
	}
	return &model.Match{
		Id:              e.Id,
		PersonaId:       e.PersonaId,
		DocumentId:      e.DocumentId,
		SimilarityScore: e.SimilarityScore,
		RelevanceScore:  e.RelevanceScore,
		RelevanceReason: e.RelevanceReason,
		ShortSummary:    e.ShortSummary,
		Reasoning:       e.Reasoning,
		CreatedAt:       e.CreatedAt,
	}
}

func (m *MatchMapper) ToEntities(matches []*model.Match) []*entity.Match {
	entities := make([]*entity.Match, len(matches))
	for i, e := range matches {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *MatchMapper) ToModels(matches []*entity.Match) []*model.Match {
	models := make([]*model.Match, len(matches))
	for i, e := range matches {
		models[i] = m.ToModel(e)
	}
	return models
}
