package mapper

import (
	"encoding/json"

	"navi-be/internal/entity"
	"navi-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type PersonaMapper struct{}

func NewPersonaMapper() *PersonaMapper {
	return &PersonaMapper{}
}

func (m *PersonaMapper) ToEntity(p *model.Persona) *entity.Persona {
	if p == nil {
		return nil
	}

	var embedding []float32
	if p.Embedding != nil {
		embedding = p.Embedding.Slice()
	}

	return &entity.Persona{
		Id:                p.Id,
		Name:              p.Name,
		Role:              p.Role,
		Location:          p.Location,
		AgeBracket:        p.AgeBracket,
		EmploymentStatus:  p.EmploymentStatus,
		Industry:          p.Industry,
		PolicyInterests:   jsonToStrings(p.PolicyInterests),
		PreferredAgencies: jsonToStrings(p.PreferredAgencies),
		ImpactLevels:      jsonToStrings(p.ImpactLevels),
		Context:           p.Context,
		Embedding:         embedding,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (m *PersonaMapper) ToModel(p *entity.Persona) *model.Persona {
	if p == nil {
		return nil
	}

	var embedding *pgvector.Vector
	if len(p.Embedding) > 0 {
		v := pgvector.NewVector(p.Embedding)
		embedding = &v
	}

	return &model.Persona{
		Id:                p.Id,
		Name:              p.Name,
		Role:              p.Role,
		Location:          p.Location,
		AgeBracket:        p.AgeBracket,
		EmploymentStatus:  p.EmploymentStatus,
		Industry:          p.Industry,
		PolicyInterests:   stringsToJSON(p.PolicyInterests),
		PreferredAgencies: stringsToJSON(p.PreferredAgencies),
		ImpactLevels:      stringsToJSON(p.ImpactLevels),
		Context:           p.Context,
		Embedding:         embedding,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func jsonToStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func stringsToJSON(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}
