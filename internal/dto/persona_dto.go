package dto

import (
	"time"

	"github.com/google/uuid"
)

type SavePersonaRequest struct {
	Id                *uuid.UUID `json:"id"` // set to update an existing persona
	Name              string     `json:"name" validate:"required"`
	Role              string     `json:"role"`
	Location          string     `json:"location"`
	AgeBracket        string     `json:"age_bracket"`
	EmploymentStatus  string     `json:"employment_status"`
	Industry          string     `json:"industry"`
	PolicyInterests   []string   `json:"policy_interests"`
	PreferredAgencies []string   `json:"preferred_agencies"`
	ImpactLevels      []string   `json:"impact_levels"`
	Context           string     `json:"context"`
}

type SavePersonaResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowPersonaResponse struct {
	Id                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Role              string     `json:"role"`
	Location          string     `json:"location"`
	AgeBracket        string     `json:"age_bracket"`
	EmploymentStatus  string     `json:"employment_status"`
	Industry          string     `json:"industry"`
	PolicyInterests   []string   `json:"policy_interests"`
	PreferredAgencies []string   `json:"preferred_agencies"`
	ImpactLevels      []string   `json:"impact_levels"`
	Context           string     `json:"context"`
	HasEmbedding      bool       `json:"has_embedding"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}
