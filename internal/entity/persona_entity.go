package entity

import (
	"time"

	"github.com/google/uuid"
)

type Persona struct {
	Id                uuid.UUID
	Name              string
	Role              string
	Location          string
	AgeBracket        string
	EmploymentStatus  string
	Industry          string
	PolicyInterests   []string
	PreferredAgencies []string
	ImpactLevels      []string
	Context           string
	// Set once per save whenever the persona has non-empty content.
	// Dimensionality must match the embedding model used for documents.
	Embedding []float32
	CreatedAt time.Time
	UpdatedAt *time.Time
}
