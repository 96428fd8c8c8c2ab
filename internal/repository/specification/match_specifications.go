package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByPersonaId struct {
	PersonaId uuid.UUID
}

func (s ByPersonaId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("persona_id = ?", s.PersonaId)
}

// OrderByRelevance sorts matches best-first, breaking score ties by
// similarity.
type OrderByRelevance struct{}

func (s OrderByRelevance) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("relevance_score DESC, similarity_score DESC")
}
