package entity

import (
	"time"

	"github.com/google/uuid"
)

// Match pairs one persona with one document that passed the relevance
// threshold. The whole set for a persona is replaced on each new run.
type Match struct {
	Id              uuid.UUID
	PersonaId       uuid.UUID
	DocumentId      string
	SimilarityScore float64
	RelevanceScore  int
	RelevanceReason string // human-readable similarity explanation
	ShortSummary    string
	Reasoning       string
	CreatedAt       time.Time
}
