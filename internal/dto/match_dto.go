package dto

import (
	"time"

	"github.com/google/uuid"
)

type FindMatchesRequest struct {
	PersonaId uuid.UUID `json:"persona_id" validate:"required"`
}

type FindMatchesResponse struct {
	PersonaId uuid.UUID `json:"persona_id"`
	State     string    `json:"state"`
}

type StopMatchingResponse struct {
	Stopped bool `json:"stopped"`
}

type MatchingStatusResponse struct {
	State     string `json:"state"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
}

type MatchResponse struct {
	Id              uuid.UUID `json:"id"`
	PersonaId       uuid.UUID `json:"persona_id"`
	DocumentId      string    `json:"document_id"`
	SimilarityScore float64   `json:"similarity_score"`
	RelevanceScore  int       `json:"relevance_score"`
	RelevanceReason string    `json:"relevance_reason"`
	ShortSummary    string    `json:"short_summary"`
	Reasoning       string    `json:"reasoning"`
	CreatedAt       time.Time `json:"created_at"`
}
