package model

import (
	"time"

	"github.com/google/uuid"
)

type Match struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	PersonaId       uuid.UUID `gorm:"type:uuid;not null;index"`
	DocumentId      string    `gorm:"not null;index"`
	SimilarityScore float64
	RelevanceScore  int
	RelevanceReason string    `gorm:"type:text"`
	ShortSummary    string    `gorm:"type:text"`
	Reasoning       string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (Match) TableName() string {
	return "matches"
}
