package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Persona struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name              string
	Role              string
	Location          string
	AgeBracket        string
	EmploymentStatus  string
	Industry          string
	PolicyInterests   datatypes.JSON   `gorm:"type:jsonb"`
	PreferredAgencies datatypes.JSON   `gorm:"type:jsonb"`
	ImpactLevels      datatypes.JSON   `gorm:"type:jsonb"`
	Context           string           `gorm:"type:text"`
	Embedding         *pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text uses 768 dimensions
	CreatedAt         time.Time        `gorm:"autoCreateTime"`
	UpdatedAt         *time.Time       `gorm:"autoUpdateTime"`
}

func (Persona) TableName() string {
	return "personas"
}
