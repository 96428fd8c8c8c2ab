package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Document struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentId      string    `gorm:"uniqueIndex;not null"` // regulations.gov identifier
	Title           string    `gorm:"type:text"`
	Content         string    `gorm:"type:text"`
	DocketId        string
	AgencyId        string `gorm:"index"`
	DocumentType    string
	WebDocumentLink string
	WebDocketLink   string
	WebCommentLink  string
	PostedDate      *time.Time
	// Main vector, populated by the embedding pass (copy of chunk 0)
	Embedding *pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt time.Time        `gorm:"autoCreateTime"`
	UpdatedAt *time.Time       `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
