package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByDocumentId matches on the external regulations.gov identifier,
// not the row's primary key.
type ByDocumentId struct {
	DocumentId string
}

func (s ByDocumentId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentId)
}

type ByAgencyId struct {
	AgencyId string
}

func (s ByAgencyId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("agency_id = ?", s.AgencyId)
}

// WithEmbedding keeps only documents whose main vector has been populated
// by the embedding pass.
type WithEmbedding struct{}

func (s WithEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NOT NULL")
}

type ByParentDocument struct {
	DocumentId uuid.UUID
}

func (s ByParentDocument) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentId).Order("chunk_index ASC")
}
