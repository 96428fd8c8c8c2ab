package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestDocumentItem struct {
	DocumentId      string `json:"document_id" validate:"required"`
	Title           string `json:"title" validate:"required"`
	Content         string `json:"content"`
	DocketId        string `json:"docket_id"`
	AgencyId        string `json:"agency_id"`
	DocumentType    string `json:"document_type"`
	WebDocumentLink string `json:"web_document_link"`
	WebDocketLink   string `json:"web_docket_link"`
	WebCommentLink  string `json:"web_comment_link"`
	PostedDate      string `json:"posted_date"`
}

type BulkIngestDocumentsRequest struct {
	Documents []IngestDocumentItem `json:"documents" validate:"required,min=1,dive"`
}

type BulkIngestDocumentsResponse struct {
	Ingested int `json:"ingested"`
	Skipped  int `json:"skipped"`
}

type ShowDocumentResponse struct {
	Id              uuid.UUID  `json:"id"`
	DocumentId      string     `json:"document_id"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	DocketId        string     `json:"docket_id"`
	AgencyId        string     `json:"agency_id"`
	DocumentType    string     `json:"document_type"`
	WebDocumentLink string     `json:"web_document_link"`
	WebDocketLink   string     `json:"web_docket_link"`
	WebCommentLink  string     `json:"web_comment_link"`
	PostedDate      string     `json:"posted_date"`
	HasEmbedding    bool       `json:"has_embedding"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}
