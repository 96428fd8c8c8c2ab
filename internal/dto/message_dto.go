package dto

import "github.com/google/uuid"

type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
