package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id              uuid.UUID
	DocumentId      string // regulations.gov identifier, unique
	Title           string
	Content         string
	DocketId        string
	AgencyId        string
	DocumentType    string
	WebDocumentLink string
	WebDocketLink   string
	WebCommentLink  string
	PostedDate      *time.Time
	// Main vector; equals the first chunk's vector once the embedding
	// pass has run. Nil until then.
	Embedding []float32
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// DocumentEmbedding holds one chunk's vector. ChunkIndex orders chunks;
// index 0 doubles as the document's main embedding.
type DocumentEmbedding struct {
	Id             uuid.UUID
	DocumentId     uuid.UUID
	Chunk          string
	ChunkIndex     int
	EmbeddingValue []float32
	CreatedAt      time.Time
}
