package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"navi-be/internal/dto"
	"navi-be/internal/entity"
	"navi-be/internal/pkg/logger"
	"navi-be/internal/repository/specification"
	"navi-be/internal/repository/unitofwork"
	"navi-be/pkg/embedding"
	"navi-be/pkg/textutil"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	chunkWords        int
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	chunkWords int,
	log logger.ILogger,
) IConsumerService {
	if chunkWords <= 0 {
		chunkWords = textutil.DefaultChunkWords
	}
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		chunkWords:        chunkWords,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid payloads would retry forever
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		cs.logger.Error("Consumer", "Failed to load document", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	if doc == nil {
		cs.logger.Warn("Consumer", "Document no longer exists", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
		})
		msg.Ack()
		return
	}

	text := textutil.Normalize(embeddableText(doc))
	if text == "" {
		cs.logger.Warn("Consumer", "Document has no embeddable text", map[string]interface{}{
			"document_id": doc.DocumentId,
		})
		msg.Ack()
		return
	}

	chunks := textutil.ChunkWords(text, cs.chunkWords)
	cs.logger.Info("Consumer", "Embedding document", map[string]interface{}{
		"document_id": doc.DocumentId,
		"chunks":      len(chunks),
	})

	newEmbeddings := make([]*entity.DocumentEmbedding, 0, len(chunks))
	for i, chunk := range chunks {
		vector, err := cs.embeddingProvider.Generate(ctx, chunk)
		if err != nil {
			cs.logger.Error("Consumer", "Failed to embed chunk", map[string]interface{}{
				"document_id": doc.DocumentId,
				"chunk_index": i,
				"error":       err.Error(),
			})
			msg.Nack()
			return
		}
		newEmbeddings = append(newEmbeddings, &entity.DocumentEmbedding{
			Id:             uuid.New(),
			DocumentId:     doc.Id,
			Chunk:          chunk,
			ChunkIndex:     i,
			EmbeddingValue: vector,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("Consumer", "Failed to begin transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.DocumentEmbeddingRepository().Delete(ctx, specification.ByParentDocument{DocumentId: doc.Id}); err != nil {
		cs.logger.Error("Consumer", "Failed to delete old embeddings", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	if err := uow.DocumentEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
		cs.logger.Error("Consumer", "Failed to store embeddings", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	// First chunk covers the opening of the document and doubles as the
	// document-level vector.
	doc.Embedding = newEmbeddings[0].EmbeddingValue
	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		cs.logger.Error("Consumer", "Failed to update document embedding", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("Consumer", "Failed to commit transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	cs.logger.Info("Consumer", "Document embedded", map[string]interface{}{
		"document_id": doc.DocumentId,
		"chunks":      len(newEmbeddings),
	})
	msg.Ack()
}

// embeddableText flattens the metadata the ranking should be sensitive to,
// followed by the body.
func embeddableText(doc *entity.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", doc.Title)
	if doc.AgencyId != "" {
		fmt.Fprintf(&b, "Agency: %s\n", doc.AgencyId)
	}
	if doc.DocumentType != "" {
		fmt.Fprintf(&b, "Document Type: %s\n", doc.DocumentType)
	}
	b.WriteString("\n")
	b.WriteString(doc.Content)
	return b.String()
}
