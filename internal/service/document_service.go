package service

import (
	"context"
	"encoding/json"
	"time"

	"navi-be/internal/dto"
	"navi-be/internal/entity"
	"navi-be/internal/pkg/logger"
	"navi-be/internal/repository/specification"
	"navi-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentService interface {
	BulkIngest(ctx context.Context, req *dto.BulkIngestDocumentsRequest) (*dto.BulkIngestDocumentsResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	List(ctx context.Context) ([]*dto.ShowDocumentResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

// BulkIngest stores the documents it has not seen before and queues each new
// one for the embedding pass. A document_id already on record is skipped, not
// updated; regulations.gov documents are immutable once posted.
func (s *documentService) BulkIngest(ctx context.Context, req *dto.BulkIngestDocumentsRequest) (*dto.BulkIngestDocumentsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.DocumentRepository()

	res := &dto.BulkIngestDocumentsResponse{}
	for _, item := range req.Documents {
		existing, err := repo.FindOne(ctx, specification.ByDocumentId{DocumentId: item.DocumentId})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			res.Skipped++
			continue
		}

		doc := &entity.Document{
			Id:              uuid.New(),
			DocumentId:      item.DocumentId,
			Title:           item.Title,
			Content:         item.Content,
			DocketId:        item.DocketId,
			AgencyId:        item.AgencyId,
			DocumentType:    item.DocumentType,
			WebDocumentLink: item.WebDocumentLink,
			WebDocketLink:   item.WebDocketLink,
			WebCommentLink:  item.WebCommentLink,
			PostedDate:      parsePostedDate(item.PostedDate),
			CreatedAt:       time.Now(),
		}
		if err := repo.Create(ctx, doc); err != nil {
			return nil, err
		}
		res.Ingested++

		payload, err := json.Marshal(dto.PublishEmbedDocumentMessage{DocumentId: doc.Id})
		if err != nil {
			return nil, err
		}
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Error("DocumentService", "Failed to queue embedding", map[string]interface{}{
				"document_id": doc.DocumentId,
				"error":       err.Error(),
			})
			return nil, err
		}
	}

	s.logger.Info("DocumentService", "Bulk ingest finished", map[string]interface{}{
		"ingested": res.Ingested,
		"skipped":  res.Skipped,
	})
	return res, nil
}

func (s *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "document not found")
	}
	return toShowDocumentResponse(doc), nil
}

func (s *documentService) List(ctx context.Context) ([]*dto.ShowDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ShowDocumentResponse, len(docs))
	for i, d := range docs {
		out[i] = toShowDocumentResponse(d)
	}
	return out, nil
}

// parsePostedDate accepts the timestamp formats the document feed uses.
// An unparseable or empty value stores as no date rather than failing the
// whole batch.
func parsePostedDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func formatPostedDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func toShowDocumentResponse(d *entity.Document) *dto.ShowDocumentResponse {
	return &dto.ShowDocumentResponse{
		Id:              d.Id,
		DocumentId:      d.DocumentId,
		Title:           d.Title,
		Content:         d.Content,
		DocketId:        d.DocketId,
		AgencyId:        d.AgencyId,
		DocumentType:    d.DocumentType,
		WebDocumentLink: d.WebDocumentLink,
		WebDocketLink:   d.WebDocketLink,
		WebCommentLink:  d.WebCommentLink,
		PostedDate:      formatPostedDate(d.PostedDate),
		HasEmbedding:    len(d.Embedding) > 0,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
