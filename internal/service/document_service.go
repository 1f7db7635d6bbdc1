package service

import (
	"context"
	"time"

	"github.com/reletz/cornelius/internal/dto"
	"github.com/reletz/cornelius/internal/entity"
	"github.com/reletz/cornelius/internal/repository/specification"
	"github.com/reletz/cornelius/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentService interface {
	Add(ctx context.Context, sessionId uuid.UUID, req *dto.AddDocumentRequest) (*dto.DocumentResponse, error)
	GetAll(ctx context.Context, sessionId uuid.UUID) ([]*dto.DocumentResponse, error)
	Delete(ctx context.Context, sessionId, documentId uuid.UUID) error
}

type documentService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory) IDocumentService {
	return &documentService{
		uowFactory: uowFactory,
	}
}

func (c *documentService) Add(ctx context.Context, sessionId uuid.UUID, req *dto.AddDocumentRequest) (*dto.DocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	document := entity.Document{
		Id:          uuid.New(),
		SessionId:   sessionId,
		Filename:    req.Filename,
		ContentText: req.ContentText,
		PageCount:   req.PageCount,
		Status:      entity.DocumentStatusExtracted,
		CreatedAt:   time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}

	return toDocumentResponse(&document), nil
}

func (c *documentService) GetAll(ctx context.Context, sessionId uuid.UUID) ([]*dto.DocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.DocumentResponse, 0, len(documents))
	for _, document := range documents {
		result = append(result, toDocumentResponse(document))
	}
	return result, nil
}

func (c *documentService) Delete(ctx context.Context, sessionId, documentId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.BySessionID{SessionID: sessionId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return fiber.NewError(fiber.StatusNotFound, "Document not found")
	}

	return uow.DocumentRepository().Delete(ctx, documentId)
}

func toDocumentResponse(document *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:        document.Id,
		SessionId: document.SessionId,
		Filename:  document.Filename,
		PageCount: document.PageCount,
		CharCount: len(document.ContentText),
		Status:    document.Status,
		CreatedAt: document.CreatedAt,
	}
}
