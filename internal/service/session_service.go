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

type ISessionService interface {
	GetAll(ctx context.Context) ([]*dto.SessionResponse, error)
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	Update(ctx context.Context, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewSessionService(uowFactory unitofwork.RepositoryFactory) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
	}
}

func (c *sessionService) GetAll(ctx context.Context) ([]*dto.SessionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.SessionRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		res, err := c.toResponse(ctx, uow, session)
		if err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	return result, nil
}

func (c *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session := entity.Session{
		Id:        uuid.New(),
		Title:     req.Title,
		Status:    entity.SessionStatusCreated,
		CreatedAt: time.Now(),
	}

	if err := uow.SessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	return c.toResponse(ctx, uow, &session)
}

func (c *sessionService) Show(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	return c.toResponse(ctx, uow, session)
}

func (c *sessionService) Update(ctx context.Context, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	session.Title = req.Title
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	return c.toResponse(ctx, uow, session)
}

// Delete removes the session and everything hanging off it.
func (c *sessionService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if session == nil {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.NoteRepository().DeleteAllBySessionId(ctx, id); err != nil {
		return err
	}
	if err := uow.TopicRepository().DeleteAllBySessionId(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().DeleteAllBySessionId(ctx, id); err != nil {
		return err
	}
	if err := uow.SessionRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (c *sessionService) toResponse(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session) (*dto.SessionResponse, error) {
	docCount, err := uow.DocumentRepository().Count(ctx, specification.BySessionID{SessionID: session.Id})
	if err != nil {
		return nil, err
	}
	topicCount, err := uow.TopicRepository().Count(ctx, specification.BySessionID{SessionID: session.Id})
	if err != nil {
		return nil, err
	}
	noteCount, err := uow.NoteRepository().Count(ctx, specification.BySessionID{SessionID: session.Id})
	if err != nil {
		return nil, err
	}

	return &dto.SessionResponse{
		Id:            session.Id,
		Title:         session.Title,
		Status:        session.Status,
		DocumentCount: docCount,
		TopicCount:    topicCount,
		NoteCount:     noteCount,
		CreatedAt:     session.CreatedAt,
	}, nil
}
