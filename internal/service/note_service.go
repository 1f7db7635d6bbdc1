package service

import (
	"context"

	"github.com/reletz/cornelius/internal/dto"
	"github.com/reletz/cornelius/internal/entity"
	"github.com/reletz/cornelius/internal/repository/specification"
	"github.com/reletz/cornelius/internal/repository/unitofwork"
	"github.com/reletz/cornelius/pkg/notes"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteService interface {
	GetBySession(ctx context.Context, sessionId uuid.UUID) ([]*dto.NoteResponse, error)
	GetByTopic(ctx context.Context, topicId uuid.UUID) (*dto.NoteResponse, error)
	Format(req *dto.FormatNoteRequest) *dto.FormatNoteResponse
	Validate(req *dto.ValidateNoteRequest) *dto.ValidateNoteResponse
}

type noteService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewNoteService(uowFactory unitofwork.RepositoryFactory) INoteService {
	return &noteService{
		uowFactory: uowFactory,
	}
}

// GetBySession lists the session's notes in topic order.
func (c *noteService) GetBySession(ctx context.Context, sessionId uuid.UUID) ([]*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	topics, err := uow.TopicRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderByOrderIndex{},
	)
	if err != nil {
		return nil, err
	}

	found, err := uow.NoteRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
	)
	if err != nil {
		return nil, err
	}

	byTopic := make(map[uuid.UUID]*entity.Note, len(found))
	for _, note := range found {
		byTopic[note.TopicId] = note
	}

	result := make([]*dto.NoteResponse, 0, len(found))
	for _, topic := range topics {
		if note, ok := byTopic[topic.Id]; ok {
			result = append(result, toNoteResponse(note))
		}
	}
	return result, nil
}

func (c *noteService) GetByTopic(ctx context.Context, topicId uuid.UUID) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByTopicID{TopicID: topicId})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Note not found for topic")
	}

	return toNoteResponse(note), nil
}

// Format runs the deterministic Cornell formatter on arbitrary markdown.
func (c *noteService) Format(req *dto.FormatNoteRequest) *dto.FormatNoteResponse {
	return &dto.FormatNoteResponse{
		Formatted: notes.FormatNote(req.Markdown),
	}
}

// Validate checks markdown structure without mutating it.
func (c *noteService) Validate(req *dto.ValidateNoteRequest) *dto.ValidateNoteResponse {
	res := notes.ValidateFormat(req.Markdown)
	return &dto.ValidateNoteResponse{
		Valid:  res.Valid,
		Issues: res.Issues,
	}
}

func toNoteResponse(note *entity.Note) *dto.NoteResponse {
	validation := notes.ValidateFormat(note.Content)
	updatedAt := note.CreatedAt
	if note.UpdatedAt != nil {
		updatedAt = *note.UpdatedAt
	}
	return &dto.NoteResponse{
		Id:               note.Id,
		TopicId:          note.TopicId,
		SessionId:        note.SessionId,
		Content:          note.Content,
		UsedCustomPrompt: note.UsedCustomPrompt,
		Valid:            validation.Valid,
		Issues:           validation.Issues,
		UpdatedAt:        updatedAt,
	}
}
