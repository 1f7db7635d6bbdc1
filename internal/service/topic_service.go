package service

import (
	"context"

	"github.com/reletz/cornelius/internal/dto"
	"github.com/reletz/cornelius/internal/entity"
	"github.com/reletz/cornelius/internal/repository/specification"
	"github.com/reletz/cornelius/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITopicService interface {
	GetAll(ctx context.Context, sessionId uuid.UUID) ([]*dto.TopicResponse, error)
	Update(ctx context.Context, req *dto.UpdateTopicRequest) (*dto.TopicResponse, error)
	Merge(ctx context.Context, sessionId uuid.UUID, req *dto.MergeTopicsRequest) (*dto.TopicResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type topicService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewTopicService(uowFactory unitofwork.RepositoryFactory) ITopicService {
	return &topicService{
		uowFactory: uowFactory,
	}
}

func (c *topicService) GetAll(ctx context.Context, sessionId uuid.UUID) ([]*dto.TopicResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	topics, err := uow.TopicRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderByOrderIndex{},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.TopicResponse, 0, len(topics))
	for _, topic := range topics {
		res := toTopicResponse(topic)
		result = append(result, &res)
	}
	return result, nil
}

func (c *topicService) Update(ctx context.Context, req *dto.UpdateTopicRequest) (*dto.TopicResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	topic, err := uow.TopicRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Topic not found")
	}

	topic.Title = req.Title
	if req.Keywords != nil {
		topic.Keywords = req.Keywords
	}
	if req.Sources != nil {
		topic.Sources = req.Sources
	}
	if req.Summary != "" {
		topic.Summary = req.Summary
	}

	if err := uow.TopicRepository().Update(ctx, topic); err != nil {
		return nil, err
	}

	res := toTopicResponse(topic)
	return &res, nil
}

// Merge folds several topics into one: keywords are deduplicated, source
// mappings concatenated, word counts summed, and the merged topic takes the
// earliest order index. Notes of the merged-away topics are dropped.
func (c *topicService) Merge(ctx context.Context, sessionId uuid.UUID, req *dto.MergeTopicsRequest) (*dto.TopicResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	topics, err := uow.TopicRepository().FindAll(ctx,
		specification.ByIDs{IDs: req.TopicIds},
		specification.BySessionID{SessionID: sessionId},
		specification.OrderByOrderIndex{},
	)
	if err != nil {
		return nil, err
	}
	if len(topics) != len(req.TopicIds) {
		return nil, fiber.NewError(fiber.StatusNotFound, "One or more topics not found in session")
	}

	merged := &entity.Topic{
		Id:         uuid.New(),
		SessionId:  sessionId,
		Title:      req.Title,
		OrderIndex: topics[0].OrderIndex,
		CreatedAt:  topics[0].CreatedAt,
	}

	seenKeywords := make(map[string]struct{})
	seenConcepts := make(map[string]struct{})
	for _, t := range topics {
		for _, kw := range t.Keywords {
			if _, ok := seenKeywords[kw]; !ok {
				seenKeywords[kw] = struct{}{}
				merged.Keywords = append(merged.Keywords, kw)
			}
		}
		for _, uc := range t.UniqueConcepts {
			if _, ok := seenConcepts[uc]; !ok {
				seenConcepts[uc] = struct{}{}
				merged.UniqueConcepts = append(merged.UniqueConcepts, uc)
			}
		}
		merged.Sources = append(merged.Sources, t.Sources...)
		merged.EstimatedWordCount += t.EstimatedWordCount
		if t.OrderIndex < merged.OrderIndex {
			merged.OrderIndex = t.OrderIndex
		}
		if merged.Summary == "" {
			merged.Summary = t.Summary
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	for _, t := range topics {
		note, err := uow.NoteRepository().FindOne(ctx, specification.ByTopicID{TopicID: t.Id})
		if err != nil {
			return nil, err
		}
		if note != nil {
			if err := uow.NoteRepository().Delete(ctx, note.Id); err != nil {
				return nil, err
			}
		}
		if err := uow.TopicRepository().Delete(ctx, t.Id); err != nil {
			return nil, err
		}
	}

	if err := uow.TopicRepository().Create(ctx, merged); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	res := toTopicResponse(merged)
	return &res, nil
}

func (c *topicService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	topic, err := uow.TopicRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if topic == nil {
		return fiber.NewError(fiber.StatusNotFound, "Topic not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByTopicID{TopicID: id})
	if err != nil {
		return err
	}
	if note != nil {
		if err := uow.NoteRepository().Delete(ctx, note.Id); err != nil {
			return err
		}
	}
	if err := uow.TopicRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func toTopicResponse(topic *entity.Topic) dto.TopicResponse {
	return dto.TopicResponse{
		Id:                 topic.Id,
		SessionId:          topic.SessionId,
		Title:              topic.Title,
		Keywords:           topic.Keywords,
		Sources:            topic.Sources,
		UniqueConcepts:     topic.UniqueConcepts,
		Summary:            topic.Summary,
		EstimatedWordCount: topic.EstimatedWordCount,
		OrderIndex:         topic.OrderIndex,
		CreatedAt:          topic.CreatedAt,
	}
}
