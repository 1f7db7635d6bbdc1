package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/reletz/cornelius/internal/dto"
	"github.com/reletz/cornelius/internal/entity"
	"github.com/reletz/cornelius/internal/pkg/logger"
	"github.com/reletz/cornelius/internal/repository/memory"
	"github.com/reletz/cornelius/internal/repository/specification"
	"github.com/reletz/cornelius/internal/repository/unitofwork"
	"github.com/reletz/cornelius/pkg/events"
	"github.com/reletz/cornelius/pkg/llm"
	"github.com/reletz/cornelius/pkg/notes"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGenerationService interface {
	// StartGeneration kicks off sequential note generation for the session
	// in the background and returns a task id for polling.
	StartGeneration(ctx context.Context, sessionId uuid.UUID, apiKey string, req *dto.GenerateRequest) (*dto.GenerateResponse, error)

	// RegenerateTopic re-runs generation for a single topic. Any chunks
	// still arriving from a previous run are discarded.
	RegenerateTopic(ctx context.Context, topicId uuid.UUID, apiKey string, prompt dto.PromptConfig) (*dto.GenerateResponse, error)

	GetTaskStatus(taskId uuid.UUID) (*dto.TaskStatusResponse, error)
	GetTopicStatuses(ctx context.Context, sessionId uuid.UUID) ([]dto.TopicStatusResponse, error)

	// ValidateKey checks the credential against the provider without
	// storing it.
	ValidateKey(ctx context.Context, apiKey string) *dto.ValidateKeyResponse
}

type generationService struct {
	uowFactory    unitofwork.RepositoryFactory
	statusRepo    *memory.GenerationStatusRepository
	providerCache ProviderSource
	publisher     IPublisherService
	logger        logger.ILogger
	topicDelay    time.Duration
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	statusRepo *memory.GenerationStatusRepository,
	providerCache ProviderSource,
	publisher IPublisherService,
	log logger.ILogger,
	topicDelay time.Duration,
) IGenerationService {
	return &generationService{
		uowFactory:    uowFactory,
		statusRepo:    statusRepo,
		providerCache: providerCache,
		publisher:     publisher,
		logger:        log,
		topicDelay:    topicDelay,
	}
}

func (c *generationService) StartGeneration(ctx context.Context, sessionId uuid.UUID, apiKey string, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	// Everything that can fail fast must fail before any topic is touched.
	provider, err := c.providerCache.Provider(apiKey, "")
	if err != nil {
		return nil, err
	}

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.Filter("status", entity.DocumentStatusExtracted),
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Session has no documents")
	}

	allTopics, err := uow.TopicRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderByOrderIndex{},
	)
	if err != nil {
		return nil, err
	}

	topics := selectTopics(allTopics, req.TopicIds)
	if len(topics) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No topics to generate; analyze the session first")
	}

	session.Status = entity.SessionStatusGenerating
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	task := &memory.TaskStatus{
		TaskId:    uuid.New(),
		SessionId: sessionId,
		Running:   true,
		TopicIds:  topicIds(topics),
	}
	c.statusRepo.SaveTask(task)

	attempts := make(map[uuid.UUID]int64, len(topics))
	for _, t := range topics {
		attempts[t.Id] = c.statusRepo.NextAttempt(t.Id)
	}

	go c.runGeneration(task, provider, session.Id, topics, allTopics, documents, req.Prompt, attempts)

	return &dto.GenerateResponse{
		TaskId:   task.TaskId,
		TopicIds: task.TopicIds,
	}, nil
}

func (c *generationService) RegenerateTopic(ctx context.Context, topicId uuid.UUID, apiKey string, prompt dto.PromptConfig) (*dto.GenerateResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	topic, err := uow.TopicRepository().FindOne(ctx, specification.ByID{ID: topicId})
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Topic not found")
	}

	provider, err := c.providerCache.Provider(apiKey, "")
	if err != nil {
		return nil, err
	}

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.BySessionID{SessionID: topic.SessionId},
		specification.Filter("status", entity.DocumentStatusExtracted),
	)
	if err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Session has no documents")
	}

	siblings, err := uow.TopicRepository().FindAll(ctx,
		specification.BySessionID{SessionID: topic.SessionId},
		specification.OrderByOrderIndex{},
	)
	if err != nil {
		return nil, err
	}

	task := &memory.TaskStatus{
		TaskId:    uuid.New(),
		SessionId: topic.SessionId,
		Running:   true,
		TopicIds:  []uuid.UUID{topic.Id},
	}
	c.statusRepo.SaveTask(task)

	attempts := map[uuid.UUID]int64{topic.Id: c.statusRepo.NextAttempt(topic.Id)}

	go c.runGeneration(task, provider, topic.SessionId, []*entity.Topic{topic}, siblings, documents, prompt, attempts)

	return &dto.GenerateResponse{
		TaskId:   task.TaskId,
		TopicIds: task.TopicIds,
	}, nil
}

// runGeneration is the sequential pipeline. It owns its own context: the
// HTTP request that started it is long gone.
func (c *generationService) runGeneration(
	task *memory.TaskStatus,
	provider llm.LLMProvider,
	sessionId uuid.UUID,
	topics []*entity.Topic,
	allTopics []*entity.Topic,
	documents []*entity.Document,
	promptCfg dto.PromptConfig,
	attempts map[uuid.UUID]int64,
) {
	ctx := context.Background()

	for i, topic := range topics {
		if i > 0 && c.topicDelay > 0 {
			// Spacing between topics keeps us under provider rate limits.
			time.Sleep(c.topicDelay)
		}
		c.generateTopic(ctx, provider, sessionId, topic, allTopics, documents, promptCfg, attempts[topic.Id])
	}

	task.Running = false
	c.statusRepo.SaveTask(task)

	uow := c.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err == nil && session != nil {
		session.Status = entity.SessionStatusCompleted
		if err := uow.SessionRepository().Update(ctx, session); err != nil {
			c.logger.Error("Generation", "Failed to finalize session status", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
		}
	}

	c.logger.Info("Generation", "Run finished", map[string]interface{}{
		"task_id":     task.TaskId,
		"session_id":  sessionId,
		"topic_count": len(topics),
	})
}

func (c *generationService) generateTopic(
	ctx context.Context,
	provider llm.LLMProvider,
	sessionId uuid.UUID,
	topic *entity.Topic,
	allTopics []*entity.Topic,
	documents []*entity.Document,
	promptCfg dto.PromptConfig,
	attempt int64,
) {
	c.statusRepo.MarkGenerating(topic.Id, attempt)
	c.publishStatus(ctx, sessionId, topic.Id, memory.TopicStatusGenerating, "")

	prompt := c.buildTopicPrompt(topic, allTopics, documents, promptCfg)

	raw, err := provider.ChatStream(ctx,
		[]llm.Message{{Role: "user", Content: prompt}},
		func(chunk string) {
			if c.statusRepo.AppendChunk(topic.Id, attempt, chunk) {
				_ = c.publisher.PublishEvent(ctx, sessionId, events.NewGenerationChunk(sessionId.String(), topic.Id.String(), chunk))
			}
		},
	)
	if err != nil {
		c.failTopic(ctx, sessionId, topic.Id, attempt, err)
		return
	}

	content := notes.Clean(raw)
	if content == "" {
		c.failTopic(ctx, sessionId, topic.Id, attempt, fmt.Errorf("model returned an empty response"))
		return
	}

	customMode := !promptCfg.UseDefault && strings.TrimSpace(promptCfg.CustomPrompt) != ""
	if !customMode {
		content = notes.FormatNote(content)
	}

	// Validation never blocks delivery; issues are logged for diagnosis.
	if validation := notes.ValidateFormat(content); !validation.Valid {
		c.logger.Warn("Generation", "Generated note failed structure validation", map[string]interface{}{
			"topic_id": topic.Id,
			"issues":   validation.Issues,
			"custom":   customMode,
		})
	}

	note := &entity.Note{
		Id:               uuid.New(),
		TopicId:          topic.Id,
		SessionId:        sessionId,
		Content:          content,
		UsedCustomPrompt: customMode,
		CreatedAt:        time.Now(),
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Upsert(ctx, note); err != nil {
		c.failTopic(ctx, sessionId, topic.Id, attempt, err)
		return
	}

	if !c.statusRepo.MarkCompleted(topic.Id, attempt) {
		// A newer attempt took over while we were persisting; it owns the
		// status from here.
		return
	}
	c.publishStatus(ctx, sessionId, topic.Id, memory.TopicStatusCompleted, "")
	_ = c.publisher.PublishEvent(ctx, sessionId, events.NewNoteGenerated(sessionId.String(), topic.Id.String(), note.Id.String()))
}

func (c *generationService) failTopic(ctx context.Context, sessionId, topicId uuid.UUID, attempt int64, err error) {
	if !c.statusRepo.MarkFailed(topicId, attempt, err.Error()) {
		return
	}
	c.logger.Error("Generation", "Topic generation failed", map[string]interface{}{
		"topic_id": topicId,
		"error":    err.Error(),
	})
	c.publishStatus(ctx, sessionId, topicId, memory.TopicStatusFailed, err.Error())
}

func (c *generationService) publishStatus(ctx context.Context, sessionId, topicId uuid.UUID, status, errMsg string) {
	_ = c.publisher.PublishEvent(ctx, sessionId, events.NewTopicStatusChanged(sessionId.String(), topicId.String(), status, errMsg))
}

func (c *generationService) buildTopicPrompt(
	topic *entity.Topic,
	allTopics []*entity.Topic,
	documents []*entity.Document,
	promptCfg dto.PromptConfig,
) string {
	siblings := make([]notes.SiblingTopic, 0, len(allTopics))
	for _, t := range allTopics {
		if t.Id == topic.Id {
			continue
		}
		siblings = append(siblings, notes.SiblingTopic{
			Title:          t.Title,
			Keywords:       t.Keywords,
			Summary:        t.Summary,
			UniqueConcepts: t.UniqueConcepts,
		})
	}

	options := notes.PromptOptions{
		UseDefault:   promptCfg.UseDefault || strings.TrimSpace(promptCfg.CustomPrompt) == "",
		Language:     promptCfg.Language,
		Depth:        promptCfg.Depth,
		CustomPrompt: promptCfg.CustomPrompt,
	}
	if options.Language == "" {
		options.Language = "en"
	}
	if options.Depth == "" {
		options.Depth = "balanced"
	}

	return notes.BuildPrompt(notes.PromptInput{
		TopicTitle: topic.Title,
		SourceText: c.sourceTextForTopic(topic, documents),
		Options:    options,
		Siblings:   siblings,
	})
}

// sourceTextForTopic joins the documents the topic's source mapping points
// at. An empty or unmatched mapping falls back to every document so a
// mapping glitch never produces an empty prompt.
func (c *generationService) sourceTextForTopic(topic *entity.Topic, documents []*entity.Document) string {
	wanted := make(map[string]bool, len(topic.Sources))
	for _, s := range topic.Sources {
		wanted[s.Source] = true
	}

	matched := make([]*entity.Document, 0, len(documents))
	for _, d := range documents {
		if wanted[d.Filename] {
			matched = append(matched, d)
		}
	}

	if len(matched) == 0 {
		c.logger.Warn("Generation", "Topic source mapping matched no documents, using all", map[string]interface{}{
			"topic_id":     topic.Id,
			"source_count": len(topic.Sources),
		})
		matched = documents
	}

	var b strings.Builder
	for _, d := range matched {
		fmt.Fprintf(&b, "=== SOURCE: %s ===\n\n", d.Filename)
		b.WriteString(d.ContentText)
		b.WriteString("\n\n")
	}
	return b.String()
}

func (c *generationService) GetTaskStatus(taskId uuid.UUID) (*dto.TaskStatusResponse, error) {
	task, ok := c.statusRepo.GetTask(taskId)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "Task not found")
	}

	statuses := c.statusRepo.GetAll(task.TopicIds)
	topics := make([]dto.TopicStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		topics = append(topics, toTopicStatusResponse(s))
	}

	return &dto.TaskStatusResponse{
		TaskId:    task.TaskId,
		SessionId: task.SessionId,
		Running:   task.Running,
		Error:     task.Error,
		Topics:    topics,
	}, nil
}

func (c *generationService) GetTopicStatuses(ctx context.Context, sessionId uuid.UUID) ([]dto.TopicStatusResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	topics, err := uow.TopicRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderByOrderIndex{},
	)
	if err != nil {
		return nil, err
	}

	statuses := c.statusRepo.GetAll(topicIds(topics))
	result := make([]dto.TopicStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, toTopicStatusResponse(s))
	}
	return result, nil
}

func (c *generationService) ValidateKey(ctx context.Context, apiKey string) *dto.ValidateKeyResponse {
	// Probe, not Provider: validating a candidate key must not evict the
	// provider cached for the credential active runs were started with.
	provider, err := c.providerCache.Probe(apiKey, "")
	if err != nil {
		return &dto.ValidateKeyResponse{Valid: false, Error: err.Error()}
	}

	// A streamed one-token ping avoids the minimum-length guard on
	// non-streaming calls.
	_, err = provider.ChatStream(ctx,
		[]llm.Message{{Role: "user", Content: "ping"}},
		nil,
		llm.WithMaxTokens(1),
	)
	if err != nil {
		return &dto.ValidateKeyResponse{Valid: false, Error: err.Error()}
	}
	return &dto.ValidateKeyResponse{Valid: true}
}

func selectTopics(allTopics []*entity.Topic, requested []uuid.UUID) []*entity.Topic {
	if len(requested) == 0 {
		return allTopics
	}
	wanted := make(map[uuid.UUID]bool, len(requested))
	for _, id := range requested {
		wanted[id] = true
	}
	selected := make([]*entity.Topic, 0, len(requested))
	for _, t := range allTopics {
		if wanted[t.Id] {
			selected = append(selected, t)
		}
	}
	return selected
}

func topicIds(topics []*entity.Topic) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(topics))
	for _, t := range topics {
		ids = append(ids, t.Id)
	}
	return ids
}

func toTopicStatusResponse(s *memory.GenerationStatus) dto.TopicStatusResponse {
	return dto.TopicStatusResponse{
		TopicId:   s.TopicId,
		Status:    s.Status,
		Error:     s.Error,
		Buffer:    s.Buffer,
		UpdatedAt: s.UpdatedAt,
	}
}
