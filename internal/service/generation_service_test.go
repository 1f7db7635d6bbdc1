package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/reletz/cornelius/internal/dto"
	"github.com/reletz/cornelius/internal/entity"
	"github.com/reletz/cornelius/internal/model"
	"github.com/reletz/cornelius/internal/repository/memory"
	"github.com/reletz/cornelius/internal/repository/specification"
	"github.com/reletz/cornelius/internal/repository/unitofwork"
	"github.com/reletz/cornelius/pkg/events"
	"github.com/reletz/cornelius/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// scriptedProvider returns canned responses in call order and can be told
// to fail specific calls.
type scriptedProvider struct {
	mu        sync.Mutex
	calls     int
	responses []string
	failCalls map[int]error
	prompts   []string
}

func (p *scriptedProvider) next(prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	call := p.calls
	p.calls++
	p.prompts = append(p.prompts, prompt)
	if err, ok := p.failCalls[call]; ok {
		return "", err
	}
	if call < len(p.responses) {
		return p.responses[call], nil
	}
	return "", fmt.Errorf("unexpected call %d", call)
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.next(history[len(history)-1].Content)
}

func (p *scriptedProvider) ChatStream(ctx context.Context, history []llm.Message, onChunk llm.ChunkHandler, options ...llm.Option) (string, error) {
	full, err := p.next(history[len(history)-1].Content)
	if err != nil {
		return "", err
	}
	if onChunk != nil {
		// Deliver in two chunks to exercise the append path.
		half := len(full) / 2
		onChunk(full[:half])
		onChunk(full[half:])
	}
	return full, nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturingPublisher) PublishEvent(ctx context.Context, sessionId uuid.UUID, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) typesSeen() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	seen := make(map[string]int)
	for _, e := range p.events {
		seen[e.EventType()]++
	}
	return seen
}

// fixedProvider hands back the same provider for any credential.
type fixedProvider struct {
	p llm.LLMProvider
}

func (f fixedProvider) Provider(apiKey, baseURL string) (llm.LLMProvider, error) {
	if apiKey == "" {
		return nil, &llm.ConfigurationError{Reason: "api key is required"}
	}
	return f.p, nil
}

func (f fixedProvider) Probe(apiKey, baseURL string) (llm.LLMProvider, error) {
	return f.Provider(apiKey, baseURL)
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A shared-cache memory DB disappears when its last connection closes.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Session{}, &model.Document{}, &model.Topic{}, &model.Note{},
	))
	return db
}

type fixture struct {
	svc       IGenerationService
	uow       unitofwork.RepositoryFactory
	status    *memory.GenerationStatusRepository
	publisher *capturingPublisher
	sessionId uuid.UUID
	topics    []*entity.Topic
}

func newFixture(t *testing.T, provider *scriptedProvider, topicCount int) *fixture {
	t.Helper()
	ctx := context.Background()
	db := newTestDB(t)
	uowFactory := unitofwork.NewRepositoryFactory(db)
	uow := uowFactory.NewUnitOfWork(ctx)

	session := &entity.Session{Id: uuid.New(), Title: "Bio 101", Status: entity.SessionStatusReady, CreatedAt: time.Now()}
	require.NoError(t, uow.SessionRepository().Create(ctx, session))

	doc := &entity.Document{
		Id: uuid.New(), SessionId: session.Id,
		Filename: "bio.pdf", ContentText: "chlorophyll absorbs light", PageCount: 4,
		Status:    entity.DocumentStatusExtracted,
		CreatedAt: time.Now(),
	}
	require.NoError(t, uow.DocumentRepository().Create(ctx, doc))

	topics := make([]*entity.Topic, 0, topicCount)
	for i := 0; i < topicCount; i++ {
		topic := &entity.Topic{
			Id:        uuid.New(),
			SessionId: session.Id,
			Title:     fmt.Sprintf("Topic %d", i+1),
			Keywords:  []string{fmt.Sprintf("kw%d", i+1)},
			Sources:   []entity.TopicSource{{Source: "bio.pdf", Pages: "1-4"}},
			Summary:   fmt.Sprintf("summary %d", i+1),
			OrderIndex: i,
			CreatedAt: time.Now(),
		}
		require.NoError(t, uow.TopicRepository().Create(ctx, topic))
		topics = append(topics, topic)
	}

	statusRepo := memory.NewGenerationStatusRepository()
	publisher := &capturingPublisher{}

	svc := NewGenerationService(uowFactory, statusRepo, fixedProvider{provider}, publisher, nopLogger{}, 0)

	return &fixture{
		svc:       svc,
		uow:       uowFactory,
		status:    statusRepo,
		publisher: publisher,
		sessionId: session.Id,
		topics:    topics,
	}
}

func waitForTask(t *testing.T, svc IGenerationService, taskId uuid.UUID) *dto.TaskStatusResponse {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		status, err := svc.GetTaskStatus(taskId)
		require.NoError(t, err)
		if !status.Running {
			return status
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("generation task did not finish in time")
	return nil
}

const wellFormedReply = "[!cornell]\n## Questions\n- q1\n### Concept\ntext\n[!summary]\nsum\n[!ad-libitum]\nextra"

func TestStartGenerationSequentialWithFailure(t *testing.T) {
	provider := &scriptedProvider{
		responses: []string{wellFormedReply, "", wellFormedReply},
		failCalls: map[int]error{1: &llm.TimeoutError{Timeout: time.Minute}},
	}
	f := newFixture(t, provider, 3)
	ctx := context.Background()

	res, err := f.svc.StartGeneration(ctx, f.sessionId, "test-key", &dto.GenerateRequest{
		Prompt: dto.PromptConfig{UseDefault: true, Language: "en", Depth: "balanced"},
	})
	require.NoError(t, err)
	require.Len(t, res.TopicIds, 3)

	task := waitForTask(t, f.svc, res.TaskId)

	byTopic := make(map[uuid.UUID]string)
	for _, s := range task.Topics {
		byTopic[s.TopicId] = s.Status
	}
	assert.Equal(t, memory.TopicStatusCompleted, byTopic[f.topics[0].Id])
	assert.Equal(t, memory.TopicStatusFailed, byTopic[f.topics[1].Id])
	assert.Equal(t, memory.TopicStatusCompleted, byTopic[f.topics[2].Id])

	// One note per successful topic, none for the failed one.
	uow := f.uow.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx, specification.BySessionID{SessionID: f.sessionId})
	require.NoError(t, err)
	assert.Len(t, notes, 2)
	for _, n := range notes {
		assert.NotEqual(t, f.topics[1].Id, n.TopicId)
		assert.True(t, strings.HasPrefix(n.Content, "> [!cornell]"), "note should be formatted: %q", n.Content)
	}

	seen := f.publisher.typesSeen()
	assert.Greater(t, seen[events.GenerationChunk], 0)
	assert.Equal(t, 2, seen[events.NoteGenerated])
}

func TestRegenerateTopicUpsertsWithoutDuplicates(t *testing.T) {
	provider := &scriptedProvider{
		responses: []string{wellFormedReply, wellFormedReply},
	}
	f := newFixture(t, provider, 1)
	ctx := context.Background()

	res, err := f.svc.StartGeneration(ctx, f.sessionId, "test-key", &dto.GenerateRequest{
		Prompt: dto.PromptConfig{UseDefault: true},
	})
	require.NoError(t, err)
	waitForTask(t, f.svc, res.TaskId)

	res2, err := f.svc.RegenerateTopic(ctx, f.topics[0].Id, "test-key", dto.PromptConfig{UseDefault: true})
	require.NoError(t, err)
	waitForTask(t, f.svc, res2.TaskId)

	uow := f.uow.NewUnitOfWork(ctx)
	count, err := uow.NoteRepository().Count(ctx, specification.ByTopicID{TopicID: f.topics[0].Id})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCustomPromptSkipsFormatter(t *testing.T) {
	freeform := strings.Repeat("just plain prose, no cornell structure at all. ", 4)
	provider := &scriptedProvider{responses: []string{freeform}}
	f := newFixture(t, provider, 1)
	ctx := context.Background()

	res, err := f.svc.StartGeneration(ctx, f.sessionId, "test-key", &dto.GenerateRequest{
		Prompt: dto.PromptConfig{UseDefault: false, CustomPrompt: "Summarize like a pirate."},
	})
	require.NoError(t, err)
	waitForTask(t, f.svc, res.TaskId)

	uow := f.uow.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByTopicID{TopicID: f.topics[0].Id})
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.True(t, note.UsedCustomPrompt)
	assert.False(t, strings.HasPrefix(note.Content, "> [!cornell]"))

	// The custom body must reach the model.
	assert.Contains(t, provider.prompts[0], "Summarize like a pirate.")
}

func TestStartGenerationRequiresDocuments(t *testing.T) {
	provider := &scriptedProvider{}
	f := newFixture(t, provider, 1)
	ctx := context.Background()

	uow := f.uow.NewUnitOfWork(ctx)
	require.NoError(t, uow.DocumentRepository().DeleteAllBySessionId(ctx, f.sessionId))

	_, err := f.svc.StartGeneration(ctx, f.sessionId, "test-key", &dto.GenerateRequest{
		Prompt: dto.PromptConfig{UseDefault: true},
	})
	require.Error(t, err)
	// Nothing was marked pending.
	assert.Empty(t, f.status.GetAll([]uuid.UUID{f.topics[0].Id}))
}

func TestSiblingExclusionReachesPrompt(t *testing.T) {
	provider := &scriptedProvider{responses: []string{wellFormedReply, wellFormedReply}}
	f := newFixture(t, provider, 2)
	ctx := context.Background()

	res, err := f.svc.StartGeneration(ctx, f.sessionId, "test-key", &dto.GenerateRequest{
		Prompt: dto.PromptConfig{UseDefault: true},
	})
	require.NoError(t, err)
	waitForTask(t, f.svc, res.TaskId)

	require.Len(t, provider.prompts, 2)
	assert.Contains(t, provider.prompts[0], "Topic 2")
	assert.Contains(t, provider.prompts[0], "kw2")
	assert.NotContains(t, provider.prompts[0], "### Topic 1\n")
	assert.Contains(t, provider.prompts[1], "kw1")
}
