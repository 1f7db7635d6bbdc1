package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	TopicStatusPending    = "pending"
	TopicStatusGenerating = "generating"
	TopicStatusCompleted  = "completed"
	TopicStatusFailed     = "failed"
)

// GenerationStatus is the live view of one topic's generation, polled by
// clients and streamed over the websocket.
type GenerationStatus struct {
	TopicId   uuid.UUID `json:"topic_id"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Buffer    string    `json:"buffer,omitempty"`
	Attempt   int64     `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskStatus tracks one background generation run over a whole session.
type TaskStatus struct {
	TaskId    uuid.UUID   `json:"task_id"`
	SessionId uuid.UUID   `json:"session_id"`
	Running   bool        `json:"running"`
	TopicIds  []uuid.UUID `json:"topic_ids"`
	Error     string      `json:"error,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// GenerationStatusRepository keeps per-topic generation state in memory.
// The attempt token makes regeneration safe: chunks carrying a stale token
// are dropped instead of corrupting the buffer of a newer attempt.
type GenerationStatusRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
	tasks *cache.Cache
}

func NewGenerationStatusRepository() *GenerationStatusRepository {
	// Statuses outlive a single run so clients can poll after completion,
	// but there is no reason to keep them for more than a day.
	return &GenerationStatusRepository{
		cache: cache.New(24*time.Hour, 1*time.Hour),
		tasks: cache.New(24*time.Hour, 1*time.Hour),
	}
}

// NextAttempt marks the topic pending under a fresh attempt token and
// returns the token. Any in-flight writer holding an older token loses.
func (r *GenerationStatusRepository) NextAttempt(topicId uuid.UUID) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	attempt := int64(1)
	if existing, ok := r.get(topicId); ok {
		attempt = existing.Attempt + 1
	}
	r.set(&GenerationStatus{
		TopicId:   topicId,
		Status:    TopicStatusPending,
		Attempt:   attempt,
		UpdatedAt: time.Now(),
	})
	return attempt
}

// MarkGenerating flips the topic to generating if the attempt is current.
func (r *GenerationStatusRepository) MarkGenerating(topicId uuid.UUID, attempt int64) bool {
	return r.transition(topicId, attempt, TopicStatusGenerating, "")
}

// AppendChunk adds a streamed delta to the topic buffer. Returns false when
// the attempt token is stale and the chunk was discarded.
func (r *GenerationStatusRepository) AppendChunk(topicId uuid.UUID, attempt int64, chunk string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	status, ok := r.get(topicId)
	if !ok || status.Attempt != attempt {
		return false
	}
	status.Buffer += chunk
	status.UpdatedAt = time.Now()
	r.set(status)
	return true
}

// MarkCompleted finalizes the topic and clears the streaming buffer.
func (r *GenerationStatusRepository) MarkCompleted(topicId uuid.UUID, attempt int64) bool {
	return r.transition(topicId, attempt, TopicStatusCompleted, "")
}

// MarkFailed records the failure reason for the topic.
func (r *GenerationStatusRepository) MarkFailed(topicId uuid.UUID, attempt int64, errMsg string) bool {
	return r.transition(topicId, attempt, TopicStatusFailed, errMsg)
}

func (r *GenerationStatusRepository) transition(topicId uuid.UUID, attempt int64, state, errMsg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	status, ok := r.get(topicId)
	if !ok || status.Attempt != attempt {
		return false
	}
	status.Status = state
	status.Error = errMsg
	if state == TopicStatusCompleted || state == TopicStatusFailed {
		status.Buffer = ""
	}
	status.UpdatedAt = time.Now()
	r.set(status)
	return true
}

// Get returns a copy of the topic status.
func (r *GenerationStatusRepository) Get(topicId uuid.UUID) (*GenerationStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	status, ok := r.get(topicId)
	if !ok {
		return nil, false
	}
	copied := *status
	return &copied, true
}

// GetAll returns copies of the statuses for the given topics, skipping
// unknown ones.
func (r *GenerationStatusRepository) GetAll(topicIds []uuid.UUID) []*GenerationStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	statuses := make([]*GenerationStatus, 0, len(topicIds))
	for _, id := range topicIds {
		if status, ok := r.get(id); ok {
			copied := *status
			statuses = append(statuses, &copied)
		}
	}
	return statuses
}

func (r *GenerationStatusRepository) get(topicId uuid.UUID) (*GenerationStatus, bool) {
	if x, found := r.cache.Get(topicId.String()); found {
		return x.(*GenerationStatus), true
	}
	return nil, false
}

func (r *GenerationStatusRepository) set(status *GenerationStatus) {
	r.cache.Set(status.TopicId.String(), status, cache.DefaultExpiration)
}

// SaveTask records the state of a background generation run.
func (r *GenerationStatusRepository) SaveTask(task *TaskStatus) {
	task.UpdatedAt = time.Now()
	r.tasks.Set(task.TaskId.String(), task, cache.DefaultExpiration)
}

// GetTask looks up a background run by its task id.
func (r *GenerationStatusRepository) GetTask(taskId uuid.UUID) (*TaskStatus, bool) {
	if x, found := r.tasks.Get(taskId.String()); found {
		return x.(*TaskStatus), true
	}
	return nil, false
}
