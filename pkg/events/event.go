package events

import "time"

// Event types published over the session channel.
const (
	TopicStatusChanged = "TOPIC_STATUS_CHANGED"
	NoteGenerated      = "NOTE_GENERATED"
	GenerationChunk    = "GENERATION_CHUNK"
	ClusteringFinished = "CLUSTERING_FINISHED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "NOTE_GENERATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewTopicStatusChanged reports a per-topic generation status transition.
func NewTopicStatusChanged(sessionID, topicID, status, errMsg string) Event {
	data := map[string]interface{}{
		"session_id": sessionID,
		"topic_id":   topicID,
		"status":     status,
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	return BaseEvent{Type: TopicStatusChanged, Data: data, OccurredAt: time.Now()}
}

// NewGenerationChunk carries one streamed content delta for a topic.
func NewGenerationChunk(sessionID, topicID, chunk string) Event {
	return BaseEvent{
		Type: GenerationChunk,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"topic_id":   topicID,
			"chunk":      chunk,
		},
		OccurredAt: time.Now(),
	}
}

// NewNoteGenerated announces a finished, persisted note.
func NewNoteGenerated(sessionID, topicID, noteID string) Event {
	return BaseEvent{
		Type: NoteGenerated,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"topic_id":   topicID,
			"note_id":    noteID,
		},
		OccurredAt: time.Now(),
	}
}
