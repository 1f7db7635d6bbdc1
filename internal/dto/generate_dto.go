package dto

import (
	"time"

	"github.com/google/uuid"
)

// PromptConfig selects between the built-in Cornell template and a fully
// custom prompt body.
type PromptConfig struct {
	UseDefault   bool   `json:"use_default"`
	Language     string `json:"language" validate:"omitempty,oneof=en id"`
	Depth        string `json:"depth" validate:"omitempty,oneof=concise balanced indepth"`
	CustomPrompt string `json:"custom_prompt" validate:"omitempty,max=20000"`
}

// GenerateRequest starts generation for a session. Empty TopicIds means
// every topic in the session, in order.
type GenerateRequest struct {
	TopicIds []uuid.UUID  `json:"topic_ids"`
	Prompt   PromptConfig `json:"prompt"`
}

type GenerateResponse struct {
	TaskId   uuid.UUID   `json:"task_id"`
	TopicIds []uuid.UUID `json:"topic_ids"`
}

type TopicStatusResponse struct {
	TopicId   uuid.UUID `json:"topic_id"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Buffer    string    `json:"buffer,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TaskStatusResponse struct {
	TaskId    uuid.UUID             `json:"task_id"`
	SessionId uuid.UUID             `json:"session_id"`
	Running   bool                  `json:"running"`
	Error     string                `json:"error,omitempty"`
	Topics    []TopicStatusResponse `json:"topics"`
}

type ValidateKeyResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}
