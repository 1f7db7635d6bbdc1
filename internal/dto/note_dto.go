package dto

import (
	"time"

	"github.com/google/uuid"
)

type NoteResponse struct {
	Id               uuid.UUID `json:"id"`
	TopicId          uuid.UUID `json:"topic_id"`
	SessionId        uuid.UUID `json:"session_id"`
	Content          string    `json:"content"`
	UsedCustomPrompt bool      `json:"used_custom_prompt"`
	Valid            bool      `json:"valid"`
	Issues           []string  `json:"issues,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FormatNoteRequest runs the deterministic formatter on arbitrary markdown.
type FormatNoteRequest struct {
	Markdown string `json:"markdown" validate:"required"`
}

type FormatNoteResponse struct {
	Formatted string `json:"formatted"`
}

type ValidateNoteRequest struct {
	Markdown string `json:"markdown" validate:"required"`
}

type ValidateNoteResponse struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}
