package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

type UpdateSessionRequest struct {
	Id    uuid.UUID `json:"-"`
	Title string    `json:"title" validate:"required,max=255"`
}

type SessionResponse struct {
	Id            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	DocumentCount int64     `json:"document_count"`
	TopicCount    int64     `json:"topic_count"`
	NoteCount     int64     `json:"note_count"`
	CreatedAt     time.Time `json:"created_at"`
}
