package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id               uuid.UUID
	TopicId          uuid.UUID
	SessionId        uuid.UUID
	Content          string
	UsedCustomPrompt bool
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}
