package entity

import (
	"time"

	"github.com/google/uuid"
)

// TopicSource maps a topic back to pages of one uploaded document.
type TopicSource struct {
	Source string `json:"source"`
	Pages  string `json:"pages,omitempty"`
}

type Topic struct {
	Id                 uuid.UUID
	SessionId          uuid.UUID
	Title              string
	Keywords           []string
	Sources            []TopicSource
	Summary            string
	EstimatedWordCount int
	UniqueConcepts     []string
	OrderIndex         int
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}
