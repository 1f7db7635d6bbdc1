package dto

import (
	"time"

	"github.com/reletz/cornelius/internal/entity"

	"github.com/google/uuid"
)

type TopicResponse struct {
	Id                 uuid.UUID            `json:"id"`
	SessionId          uuid.UUID            `json:"session_id"`
	Title              string               `json:"title"`
	Keywords           []string             `json:"keywords"`
	Sources            []entity.TopicSource `json:"sources"`
	UniqueConcepts     []string             `json:"unique_concepts"`
	Summary            string               `json:"summary"`
	EstimatedWordCount int                  `json:"estimated_word_count"`
	OrderIndex         int                  `json:"order_index"`
	CreatedAt          time.Time            `json:"created_at"`
}

type UpdateTopicRequest struct {
	Id       uuid.UUID            `json:"-"`
	Title    string               `json:"title" validate:"required,max=512"`
	Keywords []string             `json:"keywords"`
	Sources  []entity.TopicSource `json:"sources"`
	Summary  string               `json:"summary"`
}

// MergeTopicsRequest combines two or more topics into one. The merged topic
// keeps the earliest order index.
type MergeTopicsRequest struct {
	TopicIds []uuid.UUID `json:"topic_ids" validate:"required,min=2"`
	Title    string      `json:"title" validate:"required,max=512"`
}

type AnalyzeResponse struct {
	Topics          []TopicResponse `json:"topics"`
	TotalClusters   int             `json:"total_clusters"`
	ProcessingNotes string          `json:"processing_notes,omitempty"`
	UsedFallback    bool            `json:"used_fallback"`
}
