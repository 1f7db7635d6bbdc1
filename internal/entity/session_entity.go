package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionStatusCreated    = "created"
	SessionStatusClustering = "clustering"
	SessionStatusReady      = "ready"
	SessionStatusGenerating = "generating"
	SessionStatusCompleted  = "completed"
)

type Session struct {
	Id        uuid.UUID
	Title     string
	Status    string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
