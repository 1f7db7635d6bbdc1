package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	DocumentStatusUploaded  = "uploaded"
	DocumentStatusExtracted = "extracted"
	DocumentStatusFailed    = "failed"
)

// Document is one uploaded source. Text extraction happens client-side, so
// ContentText arrives ready to use and the status is extracted on arrival.
// Only extracted documents feed clustering and generation.
type Document struct {
	Id          uuid.UUID
	SessionId   uuid.UUID
	Filename    string
	ContentText string
	PageCount   int
	Status      string
	CreatedAt   time.Time
}
