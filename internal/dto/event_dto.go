package dto

import (
	"time"

	"github.com/google/uuid"
)

// SessionEventMessage is the envelope published on the internal event bus
// and fanned out to websocket clients watching the session.
type SessionEventMessage struct {
	SessionId  uuid.UUID              `json:"session_id"`
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}
