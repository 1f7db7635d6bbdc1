package dto

import (
	"time"

	"github.com/google/uuid"
)

// AddDocumentRequest carries text extracted on the client; the server never
// parses PDFs itself.
type AddDocumentRequest struct {
	Filename    string `json:"filename" validate:"required,max=512"`
	ContentText string `json:"content_text" validate:"required"`
	PageCount   int    `json:"page_count" validate:"gte=0"`
}

type DocumentResponse struct {
	Id        uuid.UUID `json:"id"`
	SessionId uuid.UUID `json:"session_id"`
	Filename  string    `json:"filename"`
	PageCount int       `json:"page_count"`
	CharCount int       `json:"char_count"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
