package contract

import (
	"context"

	"github.com/reletz/cornelius/internal/entity"
	"github.com/reletz/cornelius/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteRepository interface {
	// Upsert writes the note for its topic, replacing any previous
	// generation. One note per topic is an invariant.
	Upsert(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllBySessionId(ctx context.Context, sessionId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
