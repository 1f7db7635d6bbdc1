package unitofwork

import (
	"context"

	"github.com/reletz/cornelius/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionRepository() contract.SessionRepository
	DocumentRepository() contract.DocumentRepository
	TopicRepository() contract.TopicRepository
	NoteRepository() contract.NoteRepository
}
