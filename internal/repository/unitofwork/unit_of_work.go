package unitofwork

import (
	"context"

	"navi-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PersonaRepository() contract.PersonaRepository
	DocumentRepository() contract.DocumentRepository
	DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository
	MatchRepository() contract.MatchRepository
}
