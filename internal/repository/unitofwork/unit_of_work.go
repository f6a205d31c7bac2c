package unitofwork

import (
	"context"

	"legalchat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatRepository() contract.ChatRepository
	MessageRepository() contract.MessageRepository
	FileRepository() contract.FileRepository
	ChatFileRepository() contract.ChatFileRepository
	KBEmbeddingRepository() contract.KBEmbeddingRepository
	DocEmbeddingRepository() contract.DocEmbeddingRepository
}
