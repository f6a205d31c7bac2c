package contract

import (
	"context"

	"legalchat-be/internal/entity"
	"legalchat-be/internal/repository/specification"

	"github.com/google/uuid"
)

// MessagePage is one slice of a chat's history, newest first. NextCursor
// is the id of the first message of the following (older) page, or nil
// when this page is the last one.
type MessagePage struct {
	Messages   []*entity.Message
	NextCursor *uuid.UUID
}

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	DeleteByChatId(ctx context.Context, chatId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	FindRecent(ctx context.Context, chatId uuid.UUID, limit int) ([]*entity.Message, error)
	FindPage(ctx context.Context, chatId uuid.UUID, fileId *uuid.UUID, limit int, cursor *uuid.UUID) (*MessagePage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
