package implementation

import (
	"context"
	"errors"

	"legalchat-be/internal/entity"
	"legalchat-be/internal/mapper"
	"legalchat-be/internal/model"
	"legalchat-be/internal/repository/contract"
	"legalchat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *MessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entity.Message) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *MessageRepositoryImpl) DeleteByChatId(ctx context.Context, chatId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("chat_id = ?", chatId).Delete(&model.Message{}).Error
}

func (r *MessageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	var m model.Message
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MessageToEntity(&m), nil
}

func (r *MessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var models []*model.Message
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Message, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MessageToEntity(m)
	}
	return entities, nil
}

// FindRecent returns the latest messages of a chat, newest first.
func (r *MessageRepositoryImpl) FindRecent(ctx context.Context, chatId uuid.UUID, limit int) ([]*entity.Message, error) {
	return r.FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: limit},
	)
}

// FindPage returns one page of a chat's history, newest first. It fetches
// limit+1 rows and pops the extra row as the cursor of the next page.
func (r *MessageRepositoryImpl) FindPage(ctx context.Context, chatId uuid.UUID, fileId *uuid.UUID, limit int, cursor *uuid.UUID) (*contract.MessagePage, error) {
	specs := []specification.Specification{
		specification.ByChatID{ChatID: chatId},
		specification.FileScoped{FileID: fileId},
	}

	if cursor != nil {
		var anchor model.Message
		err := r.db.WithContext(ctx).Where("id = ?", *cursor).First(&anchor).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &contract.MessagePage{Messages: []*entity.Message{}}, nil
			}
			return nil, err
		}
		specs = append(specs, specification.CreatedAtOrBefore{At: anchor.CreatedAt, Id: anchor.Id})
	}

	// Secondary id ordering keeps pages stable across created_at ties.
	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.OrderBy{Field: "id", Desc: true},
		specification.Limit{N: limit + 1},
	)

	messages, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	page := &contract.MessagePage{Messages: messages}
	if len(messages) > limit {
		next := messages[limit].Id
		page.Messages = messages[:limit]
		page.NextCursor = &next
	}
	return page, nil
}

func (r *MessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Message{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
