package service

import (
	"context"

	"legalchat-be/internal/constant"
	"legalchat-be/internal/dto"
	"legalchat-be/internal/entity"
	"legalchat-be/internal/pkg/logger"
	"legalchat-be/internal/pkg/serverutils"
	"legalchat-be/internal/repository/specification"
	"legalchat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IFileService interface {
	List(ctx context.Context, userId uuid.UUID) ([]*dto.FileResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.FileResponse, error)
	GetByKey(ctx context.Context, userId uuid.UUID, key string) (*dto.FileResponse, error)
	GetUploadStatus(ctx context.Context, userId uuid.UUID, id uuid.UUID) (string, error)
	ListChatFiles(ctx context.Context, chatId uuid.UUID) ([]*dto.ChatFileResponse, error)
	GetChatFileByKey(ctx context.Context, key string) (*dto.ChatFileResponse, error)
	DeleteChatFile(ctx context.Context, chatId uuid.UUID, fileId uuid.UUID) (*dto.ChatFileResponse, error)
}

type fileService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewFileService(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IFileService {
	return &fileService{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

func (s *fileService) List(ctx context.Context, userId uuid.UUID) ([]*dto.FileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	files, err := uow.FileRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.FileResponse, 0, len(files))
	for _, f := range files {
		res = append(res, toFileResponse(f))
	}
	return res, nil
}

func (s *fileService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.FileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	file, err := uow.FileRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, serverutils.ErrNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	// Vectors for this file live under its id namespace.
	if err := uow.DocEmbeddingRepository().DeleteByNamespace(ctx, id.String()); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.FileRepository().Delete(ctx, id); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("file", "file deleted", map[string]interface{}{
		"file_id": id,
		"user_id": userId,
	})

	return toFileResponse(file), nil
}

func (s *fileService) GetByKey(ctx context.Context, userId uuid.UUID, key string) (*dto.FileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	file, err := uow.FileRepository().FindOne(ctx,
		specification.Filter("key", key),
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, serverutils.ErrNotFound
	}
	return toFileResponse(file), nil
}

// GetUploadStatus reports PENDING for unknown files rather than erroring,
// so the client can poll before the upload record lands.
func (s *fileService) GetUploadStatus(ctx context.Context, userId uuid.UUID, id uuid.UUID) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	file, err := uow.FileRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return "", err
	}
	if file == nil {
		return constant.UploadStatusPending, nil
	}
	return file.UploadStatus, nil
}

func (s *fileService) ListChatFiles(ctx context.Context, chatId uuid.UUID) ([]*dto.ChatFileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	files, err := uow.ChatFileRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatFileResponse, 0, len(files))
	for _, f := range files {
		res = append(res, toChatFileResponse(f))
	}
	return res, nil
}

func (s *fileService) GetChatFileByKey(ctx context.Context, key string) (*dto.ChatFileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	file, err := uow.ChatFileRepository().FindOne(ctx,
		specification.Filter("key", key),
	)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, serverutils.ErrNotFound
	}
	return toChatFileResponse(file), nil
}

func (s *fileService) DeleteChatFile(ctx context.Context, chatId uuid.UUID, fileId uuid.UUID) (*dto.ChatFileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	file, err := uow.ChatFileRepository().FindOne(ctx,
		specification.ByID{ID: fileId},
		specification.ByChatID{ChatID: chatId},
	)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, serverutils.ErrNotFound
	}

	if err := uow.ChatFileRepository().Delete(ctx, fileId); err != nil {
		return nil, err
	}
	return toChatFileResponse(file), nil
}

func toFileResponse(f *entity.File) *dto.FileResponse {
	return &dto.FileResponse{
		Id:           f.Id,
		Name:         f.Name,
		Key:          f.Key,
		UploadStatus: f.UploadStatus,
		CreatedAt:    f.CreatedAt,
	}
}

func toChatFileResponse(f *entity.ChatFile) *dto.ChatFileResponse {
	return &dto.ChatFileResponse{
		Id:        f.Id,
		ChatId:    f.ChatId,
		Name:      f.Name,
		Key:       f.Key,
		CreatedAt: f.CreatedAt,
	}
}
