package mapper

import (
	"legalchat-be/internal/entity"
	"legalchat-be/internal/model"
)

type FileMapper struct{}

func NewFileMapper() *FileMapper {
	return &FileMapper{}
}

func (m *FileMapper) FileToEntity(f *model.File) *entity.File {
	if f == nil {
		return nil
	}
	return &entity.File{
		Id:           f.Id,
		UserId:       f.UserId,
		Name:         f.Name,
		Key:          f.Key,
		UploadStatus: f.UploadStatus,
		CreatedAt:    f.CreatedAt,
	}
}

func (m *FileMapper) FileToModel(f *entity.File) *model.File {
	if f == nil {
		return nil
	}
	return &model.File{
		Id:           f.Id,
		UserId:       f.UserId,
		Name:         f.Name,
		Key:          f.Key,
		UploadStatus: f.UploadStatus,
		CreatedAt:    f.CreatedAt,
	}
}

func (m *FileMapper) ChatFileToEntity(f *model.ChatFile) *entity.ChatFile {
	if f == nil {
		return nil
	}
	return &entity.ChatFile{
		Id:        f.Id,
		ChatId:    f.ChatId,
		Name:      f.Name,
		Key:       f.Key,
		CreatedAt: f.CreatedAt,
	}
}

func (m *FileMapper) ChatFileToModel(f *entity.ChatFile) *model.ChatFile {
	if f == nil {
		return nil
	}
	return &model.ChatFile{
		Id:        f.Id,
		ChatId:    f.ChatId,
		Name:      f.Name,
		Key:       f.Key,
		CreatedAt: f.CreatedAt,
	}
}
