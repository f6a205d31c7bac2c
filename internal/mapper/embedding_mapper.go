package mapper

import (
	"legalchat-be/internal/entity"
	"legalchat-be/internal/model"
)

type EmbeddingMapper struct{}

func NewEmbeddingMapper() *EmbeddingMapper {
	return &EmbeddingMapper{}
}

func (m *EmbeddingMapper) KBToEntity(e *model.KBEmbedding) *entity.KBPassage {
	if e == nil {
		return nil
	}
	return &entity.KBPassage{
		Id:      e.Id,
		Content: e.Content,
		Main:    e.Main,
		DocType: e.DocType,
		State:   e.State,
	}
}

func (m *EmbeddingMapper) DocToEntity(e *model.DocEmbedding) *entity.DocPassage {
	if e == nil {
		return nil
	}
	return &entity.DocPassage{
		Id:        e.Id,
		Namespace: e.Namespace,
		Content:   e.Content,
	}
}
