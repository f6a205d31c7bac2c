package implementation

import (
	"context"
	"fmt"

	"legalchat-be/internal/entity"
	"legalchat-be/internal/mapper"
	"legalchat-be/internal/model"
	"legalchat-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EmbeddingMapper
}

func NewDocEmbeddingRepository(db *gorm.DB) contract.DocEmbeddingRepository {
	return &DocEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewEmbeddingMapper(),
	}
}

func (r *DocEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, passages []*entity.DocPassage, vectors [][]float32) error {
	if len(passages) != len(vectors) {
		return fmt.Errorf("passages and vectors length mismatch: %d vs %d", len(passages), len(vectors))
	}
	models := make([]*model.DocEmbedding, len(passages))
	for i, p := range passages {
		models[i] = &model.DocEmbedding{
			Id:        p.Id,
			Namespace: p.Namespace,
			Content:   p.Content,
			Embedding: pgvector.NewVector(vectors[i]),
		}
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		passages[i].Id = m.Id
	}
	return nil
}

func (r *DocEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, namespace string) ([]*entity.DocPassage, error) {
	if limit <= 0 {
		limit = 2
	}
	var models []*model.DocEmbedding

	err := r.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		Order(gorm.Expr("embedding <=> ?", pgvector.NewVector(embedding))).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.DocPassage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.DocToEntity(m)
	}
	return entities, nil
}

func (r *DocEmbeddingRepositoryImpl) DeleteByNamespace(ctx context.Context, namespace string) error {
	return r.db.WithContext(ctx).Where("namespace = ?", namespace).Delete(&model.DocEmbedding{}).Error
}
