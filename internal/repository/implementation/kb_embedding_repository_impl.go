package implementation

import (
	"context"
	"fmt"

	"legalchat-be/internal/entity"
	"legalchat-be/internal/mapper"
	"legalchat-be/internal/model"
	"legalchat-be/internal/repository/contract"
	"legalchat-be/internal/repository/specification"
	"legalchat-be/pkg/legalfilter"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KBEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EmbeddingMapper
}

func NewKBEmbeddingRepository(db *gorm.DB) contract.KBEmbeddingRepository {
	return &KBEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewEmbeddingMapper(),
	}
}

func (r *KBEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, passages []*entity.KBPassage, vectors [][]float32) error {
	if len(passages) != len(vectors) {
		return fmt.Errorf("passages and vectors length mismatch: %d vs %d", len(passages), len(vectors))
	}
	models := make([]*model.KBEmbedding, len(passages))
	for i, p := range passages {
		models[i] = &model.KBEmbedding{
			Id:        p.Id,
			Content:   p.Content,
			Main:      p.Main,
			DocType:   p.DocType,
			State:     p.State,
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

// SearchSimilar ranks knowledge-base passages by cosine distance, applying
// the compiled retrieval predicate as plain WHERE clauses.
func (r *KBEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, pred legalfilter.Predicate) ([]*entity.KBPassage, error) {
	if limit <= 0 {
		limit = 4
	}
	var models []*model.KBEmbedding

	query := r.db.WithContext(ctx)
	for _, spec := range predicateSpecs(pred) {
		query = spec.Apply(query)
	}

	err := query.
		Order(gorm.Expr("embedding <=> ?", pgvector.NewVector(embedding))).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.KBPassage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.KBToEntity(m)
	}
	return entities, nil
}

func (r *KBEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.KBEmbedding{}).Count(&count).Error
	return count, err
}

func predicateSpecs(pred legalfilter.Predicate) []specification.Specification {
	var specs []specification.Specification
	if pred.Main != "" {
		specs = append(specs, specification.MainEquals{Main: pred.Main})
	}
	if len(pred.Types) > 0 {
		specs = append(specs, specification.DocTypeIn{Types: pred.Types})
	}
	if len(pred.States) > 0 {
		specs = append(specs, specification.StateIn{States: pred.States})
	}
	return specs
}
