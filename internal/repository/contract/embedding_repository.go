package contract

import (
	"context"

	"legalchat-be/internal/entity"
	"legalchat-be/pkg/legalfilter"
)

// KBEmbeddingRepository is the shared legal knowledge-base index.
type KBEmbeddingRepository interface {
	CreateBulk(ctx context.Context, passages []*entity.KBPassage, vectors [][]float32) error
	SearchSimilar(ctx context.Context, embedding []float32, limit int, pred legalfilter.Predicate) ([]*entity.KBPassage, error)
	Count(ctx context.Context) (int64, error)
}

// DocEmbeddingRepository is the per-document index, partitioned by
// namespace (file id, chat id, or "default").
type DocEmbeddingRepository interface {
	CreateBulk(ctx context.Context, passages []*entity.DocPassage, vectors [][]float32) error
	SearchSimilar(ctx context.Context, embedding []float32, limit int, namespace string) ([]*entity.DocPassage, error)
	DeleteByNamespace(ctx context.Context, namespace string) error
}
