package model

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// KBEmbedding is one chunk of the shared legal knowledge base. Main,
// DocType and State carry the retrieval-filter discriminants.
type KBEmbedding struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content   string          `gorm:"type:text;not null"`
	Main      string          `gorm:"type:varchar(50);not null;index"`
	DocType   string          `gorm:"type:varchar(50);not null;index"`
	State     string          `gorm:"type:varchar(100);index"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)"`
}

func (KBEmbedding) TableName() string {
	return "kb_embeddings"
}

// DocEmbedding is one chunk of an uploaded document, partitioned by
// namespace (file id, chat id, or "default").
type DocEmbedding struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Namespace string          `gorm:"type:varchar(100);not null;index"`
	Content   string          `gorm:"type:text;not null"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)"`
}

func (DocEmbedding) TableName() string {
	return "doc_embeddings"
}
