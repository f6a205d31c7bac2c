package specification

import "gorm.io/gorm"

// MainEquals constrains the knowledge-base jurisdiction discriminant.
type MainEquals struct {
	Main string
}

func (s MainEquals) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("main = ?", s.Main)
}

// DocTypeIn constrains the knowledge-base category discriminant.
type DocTypeIn struct {
	Types []string
}

func (s DocTypeIn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("doc_type IN ?", s.Types)
}

// StateIn constrains the knowledge-base region discriminant. Values are
// the raw selected ones; any underscore normalization happened at filter
// compile time.
type StateIn struct {
	States []string
}

func (s StateIn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("state IN ?", s.States)
}

// Namespace partitions the document index.
type Namespace struct {
	Value string
}

func (s Namespace) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("namespace = ?", s.Value)
}
