package entity

import "github.com/google/uuid"

// KBPassage is an indexed chunk of the shared legal knowledge base.
// Main, DocType and State are the filterable discriminants.
type KBPassage struct {
	Id      uuid.UUID
	Content string
	Main    string
	DocType string
	State   string
}

// DocPassage is an indexed chunk of an uploaded document, partitioned by
// Namespace (a file id, a chat id, or "default").
type DocPassage struct {
	Id        uuid.UUID
	Namespace string
	Content   string
}
