package constant

// Chat tracks
const (
	ChatTypeDocument = "DOCUMENT"
	ChatTypeResearch = "RESEARCH"
)

// Retrieval fan-out. The knowledge base contributes up to 4 passages per
// turn, each document index up to 2.
const (
	KBSearchLimit  = 4
	DocSearchLimit = 2

	// DefaultDocNamespace is used for document-track turns that carry no
	// file id.
	DefaultDocNamespace = "default"
)

// File upload lifecycle
const (
	UploadStatusPending    = "PENDING"
	UploadStatusProcessing = "PROCESSING"
	UploadStatusSuccess    = "SUCCESS"
	UploadStatusFailed     = "FAILED"
)

// HistoryLimit is how many recent messages are replayed into the prompt.
const HistoryLimit = 6

// DefaultPageLimit bounds message pagination.
const DefaultPageLimit = 10

// FallbackReply is persisted and streamed verbatim whenever retrieval or
// generation fails. The client consumes it like any other one-chunk
// stream.
const FallbackReply = "Error occurred. Please try again."

// System prompts. The wording is load-bearing: the indexed corpus and the
// existing clients were tuned against these exact texts.
const (
	ResearchSystemPrompt = "Use the following pieces of context (or previous conversaton if needed) to answer the users question in markdown format."

	DocumentSystemPrompt = "Use the following pieces of context and knowledge base (or previous conversaton if needed) to answer the users question in markdown format."
)
