package rag

import (
	"context"

	"legalchat-be/internal/constant"
	"legalchat-be/internal/repository/unitofwork"
	"legalchat-be/pkg/embedding"
	"legalchat-be/pkg/legalfilter"

	"github.com/google/uuid"
)

// RetrievedContext holds the passages assembled for one turn. KBPassages
// come from the shared research corpus, ChatPassages from material the
// user attached to this chat, DocPassages from the focused document.
type RetrievedContext struct {
	KBPassages   []string
	ChatPassages []string
	DocPassages  []string
}

// Retriever assembles retrieval context for a chat turn. The question is
// embedded once and the same vector queries every index.
type Retriever struct {
	embedder embedding.EmbeddingProvider
}

func NewRetriever(embedder embedding.EmbeddingProvider) *Retriever {
	return &Retriever{embedder: embedder}
}

func (r *Retriever) Retrieve(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	query string,
	chatType string,
	chatId uuid.UUID,
	fileId *uuid.UUID,
	pred legalfilter.Predicate,
) (*RetrievedContext, error) {
	vector, err := r.embedder.Generate(ctx, query)
	if err != nil {
		return nil, err
	}

	kbResults, err := uow.KBEmbeddingRepository().SearchSimilar(ctx, vector, constant.KBSearchLimit, pred)
	if err != nil {
		return nil, err
	}

	chatResults, err := uow.DocEmbeddingRepository().SearchSimilar(ctx, vector, constant.DocSearchLimit, chatId.String())
	if err != nil {
		return nil, err
	}

	result := &RetrievedContext{
		KBPassages:   make([]string, 0, len(kbResults)),
		ChatPassages: make([]string, 0, len(chatResults)),
	}
	for _, p := range kbResults {
		result.KBPassages = append(result.KBPassages, p.Content)
	}
	for _, p := range chatResults {
		result.ChatPassages = append(result.ChatPassages, p.Content)
	}

	if chatType == constant.ChatTypeDocument {
		namespace := constant.DefaultDocNamespace
		if fileId != nil {
			namespace = fileId.String()
		}
		docResults, err := uow.DocEmbeddingRepository().SearchSimilar(ctx, vector, constant.DocSearchLimit, namespace)
		if err != nil {
			return nil, err
		}
		result.DocPassages = make([]string, 0, len(docResults))
		for _, p := range docResults {
			result.DocPassages = append(result.DocPassages, p.Content)
		}
	}

	return result, nil
}
