package history

import (
	"context"

	"legalchat-be/internal/constant"
	"legalchat-be/internal/repository/unitofwork"
	"legalchat-be/pkg/llm"

	"github.com/google/uuid"
)

// Loader replays recent conversation turns into LLM context
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

// LoadConversationHistory returns the most recent turns of a chat, newest
// first. The newest-first order is what the prompt templates were tuned
// against, so it is kept as is.
func (l *Loader) LoadConversationHistory(ctx context.Context, uow unitofwork.UnitOfWork, chatId uuid.UUID) ([]llm.Message, error) {
	recent, err := uow.MessageRepository().FindRecent(ctx, chatId, constant.HistoryLimit)
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(recent))
	for _, msg := range recent {
		role := "assistant"
		if msg.IsUserMessage {
			role = "user"
		}
		messages = append(messages, llm.Message{
			Role:    role,
			Content: msg.Text,
		})
	}

	return messages, nil
}
