package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics
const (
	TopicTurnCompleted = "chat.turn.completed"
)

// TurnCompleted is emitted after an assistant reply has been persisted,
// whether generation succeeded or fell back.
type TurnCompleted struct {
	ChatId      uuid.UUID `json:"chat_id"`
	UserId      uuid.UUID `json:"user_id"`
	CompletedAt time.Time `json:"completed_at"`
}
