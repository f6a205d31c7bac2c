package handler

import (
	"context"
	"encoding/json"

	"legalchat-be/internal/pkg/logger"
	"legalchat-be/internal/service"
	"legalchat-be/pkg/events"
)

// ChatEventHandler consumes turn-completed events and bumps the chat's
// updated_at so the chat list stays ordered by recent activity.
type ChatEventHandler struct {
	chatService service.IChatService
	bus         *events.Bus
	logger      logger.ILogger
}

func NewChatEventHandler(chatService service.IChatService, bus *events.Bus, log logger.ILogger) *ChatEventHandler {
	return &ChatEventHandler{
		chatService: chatService,
		bus:         bus,
		logger:      log,
	}
}

// Run blocks consuming events until ctx is cancelled. Call it in its own
// goroutine.
func (h *ChatEventHandler) Run(ctx context.Context) error {
	messages, err := h.bus.SubscribeTurnCompleted(ctx)
	if err != nil {
		return err
	}

	for msg := range messages {
		var evt events.TurnCompleted
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			h.logger.Warn("ChatEventHandler", "malformed turn completed event", map[string]interface{}{
				"error": err.Error(),
			})
			msg.Ack()
			continue
		}

		if err := h.chatService.Touch(ctx, evt.ChatId); err != nil {
			h.logger.Error("ChatEventHandler", "failed to touch chat", map[string]interface{}{
				"chat_id": evt.ChatId,
				"error":   err.Error(),
			})
		}
		msg.Ack()
	}

	return nil
}
