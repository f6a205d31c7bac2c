package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Bus is an in-process pub/sub used to decouple side effects from the
// request path. Publishing never blocks the caller.
type Bus struct {
	pubsub *gochannel.GoChannel
}

func NewBus(logger watermill.LoggerAdapter) *Bus {
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, logger)
	return &Bus{pubsub: pubsub}
}

func (b *Bus) PublishTurnCompleted(chatId, userId uuid.UUID) error {
	payload, err := json.Marshal(TurnCompleted{
		ChatId:      chatId,
		UserId:      userId,
		CompletedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	return b.pubsub.Publish(TopicTurnCompleted, message.NewMessage(watermill.NewUUID(), payload))
}

func (b *Bus) SubscribeTurnCompleted(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, TopicTurnCompleted)
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
