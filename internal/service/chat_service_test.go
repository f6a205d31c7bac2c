package service

import (
	"context"
	"testing"
	"time"

	"legalchat-be/internal/constant"
	"legalchat-be/internal/dto"
	"legalchat-be/internal/entity"
	"legalchat-be/internal/pkg/serverutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newChatService(s *fakeStore) IChatService {
	return NewChatService(&fakeFactory{s}, nopLogger{})
}

func TestNormalizeChatId(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		raw     string
		want    uuid.UUID
		wantErr bool
	}{
		{name: "plain id", raw: id.String(), want: id},
		{name: "quoted id", raw: `"` + id.String() + `"`, want: id},
		{name: "garbage", raw: "nope", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeChatId(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeChatId(%q) expected error, got %v", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeChatId(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeChatId(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCreateNamesChatAfterFirstMessage(t *testing.T) {
	s := &fakeStore{}
	svc := newChatService(s)

	res, err := svc.Create(context.Background(), uuid.New(), &dto.NewChatRequest{
		Message:  "what counts as fair use?",
		ChatType: constant.ChatTypeResearch,
	})
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.ChatId)

	assert.Len(t, s.chats, 1)
	assert.Equal(t, "what counts as fair use?", s.chats[0].ChatName)
	assert.Nil(t, s.chats[0].FileId)
}

func TestCreateDocumentChatRequiresOwnedFile(t *testing.T) {
	s := &fakeStore{} // no files
	svc := newChatService(s)

	_, err := svc.Create(context.Background(), uuid.New(), &dto.NewChatRequest{
		FileId:   uuid.NewString(),
		Message:  "summarize this",
		ChatType: constant.ChatTypeDocument,
	})
	assert.ErrorIs(t, err, serverutils.ErrNotFound)
	assert.Empty(t, s.chats)
}

func TestCreateRejectsMalformedFileId(t *testing.T) {
	svc := newChatService(&fakeStore{})

	_, err := svc.Create(context.Background(), uuid.New(), &dto.NewChatRequest{
		FileId:   "not-a-uuid",
		Message:  "hi",
		ChatType: constant.ChatTypeDocument,
	})
	assert.ErrorIs(t, err, serverutils.ErrBadRequest)
}

func TestDeleteUnknownChatIsNotFound(t *testing.T) {
	svc := newChatService(&fakeStore{})

	_, err := svc.Delete(context.Background(), uuid.New(), uuid.New(), nil)
	assert.ErrorIs(t, err, serverutils.ErrNotFound)
}

func TestDeleteRemovesChatAndMessages(t *testing.T) {
	userId := uuid.New()
	chatId := uuid.New()
	s := &fakeStore{
		chats: []*entity.Chat{{Id: chatId, UserId: userId, ChatName: "old chat", CreatedAt: time.Now()}},
		messages: []*entity.Message{
			{Id: uuid.New(), ChatId: chatId, UserId: userId, IsUserMessage: true, Text: "hi"},
			{Id: uuid.New(), ChatId: chatId, UserId: userId, Text: "hello"},
		},
	}
	svc := newChatService(s)

	res, err := svc.Delete(context.Background(), userId, chatId, nil)
	assert.NoError(t, err)
	assert.Equal(t, chatId, res.Id)
	assert.Equal(t, "old chat", res.ChatName)
	assert.Empty(t, s.chats)
	assert.Empty(t, s.messages)
}

func TestGetMessagesUnknownChatIsNotFound(t *testing.T) {
	svc := newChatService(&fakeStore{})

	_, err := svc.GetMessages(context.Background(), uuid.New(), uuid.NewString(), nil, 10, nil)
	assert.ErrorIs(t, err, serverutils.ErrNotFound)
}

func TestGetMessagesForeignChatIsNotFound(t *testing.T) {
	owner := uuid.New()
	chatId := uuid.New()
	s := &fakeStore{
		chats: []*entity.Chat{{Id: chatId, UserId: owner}},
		messages: []*entity.Message{
			{Id: uuid.New(), ChatId: chatId, UserId: owner, IsUserMessage: true, Text: "private"},
		},
	}
	svc := newChatService(s)

	// A different authenticated user guessing the chat id gets a 404,
	// never the messages.
	_, err := svc.GetMessages(context.Background(), uuid.New(), chatId.String(), nil, 10, nil)
	assert.ErrorIs(t, err, serverutils.ErrNotFound)
}

func TestGetMessagesReturnsPage(t *testing.T) {
	userId := uuid.New()
	chatId := uuid.New()
	s := &fakeStore{
		chats: []*entity.Chat{{Id: chatId, UserId: userId}},
		messages: []*entity.Message{
			{Id: uuid.New(), ChatId: chatId, UserId: userId, IsUserMessage: true, Text: "question"},
			{Id: uuid.New(), ChatId: chatId, UserId: userId, Text: "answer"},
		},
	}
	svc := newChatService(s)

	res, err := svc.GetMessages(context.Background(), userId, `"`+chatId.String()+`"`, nil, 0, nil)
	assert.NoError(t, err)
	assert.Len(t, res.Messages, 2)
	assert.Equal(t, "question", res.Messages[0].Text)
	assert.True(t, res.Messages[0].IsUserMessage)
	assert.Nil(t, res.NextCursor)
}

func TestListOrdersByStore(t *testing.T) {
	userId := uuid.New()
	s := &fakeStore{
		chats: []*entity.Chat{
			{Id: uuid.New(), UserId: userId, ChatName: "first"},
			{Id: uuid.New(), UserId: userId, ChatName: "second"},
		},
	}
	svc := newChatService(s)

	res, err := svc.List(context.Background(), userId, nil)
	assert.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t, "first", res[0].ChatName)
}
