package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"legalchat-be/internal/constant"
	"legalchat-be/internal/dto"
	"legalchat-be/internal/entity"
	"legalchat-be/internal/pkg/serverutils"
	"legalchat-be/internal/repository/contract"
	"legalchat-be/internal/repository/specification"
	"legalchat-be/internal/repository/unitofwork"
	"legalchat-be/pkg/legalfilter"
	"legalchat-be/pkg/llm"
	"legalchat-be/pkg/rag"
	"legalchat-be/pkg/rag/history"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// --- In-memory fakes ---

type fakeStore struct {
	chats    []*entity.Chat
	messages []*entity.Message
	files    []*entity.File
	kb       []*entity.KBPassage
	doc      []*entity.DocPassage

	failMessageCreate bool
}

type fakeUow struct{ s *fakeStore }

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) ChatRepository() contract.ChatRepository         { return &fakeChatRepo{u.s} }
func (u *fakeUow) MessageRepository() contract.MessageRepository   { return &fakeMessageRepo{u.s} }
func (u *fakeUow) FileRepository() contract.FileRepository         { return &fakeFileRepo{u.s} }
func (u *fakeUow) ChatFileRepository() contract.ChatFileRepository { return &fakeChatFileRepo{u.s} }
func (u *fakeUow) KBEmbeddingRepository() contract.KBEmbeddingRepository {
	return &fakeKBRepo{u.s}
}
func (u *fakeUow) DocEmbeddingRepository() contract.DocEmbeddingRepository {
	return &fakeDocRepo{u.s}
}

type fakeFactory struct{ s *fakeStore }

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{f.s}
}

type fakeChatRepo struct{ s *fakeStore }

func (r *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	r.s.chats = append(r.s.chats, chat)
	return nil
}
func (r *fakeChatRepo) Touch(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeChatRepo) Delete(ctx context.Context, id uuid.UUID) error {
	kept := r.s.chats[:0]
	for _, c := range r.s.chats {
		if c.Id != id {
			kept = append(kept, c)
		}
	}
	r.s.chats = kept
	return nil
}
func (r *fakeChatRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error) {
	for _, chat := range r.s.chats {
		if chatMatches(chat, specs) {
			return chat, nil
		}
	}
	return nil, nil
}

// chatMatches interprets the ownership and scoping specifications the
// services rely on; ordering and limit specs are ignored.
func chatMatches(chat *entity.Chat, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if chat.Id != s.ID {
				return false
			}
		case specification.UserOwnedBy:
			if chat.UserId != s.UserID {
				return false
			}
		case specification.FileScoped:
			if s.FileID == nil {
				if chat.FileId != nil {
					return false
				}
			} else if chat.FileId == nil || *chat.FileId != *s.FileID {
				return false
			}
		}
	}
	return true
}
func (r *fakeChatRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chat, error) {
	return r.s.chats, nil
}
func (r *fakeChatRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.s.chats)), nil
}

type fakeMessageRepo struct{ s *fakeStore }

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	if r.s.failMessageCreate {
		return errors.New("insert failed")
	}
	r.s.messages = append(r.s.messages, message)
	return nil
}
func (r *fakeMessageRepo) DeleteByChatId(ctx context.Context, chatId uuid.UUID) error {
	r.s.messages = nil
	return nil
}
func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	return nil, nil
}
func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	return r.s.messages, nil
}
func (r *fakeMessageRepo) FindRecent(ctx context.Context, chatId uuid.UUID, limit int) ([]*entity.Message, error) {
	var out []*entity.Message
	for i := len(r.s.messages) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.s.messages[i])
	}
	return out, nil
}
func (r *fakeMessageRepo) FindPage(ctx context.Context, chatId uuid.UUID, fileId *uuid.UUID, limit int, cursor *uuid.UUID) (*contract.MessagePage, error) {
	return &contract.MessagePage{Messages: r.s.messages}, nil
}
func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.s.messages)), nil
}

type fakeFileRepo struct{ s *fakeStore }

func (r *fakeFileRepo) Create(ctx context.Context, file *entity.File) error {
	r.s.files = append(r.s.files, file)
	return nil
}
func (r *fakeFileRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeFileRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.File, error) {
	if len(r.s.files) == 0 {
		return nil, nil
	}
	return r.s.files[0], nil
}
func (r *fakeFileRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.File, error) {
	return r.s.files, nil
}

type fakeChatFileRepo struct{ s *fakeStore }

func (r *fakeChatFileRepo) Create(ctx context.Context, file *entity.ChatFile) error { return nil }
func (r *fakeChatFileRepo) Delete(ctx context.Context, id uuid.UUID) error          { return nil }
func (r *fakeChatFileRepo) DeleteByChatId(ctx context.Context, chatId uuid.UUID) error {
	return nil
}
func (r *fakeChatFileRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatFile, error) {
	return nil, nil
}
func (r *fakeChatFileRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatFile, error) {
	return nil, nil
}

type fakeKBRepo struct{ s *fakeStore }

func (r *fakeKBRepo) CreateBulk(ctx context.Context, passages []*entity.KBPassage, embeddings [][]float32) error {
	return nil
}
func (r *fakeKBRepo) SearchSimilar(ctx context.Context, embedding []float32, limit int, pred legalfilter.Predicate) ([]*entity.KBPassage, error) {
	if limit > len(r.s.kb) {
		limit = len(r.s.kb)
	}
	return r.s.kb[:limit], nil
}
func (r *fakeKBRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.s.kb)), nil
}

type fakeDocRepo struct{ s *fakeStore }

func (r *fakeDocRepo) CreateBulk(ctx context.Context, passages []*entity.DocPassage, embeddings [][]float32) error {
	return nil
}
func (r *fakeDocRepo) SearchSimilar(ctx context.Context, embedding []float32, limit int, namespace string) ([]*entity.DocPassage, error) {
	var out []*entity.DocPassage
	for _, p := range r.s.doc {
		if p.Namespace == namespace && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakeDocRepo) DeleteByNamespace(ctx context.Context, namespace string) error { return nil }

type fakeEmbedder struct{ err error }

func (e *fakeEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeLLM struct {
	chunks []string
	err    error

	gotHistory []llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeLLM) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan string, <-chan error) {
	f.gotHistory = history
	out := make(chan string, len(f.chunks)+1)
	errs := make(chan error, 1)
	for _, c := range f.chunks {
		out <- c
	}
	if f.err != nil {
		errs <- f.err
	}
	close(out)
	close(errs)
	return out, errs
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newMessageService(s *fakeStore, model *fakeLLM) IMessageService {
	return NewMessageService(
		&fakeFactory{s},
		rag.NewRetriever(&fakeEmbedder{}),
		history.NewLoader(),
		model,
		nil,
		nopLogger{},
	)
}

func collect(t *testing.T, ch <-chan string) []string {
	t.Helper()
	var out []string
	timeout := time.After(5 * time.Second)
	for {
		select {
		case chunk, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, chunk)
		case <-timeout:
			t.Fatal("timed out waiting for stream")
		}
	}
}

// --- Tests ---

func TestSendStreamsAndPersistsBothMessages(t *testing.T) {
	s := &fakeStore{}
	model := &fakeLLM{chunks: []string{"Hello", " there"}}
	svc := newMessageService(s, model)

	chatId := uuid.New()
	chunks, err := svc.Send(context.Background(), uuid.New(), &dto.SendMessageRequest{
		Message:  "what is negligence?",
		ChatType: constant.ChatTypeResearch,
		ChatId:   chatId.String(),
	})
	assert.NoError(t, err)

	got := collect(t, chunks)
	assert.Equal(t, []string{"Hello", " there"}, got)

	assert.Len(t, s.messages, 2)
	assert.True(t, s.messages[0].IsUserMessage)
	assert.Equal(t, "what is negligence?", s.messages[0].Text)
	assert.NotEmpty(t, s.messages[0].AppliedFilter)
	assert.False(t, s.messages[1].IsUserMessage)
	assert.Equal(t, "Hello there", s.messages[1].Text)
	assert.Equal(t, chatId, s.messages[1].ChatId)
}

func TestSendGenerationFailureResolvesToFallback(t *testing.T) {
	s := &fakeStore{}
	model := &fakeLLM{err: errors.New("model unavailable")}
	svc := newMessageService(s, model)

	chunks, err := svc.Send(context.Background(), uuid.New(), &dto.SendMessageRequest{
		Message:  "hello",
		ChatType: constant.ChatTypeResearch,
		ChatId:   uuid.NewString(),
	})
	assert.NoError(t, err)

	got := collect(t, chunks)
	assert.Equal(t, []string{constant.FallbackReply}, got[len(got)-1:])

	var assistant []*entity.Message
	for _, m := range s.messages {
		if !m.IsUserMessage {
			assistant = append(assistant, m)
		}
	}
	assert.Len(t, assistant, 1)
	assert.Equal(t, constant.FallbackReply, assistant[0].Text)
}

func TestSendEmbeddingFailureResolvesToFallback(t *testing.T) {
	s := &fakeStore{}
	svc := NewMessageService(
		&fakeFactory{s},
		rag.NewRetriever(&fakeEmbedder{err: errors.New("embedding api down")}),
		history.NewLoader(),
		&fakeLLM{chunks: []string{"never reached"}},
		nil,
		nopLogger{},
	)

	chunks, err := svc.Send(context.Background(), uuid.New(), &dto.SendMessageRequest{
		Message:  "hello",
		ChatType: constant.ChatTypeResearch,
		ChatId:   uuid.NewString(),
	})
	assert.NoError(t, err)

	got := collect(t, chunks)
	assert.Equal(t, []string{constant.FallbackReply}, got)
}

func TestSendRejectsMalformedChatId(t *testing.T) {
	svc := newMessageService(&fakeStore{}, &fakeLLM{})

	_, err := svc.Send(context.Background(), uuid.New(), &dto.SendMessageRequest{
		Message:  "hi",
		ChatType: constant.ChatTypeResearch,
		ChatId:   "not-a-uuid",
	})
	assert.ErrorIs(t, err, serverutils.ErrBadRequest)
}

func TestSendStripsQuotesFromChatId(t *testing.T) {
	s := &fakeStore{}
	svc := newMessageService(s, &fakeLLM{chunks: []string{"ok"}})

	chatId := uuid.New()
	chunks, err := svc.Send(context.Background(), uuid.New(), &dto.SendMessageRequest{
		Message:  "hi",
		ChatType: constant.ChatTypeResearch,
		ChatId:   `"` + chatId.String() + `"`,
	})
	assert.NoError(t, err)
	collect(t, chunks)

	assert.Equal(t, chatId, s.messages[0].ChatId)
}

func TestSendDocumentChatUnknownFileIsNotFound(t *testing.T) {
	s := &fakeStore{} // no files
	svc := newMessageService(s, &fakeLLM{})

	_, err := svc.Send(context.Background(), uuid.New(), &dto.SendMessageRequest{
		Message:  "summarize the document",
		ChatType: constant.ChatTypeDocument,
		FileId:   uuid.NewString(),
		ChatId:   uuid.NewString(),
	})
	assert.ErrorIs(t, err, serverutils.ErrNotFound)
	assert.Empty(t, s.messages)
}

func TestSendResearchTrackUsesScopeLabelInPrompt(t *testing.T) {
	s := &fakeStore{}
	model := &fakeLLM{chunks: []string{"ok"}}
	svc := newMessageService(s, model)

	chunks, err := svc.Send(context.Background(), uuid.New(), &dto.SendMessageRequest{
		Message:     "what are the filing deadlines?",
		ChatType:    constant.ChatTypeResearch,
		ChatId:      uuid.NewString(),
		LegalFilter: &legalfilter.Selection{AllFederal: true},
	})
	assert.NoError(t, err)
	collect(t, chunks)

	assert.Len(t, model.gotHistory, 2)
	assert.Equal(t, constant.ResearchSystemPrompt, model.gotHistory[0].Content)
	assert.Contains(t, model.gotHistory[1].Content, "You are a legal assistant for Federal.")
	assert.Contains(t, model.gotHistory[1].Content, "USER INPUT: what are the filing deadlines?")
}

func TestSendUserMessagePersistFailureResolvesToFallback(t *testing.T) {
	s := &fakeStore{failMessageCreate: true}
	svc := newMessageService(s, &fakeLLM{chunks: []string{"never reached"}})

	chunks, err := svc.Send(context.Background(), uuid.New(), &dto.SendMessageRequest{
		Message:  "hi",
		ChatType: constant.ChatTypeResearch,
		ChatId:   uuid.NewString(),
	})
	assert.NoError(t, err)

	got := collect(t, chunks)
	assert.Equal(t, []string{constant.FallbackReply}, got)
}
