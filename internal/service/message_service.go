package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"legalchat-be/internal/constant"
	"legalchat-be/internal/dto"
	"legalchat-be/internal/entity"
	"legalchat-be/internal/pkg/logger"
	"legalchat-be/internal/pkg/serverutils"
	"legalchat-be/internal/repository/specification"
	"legalchat-be/internal/repository/unitofwork"
	"legalchat-be/pkg/events"
	"legalchat-be/pkg/legalfilter"
	"legalchat-be/pkg/llm"
	"legalchat-be/pkg/rag"
	"legalchat-be/pkg/rag/history"
	"legalchat-be/pkg/rag/prompt"

	"github.com/google/uuid"
)

type IMessageService interface {
	// Send runs one chat turn. The returned channel streams completion
	// deltas and closes when the turn is finished. Errors surfaced after
	// the user message is persisted never fail the turn; they resolve to
	// a one-chunk fallback reply instead.
	Send(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (<-chan string, error)
}

type messageService struct {
	uowFactory    unitofwork.RepositoryFactory
	retriever     *rag.Retriever
	historyLoader *history.Loader
	llmProvider   llm.LLMProvider
	bus           *events.Bus
	logger        logger.ILogger
}

func NewMessageService(
	uowFactory unitofwork.RepositoryFactory,
	retriever *rag.Retriever,
	historyLoader *history.Loader,
	llmProvider llm.LLMProvider,
	bus *events.Bus,
	logger logger.ILogger,
) IMessageService {
	return &messageService{
		uowFactory:    uowFactory,
		retriever:     retriever,
		historyLoader: historyLoader,
		llmProvider:   llmProvider,
		bus:           bus,
		logger:        logger,
	}
}

func (s *messageService) Send(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (<-chan string, error) {
	chatId, err := NormalizeChatId(req.ChatId)
	if err != nil {
		return nil, serverutils.ErrBadRequest
	}

	var fileId *uuid.UUID
	if req.FileId != "" {
		id, err := uuid.Parse(req.FileId)
		if err != nil {
			return nil, serverutils.ErrBadRequest
		}
		fileId = &id
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.ChatType == constant.ChatTypeDocument && fileId != nil {
		file, err := uow.FileRepository().FindOne(ctx,
			specification.ByID{ID: *fileId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if file == nil {
			return nil, serverutils.ErrNotFound
		}
	}

	pred := legalfilter.Compile(req.LegalFilter)
	predJson, err := json.Marshal(pred)
	if err != nil {
		predJson = nil
	}

	out := make(chan string, 100)

	// The user message must be durable before generation starts. If even
	// that fails, the turn still resolves to the fallback reply.
	if err := s.persistMessage(ctx, &entity.Message{
		Id:            uuid.New(),
		ChatId:        chatId,
		FileId:        fileId,
		UserId:        userId,
		IsUserMessage: true,
		Text:          req.Message,
		AppliedFilter: predJson,
		CreatedAt:     time.Now(),
	}); err != nil {
		s.logger.Error("message", "failed to persist user message", map[string]interface{}{
			"chat_id": chatId,
			"error":   err.Error(),
		})
		go s.fallback(context.WithoutCancel(ctx), out, chatId, userId, fileId)
		return out, nil
	}

	// Generation runs to completion even if the client disconnects, so
	// the assistant reply is persisted exactly as the model produced it.
	go s.generate(context.WithoutCancel(ctx), out, userId, chatId, fileId, req.ChatType, req.Message, pred)

	return out, nil
}

func (s *messageService) generate(
	ctx context.Context,
	out chan<- string,
	userId uuid.UUID,
	chatId uuid.UUID,
	fileId *uuid.UUID,
	chatType string,
	message string,
	pred legalfilter.Predicate,
) {
	completion, err := s.streamCompletion(ctx, out, chatId, fileId, chatType, message, pred)
	if err != nil {
		s.logger.Error("message", "generation failed", map[string]interface{}{
			"chat_id": chatId,
			"error":   err.Error(),
		})
		s.fallback(ctx, out, chatId, userId, fileId)
		return
	}

	if err := s.persistMessage(ctx, &entity.Message{
		Id:            uuid.New(),
		ChatId:        chatId,
		FileId:        fileId,
		UserId:        userId,
		IsUserMessage: false,
		Text:          completion,
		CreatedAt:     time.Now(),
	}); err != nil {
		s.logger.Error("message", "failed to persist assistant message", map[string]interface{}{
			"chat_id": chatId,
			"error":   err.Error(),
		})
	}

	close(out)
	s.publishTurnCompleted(chatId, userId)
}

// streamCompletion assembles the prompt and forwards model deltas to out.
// It returns the full completion text once the stream ends.
func (s *messageService) streamCompletion(
	ctx context.Context,
	out chan<- string,
	chatId uuid.UUID,
	fileId *uuid.UUID,
	chatType string,
	message string,
	pred legalfilter.Predicate,
) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	retrieved, err := s.retriever.Retrieve(ctx, uow, message, chatType, chatId, fileId, pred)
	if err != nil {
		return "", err
	}

	turns, err := s.historyLoader.LoadConversationHistory(ctx, uow, chatId)
	if err != nil {
		return "", err
	}

	var chat []llm.Message
	var opts []llm.Option
	if chatType == constant.ChatTypeResearch {
		chat = []llm.Message{
			{Role: "system", Content: constant.ResearchSystemPrompt},
			{Role: "user", Content: prompt.BuildResearchPrompt(pred.Label, turns, retrieved.ChatPassages, retrieved.KBPassages, message)},
		}
		opts = []llm.Option{llm.WithTemperature(0), llm.WithMaxTokens(4096)}
	} else {
		chat = []llm.Message{
			{Role: "system", Content: constant.DocumentSystemPrompt},
			{Role: "user", Content: prompt.BuildDocumentPrompt(turns, retrieved.DocPassages, retrieved.KBPassages, message)},
		}
		opts = []llm.Option{llm.WithTemperature(0)}
	}

	chunks, errs := s.llmProvider.ChatStream(ctx, chat, opts...)

	var full strings.Builder
	for chunk := range chunks {
		full.WriteString(chunk)
		out <- chunk
	}
	if err := <-errs; err != nil {
		return "", err
	}

	return full.String(), nil
}

// fallback persists the canned reply and streams it as a single chunk, so
// the client consumes a failed turn the same way as a successful one.
func (s *messageService) fallback(ctx context.Context, out chan<- string, chatId, userId uuid.UUID, fileId *uuid.UUID) {
	if err := s.persistMessage(ctx, &entity.Message{
		Id:            uuid.New(),
		ChatId:        chatId,
		FileId:        fileId,
		UserId:        userId,
		IsUserMessage: false,
		Text:          constant.FallbackReply,
		CreatedAt:     time.Now(),
	}); err != nil {
		s.logger.Error("message", "failed to persist fallback message", map[string]interface{}{
			"chat_id": chatId,
			"error":   err.Error(),
		})
	}

	out <- constant.FallbackReply
	close(out)
	s.publishTurnCompleted(chatId, userId)
}

func (s *messageService) persistMessage(ctx context.Context, msg *entity.Message) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		uow.Rollback()
		return err
	}
	return uow.Commit()
}

func (s *messageService) publishTurnCompleted(chatId, userId uuid.UUID) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishTurnCompleted(chatId, userId); err != nil {
		s.logger.Warn("message", "failed to publish turn completed event", map[string]interface{}{
			"chat_id": chatId,
			"error":   err.Error(),
		})
	}
}
