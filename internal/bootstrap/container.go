package bootstrap

import (
	"log"

	"legalchat-be/internal/config"
	"legalchat-be/internal/controller"
	"legalchat-be/internal/handler"
	"legalchat-be/internal/pkg/logger"
	"legalchat-be/internal/repository/unitofwork"
	"legalchat-be/internal/service"
	"legalchat-be/pkg/embedding"
	"legalchat-be/pkg/events"
	"legalchat-be/pkg/llm/factory"
	"legalchat-be/pkg/rag"
	"legalchat-be/pkg/rag/history"

	"github.com/ThreeDotsLabs/watermill"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	MessageController controller.IMessageController
	FileController    controller.IFileController

	// Background consumers (exposed for main.go to run)
	ChatEventHandler *handler.ChatEventHandler

	// Shared infrastructure
	Logger logger.ILogger
	Bus    *events.Bus
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	bus := events.NewBus(watermillLogger)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(
			cfg.Ai.OpenAIApiKey,
			cfg.Ai.OpenAIBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}

	baseURL := cfg.Ai.OpenAIBaseURL
	if cfg.Ai.LLMProvider == "ollama" {
		baseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		baseURL,
		cfg.Ai.OpenAIApiKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. RAG pipeline
	retriever := rag.NewRetriever(embeddingProvider)
	historyLoader := history.NewLoader()

	// 5. Services
	chatService := service.NewChatService(uowFactory, sysLogger)
	fileService := service.NewFileService(uowFactory, sysLogger)
	messageService := service.NewMessageService(
		uowFactory,
		retriever,
		historyLoader,
		llmProvider,
		bus,
		sysLogger,
	)

	// 6. Controllers & Handlers
	return &Container{
		ChatController:    controller.NewChatController(chatService, fileService),
		MessageController: controller.NewMessageController(messageService),
		FileController:    controller.NewFileController(fileService),
		ChatEventHandler:  handler.NewChatEventHandler(chatService, bus, sysLogger),
		Logger:            sysLogger,
		Bus:               bus,
	}
}
