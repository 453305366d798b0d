package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"pnm-assistant-be/internal/config"
	"pnm-assistant-be/internal/controller"
	"pnm-assistant-be/internal/pkg/logger"
	"pnm-assistant-be/internal/repository/cache"
	"pnm-assistant-be/internal/repository/memory"
	"pnm-assistant-be/internal/repository/unitofwork"
	"pnm-assistant-be/internal/service"
	"pnm-assistant-be/pkg/embedding"
	"pnm-assistant-be/pkg/llm/factory"
	"pnm-assistant-be/pkg/rag/answer"
	"pnm-assistant-be/pkg/rag/retrieval"
	"pnm-assistant-be/pkg/rag/summary"
	"pnm-assistant-be/pkg/rag/title"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController

	// Background services, exposed for main.go to run
	IngestConsumerService service.IIngestConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 4. AI providers
	embeddingProvider := embedding.NewOllamaProvider(
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OllamaEmbedModel,
	)
	log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)

	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		ProviderType:     cfg.Ai.LLMProvider,
		ModelName:        cfg.Ai.LLMModel,
		OllamaBaseURL:    cfg.Ai.OllamaBaseURL,
		OpenAIBaseURL:    cfg.Ai.OpenAIBaseURL,
		OpenAIAPIKey:     cfg.Ai.OpenAIAPIKey,
		OpenAIAuthHeader: cfg.Ai.OpenAIAuthHeader,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 5. RAG components
	retriever := retrieval.NewRetriever(embeddingProvider, sysLogger)
	generator := answer.NewGenerator(llmProvider, sysLogger)
	summarizer := summary.NewSummarizer(llmProvider, cfg.Chat.SummaryWindow)
	titleDeriver := title.NewDeriver(llmProvider, title.NewRegexClassifier(), sysLogger)

	threadCache := cache.NewThreadRepository(rdb)
	titleMemo := memory.NewTitleMemo()

	// 6. Services
	chatService := service.NewChatService(
		uowFactory,
		retriever,
		generator,
		summarizer,
		titleDeriver,
		threadCache,
		titleMemo,
		sysLogger,
		service.ChatConfig{
			RetrievalTopK:   cfg.Chat.RetrievalTopK,
			SummaryWindow:   cfg.Chat.SummaryWindow,
			ConfiguredModel: cfg.Ai.LLMModel,
		},
	)

	ingestPublisherService := service.NewIngestPublisherService(cfg.Chat.IngestTopicName, pubSub)
	ingestConsumerService := service.NewIngestConsumerService(
		pubSub,
		cfg.Chat.IngestTopicName,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)

	// 7. Controllers
	chatController := controller.NewChatController(chatService)
	documentController := controller.NewDocumentController(ingestPublisherService)

	return &Container{
		ChatController:        chatController,
		DocumentController:    documentController,
		IngestConsumerService: ingestConsumerService,
		Logger:                sysLogger,
	}
}
