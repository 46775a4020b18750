package bootstrap

import (
	"context"
	"log"

	"bookshelf-ai-be/internal/config"
	"bookshelf-ai-be/internal/controller"
	"bookshelf-ai-be/internal/handler"
	"bookshelf-ai-be/internal/pkg/logger"
	"bookshelf-ai-be/internal/repository/memory"
	"bookshelf-ai-be/internal/repository/unitofwork"
	"bookshelf-ai-be/internal/service"
	"bookshelf-ai-be/internal/websocket"
	"bookshelf-ai-be/pkg/catalog"
	"bookshelf-ai-be/pkg/embedding"
	"bookshelf-ai-be/pkg/embedding/jina"
	"bookshelf-ai-be/pkg/llm/factory"
	"bookshelf-ai-be/pkg/recommend"

	pktNats "bookshelf-ai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	BookController           controller.IBookController
	ScanController           controller.IScanController
	RecommendationController controller.IRecommendationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	sysLogger.Info("Bootstrap", "Wiring application container", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.JinaAi)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	catalogClient := catalog.NewClient(cfg.Keys.GoogleBooks)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	recommendationCache := memory.NewRecommendationCache(cfg.Recommend.CacheTTL, cfg.Recommend.CacheEnabled)
	contentSettings := recommend.ContentSettings{
		ExcludeMature: cfg.Recommend.ExcludeMatureContent,
		BlockedGenres: cfg.Recommend.BlockedGenres,
	}

	publisherService := service.NewPublisherService(pubSub, cfg.Keys.EmbedTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
	)

	bookService := service.NewBookService(uowFactory, publisherService)
	scanService := service.NewScanService(uowFactory, bookService, recommendationCache, natsPub)
	recommendationService := service.NewRecommendationService(
		uowFactory,
		bookService,
		catalogClient,
		llmProvider,
		recommendationCache,
		contentSettings,
		cfg.Recommend.MaxEnrichmentAttempts,
	)

	// 6. Notification System
	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger) // Hub implements NotificationDelivery
	if natsSub != nil {
		go notifService.Start()
	}
	notifHandler := handler.NewNotificationHandler(natsPub, wsHub, wsLogger)

	// 7. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		BookController:           controller.NewBookController(bookService),
		ScanController:           controller.NewScanController(scanService),
		RecommendationController: controller.NewRecommendationController(recommendationService),

		ConsumerService: consumerService,
	}
}
