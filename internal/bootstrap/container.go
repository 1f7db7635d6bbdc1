package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/reletz/cornelius/internal/config"
	"github.com/reletz/cornelius/internal/controller"
	"github.com/reletz/cornelius/internal/pkg/logger"
	"github.com/reletz/cornelius/internal/repository/memory"
	"github.com/reletz/cornelius/internal/repository/unitofwork"
	"github.com/reletz/cornelius/internal/service"
	"github.com/reletz/cornelius/internal/websocket"
	"github.com/reletz/cornelius/pkg/llm/factory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// sessionEventsTopic is the internal bus topic all session events flow over.
const sessionEventsTopic = "SESSION_EVENTS"

type Container struct {
	// Controllers
	SessionController    controller.ISessionController
	DocumentController   controller.IDocumentController
	TopicController      controller.ITopicController
	NoteController       controller.INoteController
	GenerationController controller.IGenerationController
	ExportController     controller.IExportController
	ConfigController     controller.IConfigController
	GithubController     controller.IGithubController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	WebSocketHub *websocket.Hub
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

	// 3. Redis is optional; without it the hub fans out in-process only.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// 4. WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/events.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. LLM provider cache. API keys arrive per request and never persist
	// beyond this cache.
	providerCache := factory.NewCache(cfg.Ai.Model, cfg.Ai.BaseURL)
	statusRepo := memory.NewGenerationStatusRepository()

	// 6. Services
	publisherService := service.NewPublisherService(sessionEventsTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, sessionEventsTopic, wsHub, wsLogger)

	sessionService := service.NewSessionService(uowFactory)
	documentService := service.NewDocumentService(uowFactory)
	clusteringService := service.NewClusteringService(uowFactory, providerCache, cfg.Ai.ClusteringModel, sysLogger)
	topicService := service.NewTopicService(uowFactory)
	noteService := service.NewNoteService(uowFactory)
	exportService := service.NewExportService(uowFactory)
	githubSyncService := service.NewGithubSyncService(uowFactory, cfg.Github.BaseURL, sysLogger)
	generationService := service.NewGenerationService(
		uowFactory,
		statusRepo,
		providerCache,
		publisherService,
		sysLogger,
		time.Duration(cfg.Ai.TopicDelaySeconds)*time.Second,
	)

	// 7. Controllers
	return &Container{
		SessionController:    controller.NewSessionController(sessionService),
		DocumentController:   controller.NewDocumentController(documentService),
		TopicController:      controller.NewTopicController(topicService, clusteringService),
		NoteController:       controller.NewNoteController(noteService),
		GenerationController: controller.NewGenerationController(generationService),
		ExportController:     controller.NewExportController(exportService),
		ConfigController:     controller.NewConfigController(generationService),
		GithubController:     controller.NewGithubController(githubSyncService),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
