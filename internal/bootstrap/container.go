package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-voicetutor-be/internal/config"
	"ai-voicetutor-be/internal/controller"
	"ai-voicetutor-be/internal/pkg/logger"
	"ai-voicetutor-be/internal/pkg/serverutils"
	"ai-voicetutor-be/internal/repository/memory"
	"ai-voicetutor-be/internal/repository/unitofwork"
	"ai-voicetutor-be/internal/service"
	"ai-voicetutor-be/internal/websocket"
	"ai-voicetutor-be/pkg/authverify"
	"ai-voicetutor-be/pkg/embedding"
	"ai-voicetutor-be/pkg/llm/factory"
	"ai-voicetutor-be/pkg/speech/sarvam"

	pktNats "ai-voicetutor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	TalkController     controller.ITalkController
	ProgressController controller.IProgressController

	// Middleware shared by route groups
	AuthMiddleware fiber.Handler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	ProgressService service.IProgressService

	WebSocketHub *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Collaborators
	embeddingProvider := embedding.NewOllamaProvider(
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.EmbeddingModel,
	)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceToken,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	speechProvider := sarvam.NewSarvamProvider(
		cfg.Speech.SarvamBaseURL,
		cfg.Speech.SarvamAPIKey,
		cfg.Speech.STTModel,
		cfg.Speech.TTSModel,
	)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

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

	// 5. Auth
	var verifier authverify.Verifier
	if cfg.Auth.Mode == "remote" {
		verifier = authverify.NewRemoteVerifier(cfg.Auth.ProviderURL, cfg.Auth.ProviderKey)
	} else {
		verifier = authverify.NewJWTVerifier(cfg.Auth.JwtSecret)
	}
	verifier = authverify.NewCachedVerifier(verifier, rdb, time.Duration(cfg.Auth.CacheTTLInSec)*time.Second)

	// 6. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/progress.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 7. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Ai.EmbedTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.EmbedTopic,
		uowFactory,
		embeddingProvider,
	)

	identityService := service.NewIdentityService(uowFactory, sysLogger)
	turnGuard := memory.NewTurnGuard()

	talkService := service.NewTalkService(
		uowFactory,
		speechProvider,
		speechProvider,
		llmProvider,
		turnGuard,
		natsPub,
		publisherService,
		sysLogger,
	)

	var progressService service.IProgressService
	if natsSub != nil {
		progressService = service.NewProgressService(natsSub, wsHub, sysLogger)
	}

	// 8. Middleware & Controllers
	authMiddleware := serverutils.AuthMiddleware(verifier, identityService)

	return &Container{
		TalkController:     controller.NewTalkController(talkService, authMiddleware),
		ProgressController: controller.NewProgressController(verifier, wsHub, sysLogger),
		AuthMiddleware:     authMiddleware,
		ConsumerService:    consumerService,
		ProgressService:    progressService,
		WebSocketHub:       wsHub,
		Logger:             sysLogger,
	}
}
