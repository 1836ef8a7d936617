package bootstrap

import (
	"context"
	"log"

	"venuechat-be/internal/config"
	"venuechat-be/internal/controller"
	"venuechat-be/internal/pkg/logger"
	"venuechat-be/internal/repository/implementation"
	"venuechat-be/internal/service"
	"venuechat-be/internal/websocket"
	pktNats "venuechat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController  controller.IAuthController
	VenueController controller.IVenueController
	ChatController  controller.IChatController

	// WebSocket layer
	ChatGateway  *websocket.ChatGateway
	WebSocketHub *websocket.Hub

	// Background services (exposed for main.go to run)
	Broadcaster *websocket.Broadcaster
	Sweeper     *service.SweeperService

	// Shared middleware dependencies
	AuthService service.IAuthService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
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

	// Presence registry and hub
	wsLogger := logger.NewIsolatedLogger("logs/chat.log")
	registry := websocket.NewRegistry()
	wsHub := websocket.NewHub(registry, rdb, wsLogger)
	go wsHub.Run()

	// 3. Repositories
	sessionRepo := implementation.NewSessionRepository(db)
	messageRepo := implementation.NewMessageRepository(db)
	venueRepo := implementation.NewVenueRepository(db)

	// 4. Services
	authService := service.NewAuthService(sessionRepo, natsPub, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	chatService := service.NewChatService(messageRepo, pubSub, cfg.Chat.HistoryWindow)
	venueService := service.NewVenueService(venueRepo, messageRepo, registry)

	sweeper := service.NewSweeperService(
		sessionRepo,
		messageRepo,
		natsPub,
		sysLogger,
		cfg.Chat.SweepInterval,
		cfg.Chat.SessionGrace,
		cfg.Chat.MessageTTL,
	)

	// 5. WebSocket gateway and fan-out worker
	gateway := websocket.NewChatGateway(wsHub, registry, authService, chatService, wsLogger)
	broadcaster := websocket.NewBroadcaster(pubSub, wsHub, wsLogger)

	// 6. Controllers
	return &Container{
		AuthController:  controller.NewAuthController(authService),
		VenueController: controller.NewVenueController(venueService),
		ChatController:  controller.NewChatController(chatService),

		ChatGateway:  gateway,
		WebSocketHub: wsHub,

		Broadcaster: broadcaster,
		Sweeper:     sweeper,

		AuthService: authService,
	}
}
