package main

import (
	"context"
	"log"

	api "localmart-backend/cmd/api"
	authdomain "localmart-backend/internal/auth/domain"
	authRepo "localmart-backend/internal/auth/repository"
	authUsecase "localmart-backend/internal/auth/usecase"
	notifdomain "localmart-backend/internal/notification/domain"
	"localmart-backend/internal/notification/dispatcher"
	notifRepo "localmart-backend/internal/notification/repository"
	notifUsecase "localmart-backend/internal/notification/usecase"
	"localmart-backend/pkg/config"
	"localmart-backend/pkg/database"
	"localmart-backend/pkg/fcm"
	"localmart-backend/pkg/push"
	"localmart-backend/pkg/webpush"

	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &notifdomain.Notification{}, &notifdomain.DeviceToken{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	notificationRepo := notifRepo.NewNotificationRepository(db)
	tokenRepo := notifRepo.NewDeviceTokenRepository(db)

	// Pick the push gateway sender. The dispatcher works without one; the
	// backlog is the durable channel either way.
	var sender push.Sender
	switch cfg.PushProvider {
	case "webpush":
		if cfg.VAPIDPrivateKey == "" || cfg.VAPIDPublicKey == "" {
			log.Printf("[WARN] VAPID keys not configured, push disabled")
		} else {
			sender = webpush.NewSender(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubscriber)
			log.Printf("[DEBUG] Web push sender initialized")
		}
	default:
		if cfg.FirebaseCredentials == "" {
			log.Printf("[WARN] No Firebase credentials configured, push disabled")
		} else {
			fcmClient, err := fcm.NewClient(cfg.FirebaseCredentials)
			if err != nil {
				log.Printf("[WARN] Failed to initialize FCM client (push disabled): %v", err)
			} else {
				sender = fcmClient
			}
		}
	}

	// Initialize the event dispatcher (pub/sub intake)
	// Only start if project ID is configured
	if cfg.GoogleProjectID != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("[WARN] Redis unavailable, event dedup disabled: %v", err)
			redisClient = nil
		}

		disp, err := dispatcher.New(cfg.GoogleProjectID, cfg.PubSubTopic, cfg.FirebaseCredentials, redisClient, notificationRepo, tokenRepo, sender, cfg.PushRateLimit)
		if err != nil {
			log.Printf("[ERROR] Failed to initialize dispatcher: %v", err)
		} else {
			go disp.Start(context.Background())
		}
	} else {
		log.Printf("[WARN] GoogleProjectID not configured, event dispatcher disabled")
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)
	notifUsecaseInstance := notifUsecase.NewNotificationUsecase(notificationRepo, tokenRepo)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, notifUsecaseInstance, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
