package main

import (
	"log"

	api "aarvi-backend/cmd/api"
	"aarvi-backend/internal/analyzer"
	chatdomain "aarvi-backend/internal/chat/domain"
	chatRepo "aarvi-backend/internal/chat/repository"
	chatUsecase "aarvi-backend/internal/chat/usecase"
	pushdomain "aarvi-backend/internal/push/domain"
	pushRepo "aarvi-backend/internal/push/repository"
	pushService "aarvi-backend/internal/push/service"
	scheduledomain "aarvi-backend/internal/schedule/domain"
	scheduleRepo "aarvi-backend/internal/schedule/repository"
	scheduleUsecase "aarvi-backend/internal/schedule/usecase"
	"aarvi-backend/internal/schedule/worker"
	"aarvi-backend/pkg/ai"
	"aarvi-backend/pkg/config"
	"aarvi-backend/pkg/database"
	"aarvi-backend/pkg/fcm"
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
	if err := db.AutoMigrate(
		&chatdomain.Conversation{},
		&chatdomain.UserMemory{},
		&scheduledomain.ScheduledMessage{},
		&pushdomain.DeviceSubscription{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	conversations := chatRepo.NewGormConversationRepository(db)
	memories := chatRepo.NewGormMemoryRepository(db)
	scheduled := scheduleRepo.NewGormScheduledMessageRepository(db)
	subscriptions := pushRepo.NewSubscriptionRepository(db)

	// Initialize completion service
	completion := ai.NewCompletionService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GroqAPIKey:    cfg.GroqAPIKey,
		GroqBaseURL:   cfg.GroqBaseURL,
		GroqModel:     cfg.GroqModel,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})

	// Initialize push fan-out (optional, pipeline works without it)
	var notifier worker.Notifier
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		} else {
			notifier = pushService.NewFanout(subscriptions, fcmClient)
		}
	} else {
		log.Println("[WARN] No Firebase credentials configured, push notifications disabled")
	}

	// Initialize use cases (dependency injection)
	scheduleUC := scheduleUsecase.NewScheduleUsecase(scheduled, analyzer.New())
	chatUC := chatUsecase.NewChatUsecase(conversations, memories, completion, scheduleUC)

	// Start the delivery worker
	deliveryWorker := worker.New(scheduled, conversations, notifier, worker.Options{
		Interval:     cfg.WorkerInterval,
		ClaimTimeout: cfg.ClaimTimeout,
		BatchSize:    cfg.WorkerBatchSize,
		MaxAttempts:  cfg.MaxDeliveryAttempts,
	})
	deliveryWorker.Start()
	defer deliveryWorker.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(cfg, chatUC, scheduleUC, subscriptions)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
