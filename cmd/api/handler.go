package api

import (
	"github.com/gin-gonic/gin"

	chatDelivery "aarvi-backend/internal/chat/delivery"
	chatUsecase "aarvi-backend/internal/chat/usecase"
	pushDelivery "aarvi-backend/internal/push/delivery"
	pushRepo "aarvi-backend/internal/push/repository"
	scheduleDelivery "aarvi-backend/internal/schedule/delivery"
	scheduleUsecase "aarvi-backend/internal/schedule/usecase"
	"aarvi-backend/pkg/config"
)

// Handler wires the HTTP surface together
type Handler struct {
	engine *gin.Engine
}

// NewHandler builds the gin engine with all routes registered
func NewHandler(cfg *config.Config, chatUC chatUsecase.ChatUsecase, scheduleUC scheduleUsecase.ScheduleUsecase, subs pushRepo.SubscriptionRepository) *Handler {
	r := gin.Default()

	chatHandler := chatDelivery.NewChatHandler(chatUC)
	scheduleHandler := scheduleDelivery.NewScheduleHandler(scheduleUC)
	pushHandler := pushDelivery.NewPushHandler(subs)

	SetupRoutes(r, cfg, chatHandler, scheduleHandler, pushHandler)

	return &Handler{engine: r}
}

// Start runs the HTTP server
func (h *Handler) Start(addr string) error {
	return h.engine.Run(addr)
}
