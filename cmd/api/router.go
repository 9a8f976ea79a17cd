package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	chatDelivery "aarvi-backend/internal/chat/delivery"
	pushDelivery "aarvi-backend/internal/push/delivery"
	scheduleDelivery "aarvi-backend/internal/schedule/delivery"
	"aarvi-backend/pkg/config"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, chatHandler *chatDelivery.ChatHandler, scheduleHandler *scheduleDelivery.ScheduleHandler, pushHandler *pushDelivery.PushHandler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Chat routes (protected)
		chat := api.Group("/chat")
		chat.Use(AuthMiddleware(cfg.JWTSecret))
		{
			chat.POST("", chatHandler.Send)
			chat.POST("/flush", chatHandler.Flush)
			chat.POST("/seen", chatHandler.MarkSeen)
			chat.GET("/history", chatHandler.History)
			chat.GET("/context", chatHandler.Context)
		}

		// Schedule routes (protected)
		schedule := api.Group("/schedule")
		schedule.Use(AuthMiddleware(cfg.JWTSecret))
		{
			schedule.POST("", scheduleHandler.Analyze)
			schedule.GET("", scheduleHandler.List)
			schedule.DELETE("/:id", scheduleHandler.Cancel)
		}

		// Push routes (protected)
		push := api.Group("/push")
		push.Use(AuthMiddleware(cfg.JWTSecret))
		{
			push.POST("/register", pushHandler.Register)
			push.DELETE("/:token", pushHandler.Unregister)
		}
	}
}
