package api

import (
	"net/http"

	"localmart-backend/internal/auth/delivery"
	authUsecase "localmart-backend/internal/auth/usecase"
	notifDelivery "localmart-backend/internal/notification/delivery"
	notifUsecase "localmart-backend/internal/notification/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, notifUc notifUsecase.NotificationUsecase) {
	authHandler := delivery.NewAuthHandler(authUc)
	notifHandler := notifDelivery.NewNotificationHandler(notifUc)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
		}

		// Notification backlog + device token routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(delivery.AuthMiddleware(authUc))

		pushTokens := api.Group("/push")
		pushTokens.Use(delivery.AuthMiddleware(authUc))

		notifHandler.RegisterRoutes(notifications, pushTokens)
	}
}
