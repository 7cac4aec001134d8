package delivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"localmart-backend/internal/notification/usecase"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc usecase.NotificationUsecase
}

func NewNotificationHandler(svc usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// RegisterRoutes wires the backlog and push-token endpoints. Both groups
// must already carry the auth middleware.
func (h *NotificationHandler) RegisterRoutes(notifications, pushTokens *gin.RouterGroup) {
	notifications.GET("/my", h.GetBacklog)
	notifications.PUT("/:id/read", h.MarkAsRead)
	notifications.PUT("/read-all", h.MarkAllAsRead)
	notifications.DELETE("/clear-all", h.ClearAll)
	notifications.DELETE("/:id", h.Delete)

	pushTokens.POST("/register", h.RegisterToken)
	pushTokens.POST("/unregister", h.UnregisterToken)
}

type registerTokenRequest struct {
	Token      string `json:"token" binding:"required"`
	Provider   string `json:"provider"`
	DeviceInfo string `json:"deviceInfo"`
}

type unregisterTokenRequest struct {
	Token string `json:"token"`
}

// GetBacklog returns the user's notifications plus the authoritative
// unread count
func (h *NotificationHandler) GetBacklog(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	backlog, err := h.svc.Backlog(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, backlog)
}

// MarkAsRead marks a specific notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.MarkAsRead(ctx, userID.(string), c.Param("id")); err != nil {
		if errors.Is(err, usecase.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllAsRead marks all notifications as read for the user
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.MarkAllAsRead(ctx, userID.(string)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete removes a single notification
func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, userID.(string), c.Param("id")); err != nil {
		if errors.Is(err, usecase.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearAll removes the user's entire backlog
func (h *NotificationHandler) ClearAll(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.ClearAll(ctx, userID.(string)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterToken upserts a device token for the current user
func (h *NotificationHandler) RegisterToken(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req registerTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.RegisterToken(ctx, userID.(string), req.Token, req.Provider, req.DeviceInfo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token registered"})
}

// UnregisterToken removes the device token association for the current user
func (h *NotificationHandler) UnregisterToken(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req unregisterTokenRequest
	// An empty body is allowed and means "all my tokens".
	_ = c.ShouldBindJSON(&req)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.UnregisterToken(ctx, userID.(string), req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token unregistered"})
}
