package routes

import (
	"net/http"

	"clutchpay_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts all handlers under /api/v1 plus a health probe.
func RegisterRoutes(router *gin.Engine, h *handlers.AppHandlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	h.Auth.RegisterRoutes(api)
	h.Invoice.RegisterRoutes(api)
	h.Notification.RegisterRoutes(api)
	h.Scheduler.RegisterRoutes(api)
}
