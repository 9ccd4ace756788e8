// Package routes mounts all handler groups on the router.
package routes

import (
	"net/http"

	"momentum_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, h *handlers.AppHandlers) {
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	h.Auth.RegisterRoutes(api)
	h.User.RegisterRoutes(api)
	h.Product.RegisterRoutes(api)
	h.PromoCode.RegisterRoutes(api)
	h.Payment.RegisterRoutes(api)
	h.AI.RegisterRoutes(api)
	h.Content.RegisterRoutes(api)
	h.Admin.RegisterRoutes(api)
}
