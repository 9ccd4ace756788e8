package handlers

import (
	"net/http"

	"momentum_backend/internal/middleware"
	"momentum_backend/internal/models"
	"momentum_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	*BaseHandler
	ai services.AIService
}

func NewAIHandler(base *BaseHandler, ai services.AIService) *AIHandler {
	return &AIHandler{BaseHandler: base, ai: ai}
}

func (h *AIHandler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/ai")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/generate", h.Generate)
		group.POST("/ideas", h.Ideas)
		group.POST("/chat", h.Chat)
	}
}

func (h *AIHandler) Generate(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req models.GenerateContentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.ai.GenerateContent(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AIHandler) Ideas(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req models.SuggestIdeasRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	ideas, err := h.ai.SuggestIdeas(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ideas)
}

func (h *AIHandler) Chat(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req models.ChatRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	reply, err := h.ai.Chat(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
