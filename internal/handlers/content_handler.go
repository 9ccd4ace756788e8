package handlers

import (
	"net/http"

	"momentum_backend/internal/middleware"
	"momentum_backend/internal/models"
	"momentum_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	*BaseHandler
	contents services.ContentService
}

func NewContentHandler(base *BaseHandler, contents services.ContentService) *ContentHandler {
	return &ContentHandler{BaseHandler: base, contents: contents}
}

func (h *ContentHandler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/content")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.PATCH("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}

func (h *ContentHandler) List(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	page, pageSize := h.Pagination(c)
	items, total, err := h.contents.List(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondPaged(c, items, total, page, pageSize)
}

func (h *ContentHandler) Create(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req models.CreateContentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	content, err := h.contents.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, content)
}

func (h *ContentHandler) Get(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	content, err := h.contents.Get(c.Request.Context(), userID, c.Param("id"), isAdmin(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (h *ContentHandler) Update(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req models.UpdateContentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	content, err := h.contents.Update(c.Request.Context(), userID, c.Param("id"), &req, isAdmin(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (h *ContentHandler) Delete(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.contents.Delete(c.Request.Context(), userID, c.Param("id"), isAdmin(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func isAdmin(c *gin.Context) bool {
	return middleware.GetRole(c) == models.UserRoleAdmin
}
