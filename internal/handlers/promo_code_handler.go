package handlers

import (
	"net/http"

	"momentum_backend/internal/middleware"
	"momentum_backend/internal/models"
	"momentum_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PromoCodeHandler struct {
	*BaseHandler
	promos services.PromoCodeService
}

func NewPromoCodeHandler(base *BaseHandler, promos services.PromoCodeService) *PromoCodeHandler {
	return &PromoCodeHandler{BaseHandler: base, promos: promos}
}

func (h *PromoCodeHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Generation and quoting are public: visitors request a welcome code
	// before they have an account, and the checkout page quotes discounts
	// pre-login. Codes carry no purchasing power by themselves.
	group := r.Group("/promo-codes")
	{
		group.POST("/generate", h.Generate)
		group.POST("/apply", h.Apply)
	}

	admin := r.Group("/promo-codes")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("", h.List)
		admin.POST("", h.Create)
		admin.DELETE("/:id", h.Deactivate)
	}
}

// Apply quotes the discounted price for a code without consuming it.
func (h *PromoCodeHandler) Apply(c *gin.Context) {
	var req models.ApplyPromoCodeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result, err := h.promos.Apply(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PromoCodeHandler) List(c *gin.Context) {
	codes, err := h.promos.List()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, codes)
}

func (h *PromoCodeHandler) Create(c *gin.Context) {
	var req models.CreatePromoCodeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	promo, err := h.promos.Create(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, promo)
}

// Generate issues a fresh welcome code, optionally emailing it.
func (h *PromoCodeHandler) Generate(c *gin.Context) {
	var req models.GeneratePromoCodeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	var promo *models.PromoCode
	var err error
	if req.Email != "" {
		promo, err = h.promos.GenerateForEmail(req.Email)
	} else {
		promo, err = h.promos.Generate()
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, promo)
}

func (h *PromoCodeHandler) Deactivate(c *gin.Context) {
	if err := h.promos.Deactivate(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
