package handlers

import (
	"net/http"

	"momentum_backend/internal/middleware"
	"momentum_backend/internal/models"
	"momentum_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	*BaseHandler
	products services.ProductService
}

func NewProductHandler(base *BaseHandler, products services.ProductService) *ProductHandler {
	return &ProductHandler{BaseHandler: base, products: products}
}

func (h *ProductHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Plan listing is public: the pricing page renders before login.
	group := r.Group("/products")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
	}

	admin := r.Group("/products")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.List()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.products.Get(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req models.CreateProductRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	product, err := h.products.Create(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req models.UpdateProductRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	product, err := h.products.Update(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.products.Delete(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
