package handlers

import (
	"net"
	"net/http"

	"momentum_backend/internal/config"
	"momentum_backend/internal/gateway"
	"momentum_backend/internal/logger"
	"momentum_backend/internal/middleware"
	"momentum_backend/internal/models"
	"momentum_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	payments services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, payments services.PaymentService) *PaymentHandler {
	return &PaymentHandler{BaseHandler: base, payments: payments}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/payments")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/create", h.Create)
	}

	// The webhook is unauthenticated: the gateway does not sign requests.
	// Activation still requires a payment object whose metadata references
	// an existing user and product, and the handler can additionally be
	// locked to the gateway's published subnets via configuration.
	r.POST("/payments/webhook", h.Webhook)
}

func (h *PaymentHandler) Create(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req models.CreatePaymentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.payments.CreatePayment(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PaymentHandler) Webhook(c *gin.Context) {
	if !h.fromTrustedSubnet(c) {
		logger.CtxWarn(c.Request.Context(), "webhook from untrusted address", "ip", c.ClientIP())
		c.Status(http.StatusForbidden)
		return
	}

	var notification gateway.WebhookNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		// A malformed body will never become valid; acknowledge it so the
		// gateway stops retrying.
		logger.CtxWarn(c.Request.Context(), "malformed webhook body", "error", err)
		c.Status(http.StatusOK)
		return
	}

	if err := h.payments.HandleWebhook(c.Request.Context(), &notification); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// fromTrustedSubnet checks the client IP against the configured gateway
// subnets. An empty list disables the check.
func (h *PaymentHandler) fromTrustedSubnet(c *gin.Context) bool {
	subnets := config.GetConfig().Gateway.TrustedSubnets
	if len(subnets) == 0 {
		return true
	}

	ip := net.ParseIP(c.ClientIP())
	if ip == nil {
		return false
	}

	for _, cidr := range subnets {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
