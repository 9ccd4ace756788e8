package handlers

import (
	"momentum_backend/internal/repositories"
	"momentum_backend/internal/services"
	"momentum_backend/internal/validator"
)

// AppHandlers aggregates every HTTP handler for route registration.
type AppHandlers struct {
	Auth      *AuthHandler
	User      *UserHandler
	Product   *ProductHandler
	PromoCode *PromoCodeHandler
	Payment   *PaymentHandler
	AI        *AIHandler
	Content   *ContentHandler
	Admin     *AdminHandler
}

func NewAppHandlers(sc *services.ServiceContainer, audits repositories.AuditLogRepository, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		Auth:      NewAuthHandler(base, sc.Auth),
		User:      NewUserHandler(base, sc.User, sc.Entitlement),
		Product:   NewProductHandler(base, sc.Product),
		PromoCode: NewPromoCodeHandler(base, sc.PromoCode),
		Payment:   NewPaymentHandler(base, sc.Payment),
		AI:        NewAIHandler(base, sc.AI),
		Content:   NewContentHandler(base, sc.Content),
		Admin:     NewAdminHandler(base, sc.Admin, audits),
	}
}
