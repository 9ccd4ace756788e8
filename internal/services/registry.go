package services

// ServiceContainer aggregates all application services for handler wiring.
type ServiceContainer struct {
	Auth        AuthService
	User        UserService
	Entitlement EntitlementService
	PromoCode   PromoCodeService
	Product     ProductService
	Payment     PaymentService
	AI          AIService
	Content     ContentService
	Admin       AdminService
}
