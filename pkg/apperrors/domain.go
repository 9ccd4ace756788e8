package apperrors

import "net/http"

// Domain-specific error factories. Handlers and services return these so the
// HTTP layer can map them without switching on strings.

// --- users ---

func UserNotFound() *AppError {
	return New(CodeNotFound, "user", "User not found", http.StatusNotFound)
}

func UserAlreadyExists() *AppError {
	return New(CodeAlreadyExists, "user", "User already exists", http.StatusBadRequest)
}

func InvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)
}

// --- entitlement / quota ---

// QuotaExhausted carries the user-facing upsell message for the quota gate.
func QuotaExhausted() *AppError {
	return New(CodeLimitExceeded, "entitlement",
		"You have used all of your free content generations. Please purchase a subscription to continue.",
		http.StatusForbidden)
}

// --- promo codes ---

func PromoCodeNotFound() *AppError {
	return New(CodeNotFound, "promocode", "Promo code not found", http.StatusNotFound)
}

func PromoCodeInactive() *AppError {
	return New(CodeInvalidStatus, "promocode", "Promo code is not active", http.StatusBadRequest)
}

func PromoCodeExpired() *AppError {
	return New(CodeInvalidStatus, "promocode", "Promo code has expired", http.StatusBadRequest)
}

// PromoCodeExhaustedAttempts signals that the generator could not find a free
// code within its attempt limit.
func PromoCodeExhaustedAttempts(err error) *AppError {
	return Wrap(err, CodeConflict, "promocode",
		"Could not generate a unique promo code after several attempts", http.StatusConflict)
}

// --- products ---

func ProductNotFound() *AppError {
	return New(CodeNotFound, "product", "Product not found", http.StatusNotFound)
}

// --- content ---

func ContentNotFound() *AppError {
	return New(CodeNotFound, "content", "Content not found", http.StatusNotFound)
}

// --- upstream collaborators ---

// UpstreamError maps a payment-gateway or AI-provider failure. These are
// retry-safe for the caller: no ledger state was mutated.
func UpstreamError(domain string, err error) *AppError {
	return Wrap(err, CodeExternalServiceError, domain,
		"External service failed. Please try again.", http.StatusBadGateway)
}

// UpstreamTimeout is returned when the external call exceeded its deadline.
func UpstreamTimeout(domain string, err error) *AppError {
	return Wrap(err, CodeExternalTimeout, domain,
		"External service timed out. Please try again.", http.StatusGatewayTimeout)
}

// MalformedUpstreamResponse is returned when the provider replied with a
// payload we could not parse. Recoverable: the caller should retry.
func MalformedUpstreamResponse(domain string, err error) *AppError {
	return Wrap(err, CodeExternalServiceError, domain,
		"AI service returned an invalid format. Please try regenerating.", http.StatusBadGateway)
}
