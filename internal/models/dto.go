package models

import "time"

// Request/response DTOs for the HTTP layer.

// --- auth ---

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`

	Industry                string   `json:"industry"`
	CoreMessage             string   `json:"core_message"`
	BrandVoiceTone          string   `json:"brand_voice_tone"`
	WritingStyleDescription string   `json:"writing_style_description"`
	MonthlyContentGoal      int      `json:"monthly_content_goal" validate:"min=0"`
	TargetAudiences         []string `json:"target_audiences"`
	ContentPillars          []string `json:"content_pillars"`
	GoalsPrimaryGoal        string   `json:"goals_primary_goal"`
	PreferredPlatforms      []string `json:"preferred_platforms"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// IssuedPromoCode is the promo payload included in the registration response.
type IssuedPromoCode struct {
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
	ExpiresAt     *time.Time   `json:"expiresAt"`
}

type AuthResponse struct {
	ID                  string           `json:"id"`
	FirstName           string           `json:"firstName"`
	LastName            string           `json:"lastName"`
	Email               string           `json:"email"`
	Role                UserRole         `json:"role"`
	Token               string           `json:"token"`
	FreeGenerationsLeft int              `json:"freeGenerationsLeft"`
	PromoCode           *IssuedPromoCode `json:"promoCode,omitempty"`
}

// --- users ---

type ActivateSubscriptionRequest struct {
	ProductID string `json:"productId" validate:"omitempty,uuid4"`
}

type UpdateMeRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`

	Industry                *string   `json:"industry"`
	CoreMessage             *string   `json:"core_message"`
	BrandVoiceTone          *string   `json:"brand_voice_tone"`
	WritingStyleDescription *string   `json:"writing_style_description"`
	MonthlyContentGoal      *int      `json:"monthly_content_goal" validate:"omitempty,min=0"`
	TargetAudiences         *[]string `json:"target_audiences"`
	ContentPillars          *[]string `json:"content_pillars"`
	GoalsPrimaryGoal        *string   `json:"goals_primary_goal"`
	PreferredPlatforms      *[]string `json:"preferred_platforms"`
}

// --- products ---

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,min=0"`
	Unit        string  `json:"unit" validate:"required,oneof=monthly yearly"`
	SKU         string  `json:"sku"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
	Unit        *string  `json:"unit" validate:"omitempty,oneof=monthly yearly"`
}

// --- promo codes ---

type GeneratePromoCodeRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

type ApplyPromoCodeRequest struct {
	Code          string  `json:"code" validate:"required"`
	OriginalPrice float64 `json:"originalPrice" validate:"required,gt=0"`
}

type PromoApplyResult struct {
	OriginalPrice   float64      `json:"originalPrice"`
	DiscountedPrice float64      `json:"discountedPrice"`
	DiscountValue   float64      `json:"discountValue"`
	DiscountType    DiscountType `json:"discountType"`
}

type CreatePromoCodeRequest struct {
	Code          string       `json:"code" validate:"required,min=4,max=32"`
	DiscountType  DiscountType `json:"discountType" validate:"required,oneof=percentage fixed_amount"`
	DiscountValue float64      `json:"discountValue" validate:"required,min=0"`
	IsActive      bool         `json:"isActive"`
	ExpiresAt     *time.Time   `json:"expiresAt"`
}

// --- payments ---

type CreatePaymentRequest struct {
	ProductID   string `json:"productId" validate:"required,uuid"`
	Description string `json:"description"`
	PromoCode   string `json:"promoCode"`
}

type CreatePaymentResponse struct {
	PaymentID       string  `json:"paymentId"`
	ConfirmationURL string  `json:"confirmationUrl"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// --- ai ---

type GenerateContentRequest struct {
	Prompt         string `json:"prompt" validate:"required,min=1"`
	Platform       string `json:"platform"`
	ContentType    string `json:"content_type"`
	Tone           string `json:"tone"`
	TargetAudience string `json:"target_audience"`
	Save           bool   `json:"save"`
}

// GenerateContentResponse returns the generated post together with the
// quota state after the charge, so the client can update its counter
// without a second request.
type GenerateContentResponse struct {
	Content             interface{}        `json:"content"`
	ContentID           string             `json:"contentId,omitempty"`
	FreeGenerationsLeft int                `json:"freeGenerationsLeft"`
	HasUnlimited        bool               `json:"hasUnlimitedGenerations"`
	SubscriptionStatus  SubscriptionStatus `json:"subscriptionStatus"`
}

type SuggestIdeasRequest struct {
	Platform string `json:"platform"`
	Count    int    `json:"count" validate:"omitempty,min=1,max=20"`
}

type ChatRequest struct {
	Prompt    string     `json:"prompt" validate:"required,min=1"`
	AgentName string     `json:"agentName"`
	History   []ChatTurn `json:"history" validate:"dive"`
}

type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// --- content library ---

type CreateContentRequest struct {
	Title          string     `json:"title" validate:"required,min=1,max=300"`
	Body           string     `json:"body" validate:"required"`
	Platform       string     `json:"platform" validate:"required"`
	ContentType    string     `json:"content_type" validate:"required"`
	Hashtags       []string   `json:"hashtags"`
	TargetAudience string     `json:"target_audience"`
	Status         string     `json:"status" validate:"omitempty,oneof=draft scheduled published"`
	ScheduledDate  *time.Time `json:"scheduled_date"`
}

type UpdateContentRequest struct {
	Title          *string    `json:"title" validate:"omitempty,min=1,max=300"`
	Body           *string    `json:"body"`
	Platform       *string    `json:"platform"`
	ContentType    *string    `json:"content_type"`
	Hashtags       *[]string  `json:"hashtags"`
	TargetAudience *string    `json:"target_audience"`
	Status         *string    `json:"status" validate:"omitempty,oneof=draft scheduled published"`
	ScheduledDate  *time.Time `json:"scheduled_date"`
}

// --- admin ---

type AdminUpdateUserRequest struct {
	Email              *string             `json:"email" validate:"omitempty,email"`
	FirstName          *string             `json:"firstName"`
	LastName           *string             `json:"lastName"`
	Role               *UserRole           `json:"role" validate:"omitempty,oneof=manager admin moderator support"`
	SubscriptionStatus *SubscriptionStatus `json:"subscription_status" validate:"omitempty,oneof=active expired"`
	ProductID          *string             `json:"productId" validate:"omitempty,uuid"`
}
