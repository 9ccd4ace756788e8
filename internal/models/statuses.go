package models

type UserRole string
type SubscriptionStatus string
type DiscountType string
type ContentStatus string

const (
	UserRoleManager   UserRole = "manager"
	UserRoleAdmin     UserRole = "admin"
	UserRoleModerator UserRole = "moderator"
	UserRoleSupport   UserRole = "support"

	// SubscriptionStatusNone is the zero value: the user never subscribed.
	// It is kept distinct from "expired" for messaging purposes.
	SubscriptionStatusNone    SubscriptionStatus = ""
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusExpired SubscriptionStatus = "expired"

	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"

	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusScheduled ContentStatus = "scheduled"
	ContentStatusPublished ContentStatus = "published"
)

// Entitlement constants shared by registration, activation and the quota gate.
const (
	// FreeGenerationsGrant is the starting quota for a new account.
	FreeGenerationsGrant = 5

	// UnlimitedGenerationsSentinel keeps the counter saturated for unlimited
	// users. Display/safety value only; the gate never consults it for them.
	UnlimitedGenerationsSentinel = 1000
)
