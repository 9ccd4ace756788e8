package handlers

import (
	"net/http"

	"momentum_backend/internal/middleware"
	"momentum_backend/internal/models"
	"momentum_backend/internal/services"
	"momentum_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	users       services.UserService
	entitlement services.EntitlementService
}

func NewUserHandler(base *BaseHandler, users services.UserService, entitlement services.EntitlementService) *UserHandler {
	return &UserHandler{BaseHandler: base, users: users, entitlement: entitlement}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/users")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("/me", h.GetMe)
		group.PUT("/me", h.UpdateMe)
		group.PATCH("/me", h.UpdateMe)
		group.PUT("/me/activate-subscription", h.ActivateSubscription)
	}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetMe(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, userProfileView(user))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req models.UpdateMeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateMe(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, userProfileView(user))
}

// ActivateSubscription grants the caller an active subscription without a
// gateway payment. The product defaults to the one already attached to the
// account, so a lapsed subscriber can be reinstated with an empty body.
func (h *UserHandler) ActivateSubscription(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req models.ActivateSubscriptionRequest
	if c.Request.ContentLength > 0 && !h.BindAndValidateJSON(c, &req) {
		return
	}

	productID := req.ProductID
	if productID == "" {
		user, err := h.users.GetMe(c.Request.Context(), userID)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		if user.ProductID != nil {
			productID = *user.ProductID
		}
	}
	if productID == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("productId is required for accounts without a previous plan"))
		return
	}

	if err := h.entitlement.ManualActivate(c.Request.Context(), userID, productID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	user, err := h.users.GetMe(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userProfileView(user))
}

// userProfileView strips the password hash and renders the fields the
// client dashboard consumes.
func userProfileView(u *models.User) gin.H {
	return gin.H{
		"id":                        u.ID,
		"email":                     u.Email,
		"firstName":                 u.FirstName,
		"lastName":                  u.LastName,
		"role":                      u.Role,
		"industry":                  u.Industry,
		"core_message":              u.CoreMessage,
		"brand_voice_tone":          u.BrandVoiceTone,
		"writing_style_description": u.WritingStyleDescription,
		"monthly_content_goal":      u.MonthlyContentGoal,
		"target_audiences":          u.TargetAudiences,
		"content_pillars":           u.ContentPillars,
		"goals_primary_goal":        u.GoalsPrimaryGoal,
		"preferred_platforms":       u.PreferredPlatforms,
		"freeGenerationsLeft":       u.FreeGenerationsLeft,
		"hasUnlimitedGenerations":   u.HasUnlimitedGenerations,
		"subscriptionStatus":        u.SubscriptionStatus,
		"subscriptionEndDate":       u.SubscriptionEndDate,
		"product":                   u.Product,
		"createdAt":                 u.CreatedAt,
	}
}
