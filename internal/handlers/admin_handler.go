package handlers

import (
	"net/http"

	"momentum_backend/internal/middleware"
	"momentum_backend/internal/models"
	"momentum_backend/internal/repositories"
	"momentum_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	admin  services.AdminService
	audits repositories.AuditLogRepository
}

func NewAdminHandler(base *BaseHandler, admin services.AdminService, audits repositories.AuditLogRepository) *AdminHandler {
	return &AdminHandler{BaseHandler: base, admin: admin, audits: audits}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/admin")
	group.Use(middleware.AuthMiddleware())

	// Read endpoints are open to the whole back-office staff.
	staff := group.Group("")
	staff.Use(middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleModerator, models.UserRoleSupport))
	{
		staff.GET("/dashboard", h.Dashboard)
		staff.GET("/users", h.Users)
		staff.GET("/users/:id", h.GetUser)
		staff.GET("/content-log", h.ContentLog)
	}

	// Mutations are admin-only and audited.
	admin := group.Group("")
	admin.Use(middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.PATCH("/users/:id", middleware.AuditMiddleware(h.audits, "admin_update_user"), h.UpdateUser)
		admin.DELETE("/users/:id", middleware.AuditMiddleware(h.audits, "admin_delete_user"), h.DeleteUser)
		admin.GET("/audit-logs", h.AuditLogs)
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) Users(c *gin.Context) {
	page, pageSize := h.Pagination(c)
	criteria := repositories.UserFilter{
		Role:     models.UserRole(c.Query("role")),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}

	users, total, err := h.admin.Users(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	views := make([]gin.H, 0, len(users))
	for i := range users {
		views = append(views, adminUserView(&users[i]))
	}
	h.RespondPaged(c, views, total, page, pageSize)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.admin.GetUser(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adminUserView(user))
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	actorID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req models.AdminUpdateUserRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.admin.UpdateUser(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adminUserView(user))
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actorID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), actorID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) AuditLogs(c *gin.Context) {
	page, pageSize := h.Pagination(c)
	entries, total, err := h.admin.AuditLogs(repositories.AuditFilter{
		UserID:   c.Query("userId"),
		Action:   c.Query("action"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondPaged(c, entries, total, page, pageSize)
}

func (h *AdminHandler) ContentLog(c *gin.Context) {
	page, pageSize := h.Pagination(c)
	entries, total, err := h.admin.ContentLog(page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondPaged(c, entries, total, page, pageSize)
}

func adminUserView(u *models.User) gin.H {
	return gin.H{
		"id":                      u.ID,
		"email":                   u.Email,
		"firstName":               u.FirstName,
		"lastName":                u.LastName,
		"role":                    u.Role,
		"freeGenerationsLeft":     u.FreeGenerationsLeft,
		"hasUnlimitedGenerations": u.HasUnlimitedGenerations,
		"subscriptionStatus":      u.SubscriptionStatus,
		"subscriptionProvider":    u.SubscriptionProvider,
		"subscriptionEndDate":     u.SubscriptionEndDate,
		"productId":               u.ProductID,
		"createdAt":               u.CreatedAt,
	}
}
