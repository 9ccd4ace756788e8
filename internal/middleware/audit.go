package middleware

import (
	"encoding/json"

	"momentum_backend/internal/logger"
	"momentum_backend/internal/models"
	"momentum_backend/internal/repositories"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// AuditMiddleware records a successful admin mutation in the audit log.
// The write is fire-and-forget: audit failures are logged and never fail the
// request that triggered them.
func AuditMiddleware(logs repositories.AuditLogRepository, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		userID := GetUserID(c)
		if userID == "" {
			return
		}

		details, err := json.Marshal(gin.H{
			"params": c.Request.URL.Query(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
		if err != nil {
			details = []byte("{}")
		}

		entry := &models.AuditLog{
			UserID:   userID,
			Action:   action,
			TargetID: c.Param("id"),
			Details:  datatypes.JSON(details),
		}

		go func() {
			if err := logs.CreateAudit(entry); err != nil {
				logger.Error("failed to write audit log", "action", action, "error", err)
			}
		}()
	}
}
