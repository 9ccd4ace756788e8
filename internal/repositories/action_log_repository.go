package repositories

import (
	"time"

	"momentum_backend/internal/models"

	"gorm.io/gorm"
)

type ActionCount struct {
	Action string `json:"action"`
	Count  int64  `json:"count"`
}

// ActionLogRepository stores end-user activity events. Writes are append-only.
type ActionLogRepository interface {
	Create(entry *models.ActionLog) error
	FindByUser(userID string, limit int) ([]models.ActionLog, error)
	FindRecent(action string, page, pageSize int) ([]models.ActionLog, int64, error)
	TopActions(since time.Time, limit int) ([]ActionCount, error)
	CountByAction(action string, since time.Time) (int64, error)
}

// AuditFilter narrows back-office audit queries.
type AuditFilter struct {
	UserID   string
	Action   string
	Page     int
	PageSize int
}

// AuditLogRepository stores admin back-office mutations. Append-only as well.
type AuditLogRepository interface {
	CreateAudit(entry *models.AuditLog) error
	FindAudits(filter AuditFilter) ([]models.AuditLog, int64, error)
}

type ActionLogRepositoryImpl struct {
	db *gorm.DB
}

func NewActionLogRepository(db *gorm.DB) *ActionLogRepositoryImpl {
	return &ActionLogRepositoryImpl{db: db}
}

func (r *ActionLogRepositoryImpl) Create(entry *models.ActionLog) error {
	return r.db.Create(entry).Error
}

func (r *ActionLogRepositoryImpl) FindByUser(userID string, limit int) ([]models.ActionLog, error) {
	if limit < 1 {
		limit = 50
	}
	var entries []models.ActionLog
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *ActionLogRepositoryImpl) FindRecent(action string, page, pageSize int) ([]models.ActionLog, int64, error) {
	query := r.db.Model(&models.ActionLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var entries []models.ActionLog
	err := query.Preload("User").
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&entries).Error
	return entries, total, err
}

func (r *ActionLogRepositoryImpl) TopActions(since time.Time, limit int) ([]ActionCount, error) {
	if limit < 1 {
		limit = 5
	}
	var counts []ActionCount
	err := r.db.Model(&models.ActionLog{}).
		Select("action, count(id) AS count").
		Where("created_at >= ?", since).
		Group("action").
		Order("count DESC").
		Limit(limit).
		Scan(&counts).Error
	return counts, err
}

func (r *ActionLogRepositoryImpl) CountByAction(action string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.ActionLog{}).
		Where("action = ? AND created_at >= ?", action, since).
		Count(&count).Error
	return count, err
}

func (r *ActionLogRepositoryImpl) CreateAudit(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *ActionLogRepositoryImpl) FindAudits(filter AuditFilter) ([]models.AuditLog, int64, error) {
	query := r.db.Model(&models.AuditLog{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var entries []models.AuditLog
	err := query.Preload("User").
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&entries).Error
	return entries, total, err
}
