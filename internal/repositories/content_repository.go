package repositories

import (
	"errors"

	"momentum_backend/internal/models"

	"gorm.io/gorm"
)

var ErrContentNotFound = errors.New("content not found")

type ContentRepository interface {
	Create(content *models.Content) error
	FindByID(id string) (*models.Content, error)
	FindByUser(userID string, page, pageSize int) ([]models.Content, int64, error)
	Update(content *models.Content) error
	Delete(id string) error
}

type ContentRepositoryImpl struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &ContentRepositoryImpl{db: db}
}

func (r *ContentRepositoryImpl) Create(content *models.Content) error {
	return r.db.Create(content).Error
}

func (r *ContentRepositoryImpl) FindByID(id string) (*models.Content, error) {
	var content models.Content
	err := r.db.First(&content, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &content, nil
}

func (r *ContentRepositoryImpl) FindByUser(userID string, page, pageSize int) ([]models.Content, int64, error) {
	query := r.db.Model(&models.Content{}).Where("user_id = ?", userID)

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

	var items []models.Content
	err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&items).Error
	return items, total, err
}

func (r *ContentRepositoryImpl) Update(content *models.Content) error {
	return r.db.Save(content).Error
}

func (r *ContentRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.Content{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContentNotFound
	}
	return nil
}
