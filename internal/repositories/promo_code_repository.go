package repositories

import (
	"errors"

	"momentum_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPromoCodeNotFound  = errors.New("promo code not found")
	ErrPromoCodeDuplicate = errors.New("promo code already exists")
)

type PromoCodeRepository interface {
	Create(code *models.PromoCode) error
	FindByCode(code string) (*models.PromoCode, error)
	CodeExists(code string) (bool, error)
	FindAll() ([]models.PromoCode, error)
	Deactivate(id string) error
}

type PromoCodeRepositoryImpl struct {
	db *gorm.DB
}

func NewPromoCodeRepository(db *gorm.DB) PromoCodeRepository {
	return &PromoCodeRepositoryImpl{db: db}
}

func (r *PromoCodeRepositoryImpl) Create(code *models.PromoCode) error {
	if err := r.db.Create(code).Error; err != nil {
		// The unique index on code is the authoritative duplicate check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPromoCodeDuplicate
		}
		return err
	}
	return nil
}

func (r *PromoCodeRepositoryImpl) FindByCode(code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := r.db.First(&promo, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoCodeNotFound
		}
		return nil, err
	}
	return &promo, nil
}

func (r *PromoCodeRepositoryImpl) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PromoCode{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *PromoCodeRepositoryImpl) FindAll() ([]models.PromoCode, error) {
	var codes []models.PromoCode
	err := r.db.Order("created_at DESC").Find(&codes).Error
	return codes, err
}

func (r *PromoCodeRepositoryImpl) Deactivate(id string) error {
	result := r.db.Model(&models.PromoCode{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPromoCodeNotFound
	}
	return nil
}
