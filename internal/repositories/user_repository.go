package repositories

import (
	"errors"
	"time"

	"momentum_backend/internal/entitlement"
	"momentum_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	UpdateFields(userID string, fields map[string]interface{}) error
	Delete(userID string) error

	// Entitlement ledger writes
	ApplyLedger(userID string, state entitlement.LedgerState) error
	ExpireSubscription(userID string) (bool, error)
	ConsumeFreeGeneration(userID string) (bool, error)
	SaturateGenerations(userID string) error
	FindLapsed(now time.Time) ([]models.User, error)

	// Admin queries
	FindWithFilter(criteria UserFilter) ([]models.User, int64, error)
	CountAll() (int64, error)
	CountCreatedSince(since time.Time) (int64, error)
	FindActiveSubscribers() ([]models.User, error)
	RegistrationSeries(since time.Time) ([]RegistrationPoint, error)
	PlanDistribution() ([]PlanSlice, error)
}

type UserFilter struct {
	Role     models.UserRole
	Search   string
	Page     int
	PageSize int
}

type RegistrationPoint struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}

type PlanSlice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Product").Preload("PromoCode").
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	var existing models.User
	if err := r.db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(user).Error
}

func (r *UserRepositoryImpl) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepositoryImpl) UpdateFields(userID string, fields map[string]interface{}) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) Delete(userID string) error {
	result := r.db.Delete(&models.User{}, "id = ?", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ApplyLedger overwrites every ledger field with the given state. Used for
// activation: replaying the same payment event rewrites identical values.
func (r *UserRepositoryImpl) ApplyLedger(userID string, state entitlement.LedgerState) error {
	return r.UpdateFields(userID, map[string]interface{}{
		"free_generations_left":     state.FreeGenerationsLeft,
		"has_unlimited_generations": state.HasUnlimitedGenerations,
		"subscription_status":       state.Status,
		"subscription_provider":     state.Provider,
		"subscription_id":           state.SubscriptionID,
		"product_id":                state.ProductID,
		"subscription_start_date":   state.StartDate,
		"subscription_end_date":     state.EndDate,
	})
}

// ExpireSubscription revokes entitlements, guarded on the row still being
// active so overlapping sweeps and replays are no-ops. Returns whether the
// row transitioned.
func (r *UserRepositoryImpl) ExpireSubscription(userID string) (bool, error) {
	result := r.db.Model(&models.User{}).
		Where("id = ? AND subscription_status = ?", userID, models.SubscriptionStatusActive).
		Updates(map[string]interface{}{
			"subscription_status":       models.SubscriptionStatusExpired,
			"has_unlimited_generations": false,
			"free_generations_left":     0,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ConsumeFreeGeneration decrements the counter in a single conditional
// UPDATE. The predicate keeps the counter from ever going negative when
// requests race. Returns whether a unit was consumed.
func (r *UserRepositoryImpl) ConsumeFreeGeneration(userID string) (bool, error) {
	result := r.db.Model(&models.User{}).
		Where("id = ? AND free_generations_left > 0", userID).
		UpdateColumn("free_generations_left", gorm.Expr("free_generations_left - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SaturateGenerations restores the display counter for unlimited users.
func (r *UserRepositoryImpl) SaturateGenerations(userID string) error {
	return r.db.Model(&models.User{}).
		Where("id = ? AND has_unlimited_generations = ?", userID, true).
		UpdateColumn("free_generations_left", models.UnlimitedGenerationsSentinel).Error
}

func (r *UserRepositoryImpl) FindLapsed(now time.Time) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Where("subscription_status = ? AND subscription_end_date < ?", models.SubscriptionStatusActive, now).
		Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) FindWithFilter(criteria UserFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})

	if criteria.Role != "" {
		query = query.Where("role = ?", criteria.Role)
	}
	if criteria.Search != "" {
		pattern := "%" + criteria.Search + "%"
		query = query.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	var users []models.User
	err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&users).Error
	return users, total, err
}

func (r *UserRepositoryImpl) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) FindActiveSubscribers() ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("Product").
		Where("subscription_status = ? AND product_id IS NOT NULL", models.SubscriptionStatusActive).
		Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) RegistrationSeries(since time.Time) ([]RegistrationPoint, error) {
	var points []RegistrationPoint
	err := r.db.Model(&models.User{}).
		Select("date_trunc('day', created_at) AS date, count(id) AS count").
		Where("created_at >= ?", since).
		Group("date").
		Order("date ASC").
		Scan(&points).Error
	return points, err
}

func (r *UserRepositoryImpl) PlanDistribution() ([]PlanSlice, error) {
	var slices []PlanSlice
	err := r.db.Model(&models.User{}).
		Select("products.name AS name, count(users.id) AS value").
		Joins("JOIN products ON products.id = users.product_id").
		Group("products.name").
		Scan(&slices).Error
	return slices, err
}
