package services

import (
	"fmt"
	"sync"
	"testing"

	"momentum_backend/internal/config"
	"momentum_backend/internal/models"
	"momentum_backend/internal/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = "test-secret"
	config.AppConfig.JWT.TTL = 60
	config.AppConfig.FirstAdminEmail = "root@momentum.test"
}

// newTestDB opens an isolated in-memory database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.PromoCode{},
		&models.User{},
		&models.Content{},
		&models.ActionLog{},
		&models.AuditLog{},
	))
	return db
}

// fakeMailer records sent mail instead of touching SMTP.
type fakeMailer struct {
	mu       sync.Mutex
	sent     []string
	codes    []string
	welcomed []string
}

func (m *fakeMailer) SendPromoCode(to, code string, discountPercent float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	m.codes = append(m.codes, code)
	return nil
}

func (m *fakeMailer) SendWelcome(to, firstName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomed = append(m.welcomed, to)
	return nil
}

func (m *fakeMailer) welcomedTo(to string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, addr := range m.welcomed {
		if addr == to {
			return true
		}
	}
	return false
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:               email,
		PasswordHash:        "x",
		FirstName:           "Test",
		LastName:            "User",
		Role:                models.UserRoleManager,
		FreeGenerationsLeft: models.FreeGenerationsGrant,
	}
	require.NoError(t, repositories.NewUserRepository(db).Create(user))
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:  name,
		Price: price,
		Unit:  "monthly",
		SKU:   name,
	}
	require.NoError(t, repositories.NewProductRepository(db).Create(product))
	return product
}
