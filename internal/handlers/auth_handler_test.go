package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"momentum_backend/internal/config"
	"momentum_backend/internal/email"
	"momentum_backend/internal/logger"
	"momentum_backend/internal/models"
	"momentum_backend/internal/repositories"
	"momentum_backend/internal/services"
	"momentum_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = "test-secret"
	config.AppConfig.JWT.TTL = 60
	logger.Init("test")
}

// newAuthRouter assembles the auth and user routes over an isolated
// in-memory database.
func newAuthRouter(t *testing.T) *gin.Engine {
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

	userRepo := repositories.NewUserRepository(db)
	promoRepo := repositories.NewPromoCodeRepository(db)
	logRepo := repositories.NewActionLogRepository(db)
	mailer := email.NewSMTPProvider(config.GetConfig())

	promoSvc := services.NewPromoCodeService(promoRepo, mailer)
	entitlementSvc := services.NewEntitlementService(userRepo)
	authSvc := services.NewAuthService(userRepo, promoSvc, logRepo, mailer)
	userSvc := services.NewUserService(userRepo)

	base := NewBaseHandler(validator.New())

	router := gin.New()
	api := router.Group("/api/v1")
	NewAuthHandler(base, authSvc).RegisterRoutes(api)
	NewUserHandler(base, userSvc, entitlementSvc).RegisterRoutes(api)
	NewPromoCodeHandler(base, promoSvc).RegisterRoutes(api)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginFlow(t *testing.T) {
	router := newAuthRouter(t)

	rec := postJSON(t, router, "/api/v1/auth/register", gin.H{
		"firstName": "Alice",
		"lastName":  "Ivanova",
		"email":     "alice@momentum.test",
		"password":  "correct-horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var registered models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, models.FreeGenerationsGrant, registered.FreeGenerationsLeft)
	require.NotNil(t, registered.PromoCode)
	assert.Len(t, registered.PromoCode.Code, 10)

	rec = postJSON(t, router, "/api/v1/auth/login", gin.H{
		"email":    "alice@momentum.test",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var logged models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logged))
	assert.Equal(t, registered.ID, logged.ID)
	assert.NotEmpty(t, logged.Token)

	// The issued token authenticates the profile endpoint.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+logged.Token)
	me := httptest.NewRecorder()
	router.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code, me.Body.String())

	var profile map[string]any
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &profile))
	assert.Equal(t, "alice@momentum.test", profile["email"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := newAuthRouter(t)

	payload := gin.H{
		"firstName": "Bob",
		"lastName":  "Petrov",
		"email":     "bob@momentum.test",
		"password":  "correct-horse",
	}
	rec := postJSON(t, router, "/api/v1/auth/register", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/api/v1/auth/register", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestRegisterValidation(t *testing.T) {
	router := newAuthRouter(t)

	rec := postJSON(t, router, "/api/v1/auth/register", gin.H{
		"firstName": "Eve",
		"lastName":  "Short",
		"email":     "not-an-email",
		"password":  "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestLoginWrongPassword(t *testing.T) {
	router := newAuthRouter(t)

	rec := postJSON(t, router, "/api/v1/auth/register", gin.H{
		"firstName": "Carol",
		"lastName":  "Sidorova",
		"email":     "carol@momentum.test",
		"password":  "correct-horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/api/v1/auth/login", gin.H{
		"email":    "carol@momentum.test",
		"password": "wrong-horse",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
}

func TestProfileRequiresToken(t *testing.T) {
	router := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
