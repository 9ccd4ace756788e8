package services

import (
	"context"
	"testing"
	"time"

	"momentum_backend/internal/models"
	"momentum_backend/internal/repositories"
	"momentum_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthServiceImpl, *gorm.DB, *fakeMailer) {
	t.Helper()
	db := newTestDB(t)
	mailer := &fakeMailer{}
	users := repositories.NewUserRepository(db)
	promos := NewPromoCodeService(repositories.NewPromoCodeRepository(db), mailer)
	return NewAuthService(users, promos, repositories.NewActionLogRepository(db), mailer), db, mailer
}

func TestRegister_GrantsStartingQuotaAndPromo(t *testing.T) {
	svc, db, _ := newAuthService(t)

	resp, err := svc.Register(context.Background(), &models.RegisterRequest{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@momentum.test",
		Password:  "supersecret",
		Industry:  "fitness",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.UserRoleManager, resp.Role)
	assert.Equal(t, models.FreeGenerationsGrant, resp.FreeGenerationsLeft)
	require.NotNil(t, resp.PromoCode)
	assert.Len(t, resp.PromoCode.Code, 10)
	assert.Equal(t, 30.0, resp.PromoCode.DiscountValue)

	var stored models.User
	require.NoError(t, db.First(&stored, "email = ?", "alice@momentum.test").Error)
	assert.Equal(t, models.SubscriptionStatusNone, stored.SubscriptionStatus)
	assert.False(t, stored.HasUnlimitedGenerations)
	assert.NotEqual(t, "supersecret", stored.PasswordHash)
	require.NotNil(t, stored.PromoCodeID)
}

func TestRegister_SendsWelcomeEmail(t *testing.T) {
	svc, _, mailer := newAuthService(t)

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		FirstName: "Gail",
		LastName:  "North",
		Email:     "gail@momentum.test",
		Password:  "supersecret",
	})
	require.NoError(t, err)

	// Delivery is asynchronous and must not block registration.
	require.Eventually(t, func() bool {
		return mailer.welcomedTo("gail@momentum.test")
	}, time.Second, 10*time.Millisecond)
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	req := &models.RegisterRequest{
		FirstName: "Bob",
		LastName:  "Jones",
		Email:     "bob@momentum.test",
		Password:  "supersecret",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeAlreadyExists, appErr.Code)
}

func TestRegister_ShortPasswordRejected(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		FirstName: "Eve",
		LastName:  "Short",
		Email:     "eve@momentum.test",
		Password:  "short",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestLogin_Succeeds(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{
		FirstName: "Carol",
		LastName:  "King",
		Email:     "carol@momentum.test",
		Password:  "supersecret",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &models.LoginRequest{
		Email:    "carol@momentum.test",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{
		FirstName: "Dan",
		LastName:  "Miller",
		Email:     "dan@momentum.test",
		Password:  "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{
		Email:    "dan@momentum.test",
		Password: "wrongpass1",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidCredentials, appErr.Code)
}

func TestLogin_UnknownEmailSameErrorAsWrongPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "ghost@momentum.test",
		Password: "whatever1",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidCredentials, appErr.Code)
}

func TestLogin_ResaturatesUnlimitedCounter(t *testing.T) {
	svc, db, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{
		FirstName: "Fay",
		LastName:  "Wells",
		Email:     "fay@momentum.test",
		Password:  "supersecret",
	})
	require.NoError(t, err)

	// Simulate a drifted counter on an unlimited account.
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "fay@momentum.test").
		Updates(map[string]interface{}{
			"has_unlimited_generations": true,
			"free_generations_left":     123,
		}).Error)

	resp, err := svc.Login(ctx, &models.LoginRequest{
		Email:    "fay@momentum.test",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UnlimitedGenerationsSentinel, resp.FreeGenerationsLeft)

	var stored models.User
	require.NoError(t, db.First(&stored, "email = ?", "fay@momentum.test").Error)
	assert.Equal(t, models.UnlimitedGenerationsSentinel, stored.FreeGenerationsLeft)
}
