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

func newEntitlementService(t *testing.T) (*EntitlementServiceImpl, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewEntitlementService(repositories.NewUserRepository(db)), db
}

func TestConsumeGeneration_DecrementsToZero(t *testing.T) {
	svc, db := newEntitlementService(t)
	user := createTestUser(t, db, "meter@momentum.test")
	ctx := context.Background()

	for expected := models.FreeGenerationsGrant - 1; expected >= 0; expected-- {
		updated, err := svc.ConsumeGeneration(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, expected, updated.FreeGenerationsLeft)
	}

	_, err := svc.ConsumeGeneration(ctx, user.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeLimitExceeded, appErr.Code)

	// The stored counter never goes negative.
	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, 0, stored.FreeGenerationsLeft)
}

func TestConsumeGeneration_UnlimitedBypassesCounter(t *testing.T) {
	svc, db := newEntitlementService(t)
	user := createTestUser(t, db, "unlim@momentum.test")
	ctx := context.Background()

	product := createTestProduct(t, db, "plan", 1000)
	require.NoError(t, svc.ActivateFromPayment(ctx, user.ID, "yookassa", "pay-1", product.ID))

	for i := 0; i < 3; i++ {
		updated, err := svc.ConsumeGeneration(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, models.UnlimitedGenerationsSentinel, updated.FreeGenerationsLeft)
	}
}

func TestCheckGeneration_QuotaExhausted(t *testing.T) {
	svc, db := newEntitlementService(t)
	user := createTestUser(t, db, "empty@momentum.test")
	ctx := context.Background()

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("free_generations_left", 0).Error)

	_, err := svc.CheckGeneration(ctx, user.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeLimitExceeded, appErr.Code)
	assert.Equal(t, 403, appErr.HTTPCode)
}

func TestActivateFromPayment_SetsFullLedger(t *testing.T) {
	svc, db := newEntitlementService(t)
	user := createTestUser(t, db, "buyer@momentum.test")
	product := createTestProduct(t, db, "plan", 1990)
	ctx := context.Background()

	fixed := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	require.NoError(t, svc.ActivateFromPayment(ctx, user.ID, "yookassa", "pay-42", product.ID))

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)

	assert.True(t, stored.HasUnlimitedGenerations)
	assert.Equal(t, models.UnlimitedGenerationsSentinel, stored.FreeGenerationsLeft)
	assert.Equal(t, models.SubscriptionStatusActive, stored.SubscriptionStatus)
	assert.Equal(t, "yookassa", stored.SubscriptionProvider)
	assert.Equal(t, "pay-42", stored.SubscriptionID)
	require.NotNil(t, stored.ProductID)
	assert.Equal(t, product.ID, *stored.ProductID)
	require.NotNil(t, stored.SubscriptionEndDate)
	assert.Equal(t, fixed.AddDate(0, 1, 0), stored.SubscriptionEndDate.UTC())
}

func TestActivateFromPayment_ReplayIsIdempotent(t *testing.T) {
	svc, db := newEntitlementService(t)
	user := createTestUser(t, db, "replay@momentum.test")
	product := createTestProduct(t, db, "plan", 1990)
	ctx := context.Background()

	fixed := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	require.NoError(t, svc.ActivateFromPayment(ctx, user.ID, "yookassa", "pay-7", product.ID))
	require.NoError(t, svc.ActivateFromPayment(ctx, user.ID, "yookassa", "pay-7", product.ID))

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "pay-7", stored.SubscriptionID)
	assert.Equal(t, fixed.AddDate(0, 1, 0), stored.SubscriptionEndDate.UTC())
}

func TestExpire_TransitionsOnce(t *testing.T) {
	svc, db := newEntitlementService(t)
	user := createTestUser(t, db, "lapsed@momentum.test")
	product := createTestProduct(t, db, "plan", 1990)
	ctx := context.Background()

	require.NoError(t, svc.ActivateFromPayment(ctx, user.ID, "yookassa", "pay-9", product.ID))

	transitioned, err := svc.Expire(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, transitioned)

	// Second expire is a no-op: the row is no longer active.
	transitioned, err = svc.Expire(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, transitioned)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, models.SubscriptionStatusExpired, stored.SubscriptionStatus)
	assert.False(t, stored.HasUnlimitedGenerations)
	assert.Equal(t, 0, stored.FreeGenerationsLeft)
}

func TestManualActivate_RecordsSyntheticProvider(t *testing.T) {
	svc, db := newEntitlementService(t)
	user := createTestUser(t, db, "granted@momentum.test")
	product := createTestProduct(t, db, "plan", 1990)

	require.NoError(t, svc.ManualActivate(context.Background(), user.ID, product.ID))

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "manual", stored.SubscriptionProvider)
	assert.True(t, stored.HasUnlimitedGenerations)
}
