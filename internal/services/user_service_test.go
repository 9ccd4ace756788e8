package services

import (
	"context"
	"testing"

	"momentum_backend/internal/models"
	"momentum_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMe_ResaturatesUnlimitedCounter(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repositories.NewUserRepository(db))
	user := createTestUser(t, db, "drifted@momentum.test")

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"has_unlimited_generations": true,
			"free_generations_left":     7,
		}).Error)

	me, err := svc.GetMe(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UnlimitedGenerationsSentinel, me.FreeGenerationsLeft)
}

func TestUpdateMe_PartialUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repositories.NewUserRepository(db))
	user := createTestUser(t, db, "editor@momentum.test")
	ctx := context.Background()

	industry := "fitness"
	pillars := []string{"training", "nutrition"}
	updated, err := svc.UpdateMe(ctx, user.ID, &models.UpdateMeRequest{
		Industry:       &industry,
		ContentPillars: &pillars,
	})
	require.NoError(t, err)

	assert.Equal(t, "fitness", updated.Industry)
	assert.Equal(t, "Test", updated.FirstName)
	assert.JSONEq(t, `["training","nutrition"]`, string(updated.ContentPillars))
}

func TestUpdateMe_EmailCollisionRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repositories.NewUserRepository(db))
	createTestUser(t, db, "taken@momentum.test")
	user := createTestUser(t, db, "mover@momentum.test")

	taken := "taken@momentum.test"
	_, err := svc.UpdateMe(context.Background(), user.ID, &models.UpdateMeRequest{Email: &taken})
	require.Error(t, err)
}
