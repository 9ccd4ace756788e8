package services

import (
	"regexp"
	"testing"
	"time"

	"momentum_backend/internal/models"
	"momentum_backend/internal/repositories"
	"momentum_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPromoService(t *testing.T) (*PromoCodeServiceImpl, *fakeMailer) {
	t.Helper()
	db := newTestDB(t)
	mailer := &fakeMailer{}
	return NewPromoCodeService(repositories.NewPromoCodeRepository(db), mailer), mailer
}

func TestPromoGenerate_Format(t *testing.T) {
	svc, _ := newPromoService(t)

	promo, err := svc.Generate()
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{10}$`), promo.Code)
	assert.Equal(t, models.DiscountTypePercentage, promo.DiscountType)
	assert.Equal(t, 30.0, promo.DiscountValue)
	assert.True(t, promo.IsActive)
	require.NotNil(t, promo.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), *promo.ExpiresAt, time.Minute)
}

func TestPromoGenerate_UniqueCodes(t *testing.T) {
	svc, _ := newPromoService(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		promo, err := svc.Generate()
		require.NoError(t, err)
		assert.False(t, seen[promo.Code], "duplicate code issued: %s", promo.Code)
		seen[promo.Code] = true
	}
}

func TestPromoGenerate_RetriesOnCollision(t *testing.T) {
	svc, _ := newPromoService(t)

	_, err := svc.Create(&models.CreatePromoCodeRequest{
		Code:          "AAAAAAAAAA",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
		IsActive:      true,
	})
	require.NoError(t, err)

	// The first two draws collide with the existing code; the third is free.
	draws := []string{"AAAAAAAAAA", "AAAAAAAAAA", "BBBBBBBBBB"}
	svc.randCode = func() (string, error) {
		code := draws[0]
		draws = draws[1:]
		return code, nil
	}

	promo, err := svc.Generate()
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBBBB", promo.Code)
	assert.Empty(t, draws)
}

// blindExistsRepo reports every candidate as free so the unique index is
// the only duplicate defense, mimicking an insert racing past the check.
type blindExistsRepo struct {
	repositories.PromoCodeRepository
}

func (blindExistsRepo) CodeExists(code string) (bool, error) { return false, nil }

func TestPromoGenerate_ConcurrentInsertCountsAsCollision(t *testing.T) {
	db := newTestDB(t)
	real := repositories.NewPromoCodeRepository(db)
	svc := NewPromoCodeService(blindExistsRepo{real}, &fakeMailer{})

	require.NoError(t, real.Create(&models.PromoCode{
		Code:          "DDDDDDDDDD",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
		IsActive:      true,
	}))

	draws := []string{"DDDDDDDDDD", "EEEEEEEEEE"}
	svc.randCode = func() (string, error) {
		code := draws[0]
		draws = draws[1:]
		return code, nil
	}

	// The duplicate insert surfaces as a retry, not an internal error.
	promo, err := svc.Generate()
	require.NoError(t, err)
	assert.Equal(t, "EEEEEEEEEE", promo.Code)
}

func TestPromoGenerate_GivesUpAfterMaxAttempts(t *testing.T) {
	svc, _ := newPromoService(t)

	_, err := svc.Create(&models.CreatePromoCodeRequest{
		Code:          "CCCCCCCCCC",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
		IsActive:      true,
	})
	require.NoError(t, err)

	attempts := 0
	svc.randCode = func() (string, error) {
		attempts++
		return "CCCCCCCCCC", nil
	}

	_, err = svc.Generate()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.Equal(t, maxGenerationAttempts, attempts)
}

func TestPromoApply_PercentageDiscount(t *testing.T) {
	svc, _ := newPromoService(t)

	promo, err := svc.Generate()
	require.NoError(t, err)

	result, err := svc.Apply(&models.ApplyPromoCodeRequest{Code: promo.Code, OriginalPrice: 1000})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, result.OriginalPrice)
	assert.Equal(t, 700.0, result.DiscountedPrice)
	assert.Equal(t, models.DiscountTypePercentage, result.DiscountType)
}

func TestPromoApply_FixedAmountDiscount(t *testing.T) {
	svc, _ := newPromoService(t)

	_, err := svc.Create(&models.CreatePromoCodeRequest{
		Code:          "FLAT150",
		DiscountType:  models.DiscountTypeFixedAmount,
		DiscountValue: 150,
		IsActive:      true,
	})
	require.NoError(t, err)

	result, err := svc.Apply(&models.ApplyPromoCodeRequest{Code: "FLAT150", OriginalPrice: 1000})
	require.NoError(t, err)
	assert.Equal(t, 850.0, result.DiscountedPrice)
}

func TestPromoApply_ClampsAtZero(t *testing.T) {
	svc, _ := newPromoService(t)

	_, err := svc.Create(&models.CreatePromoCodeRequest{
		Code:          "HUGE",
		DiscountType:  models.DiscountTypeFixedAmount,
		DiscountValue: 5000,
		IsActive:      true,
	})
	require.NoError(t, err)

	result, err := svc.Apply(&models.ApplyPromoCodeRequest{Code: "HUGE", OriginalPrice: 1000})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.DiscountedPrice)
}

func TestPromoApply_RoundsToCents(t *testing.T) {
	svc, _ := newPromoService(t)

	_, err := svc.Create(&models.CreatePromoCodeRequest{
		Code:          "THIRD",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 33.333,
		IsActive:      true,
	})
	require.NoError(t, err)

	result, err := svc.Apply(&models.ApplyPromoCodeRequest{Code: "THIRD", OriginalPrice: 100})
	require.NoError(t, err)
	assert.Equal(t, 66.67, result.DiscountedPrice)
}

func TestPromoApply_UnknownCode(t *testing.T) {
	svc, _ := newPromoService(t)

	_, err := svc.Apply(&models.ApplyPromoCodeRequest{Code: "NOPE", OriginalPrice: 100})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestPromoApply_InactiveCode(t *testing.T) {
	svc, _ := newPromoService(t)

	_, err := svc.Create(&models.CreatePromoCodeRequest{
		Code:          "OFF",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
		IsActive:      false,
	})
	require.NoError(t, err)

	_, err = svc.Apply(&models.ApplyPromoCodeRequest{Code: "OFF", OriginalPrice: 100})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
}

func TestPromoApply_ExpiredCode(t *testing.T) {
	svc, _ := newPromoService(t)

	past := time.Now().AddDate(0, 0, -1)
	_, err := svc.Create(&models.CreatePromoCodeRequest{
		Code:          "OLD",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
		IsActive:      true,
		ExpiresAt:     &past,
	})
	require.NoError(t, err)

	_, err = svc.Apply(&models.ApplyPromoCodeRequest{Code: "OLD", OriginalPrice: 100})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
}

func TestPromoCreate_DuplicateRejected(t *testing.T) {
	svc, _ := newPromoService(t)

	req := &models.CreatePromoCodeRequest{
		Code:          "TWICE",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
		IsActive:      true,
	}
	_, err := svc.Create(req)
	require.NoError(t, err)

	_, err = svc.Create(req)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeAlreadyExists, appErr.Code)
}

func TestPromoApply_CaseInsensitiveLookup(t *testing.T) {
	svc, _ := newPromoService(t)

	promo, err := svc.Generate()
	require.NoError(t, err)

	lower := ""
	for _, r := range promo.Code {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		lower += string(r)
	}

	result, err := svc.Apply(&models.ApplyPromoCodeRequest{Code: lower, OriginalPrice: 100})
	require.NoError(t, err)
	assert.Equal(t, 70.0, result.DiscountedPrice)
}
