package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"momentum_backend/internal/email"
	"momentum_backend/internal/logger"
	"momentum_backend/internal/models"
	"momentum_backend/internal/repositories"
	"momentum_backend/pkg/apperrors"
)

const (
	// welcomeDiscountPercent is the discount carried by auto-issued codes.
	welcomeDiscountPercent = 30.0

	// codeByteLength yields 10 uppercase hex characters per code.
	codeByteLength = 5

	// maxGenerationAttempts bounds the collision retry loop.
	maxGenerationAttempts = 10
)

type PromoCodeService interface {
	Generate() (*models.PromoCode, error)
	GenerateForEmail(emailAddr string) (*models.PromoCode, error)
	Apply(req *models.ApplyPromoCodeRequest) (*models.PromoApplyResult, error)
	Create(req *models.CreatePromoCodeRequest) (*models.PromoCode, error)
	List() ([]models.PromoCode, error)
	Deactivate(id string) error
}

type PromoCodeServiceImpl struct {
	codes    repositories.PromoCodeRepository
	mailer   email.Provider
	now      func() time.Time
	randCode func() (string, error)
}

func NewPromoCodeService(codes repositories.PromoCodeRepository, mailer email.Provider) *PromoCodeServiceImpl {
	return &PromoCodeServiceImpl{
		codes:    codes,
		mailer:   mailer,
		now:      time.Now,
		randCode: randomCode,
	}
}

// Generate creates a fresh 30% welcome code valid for one month. Candidate
// codes come from crypto/rand; on the unlikely collision the loop retries up
// to maxGenerationAttempts before giving up. A concurrent insert of the same
// code between the existence check and Create also counts as a collision.
func (s *PromoCodeServiceImpl) Generate() (*models.PromoCode, error) {
	for attempt := 0; attempt < maxGenerationAttempts; attempt++ {
		code, err := s.randCode()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

		exists, err := s.codes.CodeExists(code)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if exists {
			continue
		}

		expiresAt := s.now().AddDate(0, 1, 0)
		promo := &models.PromoCode{
			Code:          code,
			DiscountType:  models.DiscountTypePercentage,
			DiscountValue: welcomeDiscountPercent,
			IsActive:      true,
			ExpiresAt:     &expiresAt,
		}
		if err := s.codes.Create(promo); err != nil {
			if errors.Is(err, repositories.ErrPromoCodeDuplicate) {
				continue
			}
			return nil, apperrors.InternalError(err)
		}
		return promo, nil
	}

	return nil, apperrors.PromoCodeExhaustedAttempts(
		fmt.Errorf("no unique code found in %d attempts", maxGenerationAttempts))
}

// GenerateForEmail creates a welcome code and emails it. The email is
// fire-and-forget: a delivery failure never loses the issued code.
func (s *PromoCodeServiceImpl) GenerateForEmail(emailAddr string) (*models.PromoCode, error) {
	promo, err := s.Generate()
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.mailer.SendPromoCode(emailAddr, promo.Code, promo.DiscountValue); err != nil {
			logger.Warn("failed to send promo code email", "email", emailAddr, "error", err)
		}
	}()

	return promo, nil
}

// Apply quotes the discounted price for a code. It does not consume the
// code: actual discounting happens server-side at payment creation.
func (s *PromoCodeServiceImpl) Apply(req *models.ApplyPromoCodeRequest) (*models.PromoApplyResult, error) {
	promo, err := s.lookupValid(req.Code)
	if err != nil {
		return nil, err
	}

	discounted := applyDiscount(req.OriginalPrice, promo)

	return &models.PromoApplyResult{
		OriginalPrice:   req.OriginalPrice,
		DiscountedPrice: discounted,
		DiscountValue:   promo.DiscountValue,
		DiscountType:    promo.DiscountType,
	}, nil
}

// Create stores an admin-defined code verbatim.
func (s *PromoCodeServiceImpl) Create(req *models.CreatePromoCodeRequest) (*models.PromoCode, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	exists, err := s.codes.CodeExists(code)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.New(apperrors.CodeAlreadyExists, "promocode",
			"Promo code already exists", 400)
	}

	promo := &models.PromoCode{
		Code:          code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		IsActive:      req.IsActive,
		ExpiresAt:     req.ExpiresAt,
	}
	if err := s.codes.Create(promo); err != nil {
		if errors.Is(err, repositories.ErrPromoCodeDuplicate) {
			return nil, apperrors.New(apperrors.CodeAlreadyExists, "promocode",
				"Promo code already exists", 400)
		}
		return nil, apperrors.InternalError(err)
	}
	return promo, nil
}

func (s *PromoCodeServiceImpl) List() ([]models.PromoCode, error) {
	codes, err := s.codes.FindAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return codes, nil
}

func (s *PromoCodeServiceImpl) Deactivate(id string) error {
	if err := s.codes.Deactivate(id); err != nil {
		if errors.Is(err, repositories.ErrPromoCodeNotFound) {
			return apperrors.PromoCodeNotFound()
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// lookupValid resolves a code and rejects inactive or expired ones. The
// checks are ordered so the client gets the most specific error.
func (s *PromoCodeServiceImpl) lookupValid(code string) (*models.PromoCode, error) {
	promo, err := s.codes.FindByCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, repositories.ErrPromoCodeNotFound) {
			return nil, apperrors.PromoCodeNotFound()
		}
		return nil, apperrors.InternalError(err)
	}

	if !promo.IsActive {
		return nil, apperrors.PromoCodeInactive()
	}
	if promo.ExpiresAt != nil && promo.ExpiresAt.Before(s.now()) {
		return nil, apperrors.PromoCodeExpired()
	}
	return promo, nil
}

// applyDiscount computes the discounted price, clamped at zero and rounded
// to two decimal places.
func applyDiscount(price float64, promo *models.PromoCode) float64 {
	var discounted float64
	switch promo.DiscountType {
	case models.DiscountTypePercentage:
		discounted = price * (1 - promo.DiscountValue/100)
	case models.DiscountTypeFixedAmount:
		discounted = price - promo.DiscountValue
	default:
		discounted = price
	}

	if discounted < 0 {
		discounted = 0
	}
	return math.Round(discounted*100) / 100
}

func randomCode() (string, error) {
	buf := make([]byte, codeByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
