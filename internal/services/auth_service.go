package services

import (
	"context"
	"encoding/json"
	"errors"

	"momentum_backend/internal/auth"
	"momentum_backend/internal/email"
	"momentum_backend/internal/entitlement"
	"momentum_backend/internal/logger"
	"momentum_backend/internal/models"
	"momentum_backend/internal/repositories"
	"momentum_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
}

type AuthServiceImpl struct {
	users   repositories.UserRepository
	promos  PromoCodeService
	actions repositories.ActionLogRepository
	mailer  email.Provider
}

func NewAuthService(
	users repositories.UserRepository,
	promos PromoCodeService,
	actions repositories.ActionLogRepository,
	mailer email.Provider,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		users:   users,
		promos:  promos,
		actions: actions,
		mailer:  mailer,
	}
}

// Register creates an account with the starting quota, issues a welcome
// promo code and returns a signed token. Promo issuance is best-effort:
// registration succeeds even if the code could not be generated.
func (s *AuthServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	ledger := entitlement.NewLedger()

	user := &models.User{
		Email:                   req.Email,
		PasswordHash:            hash,
		FirstName:               req.FirstName,
		LastName:                req.LastName,
		Role:                    models.UserRoleManager,
		Industry:                req.Industry,
		CoreMessage:             req.CoreMessage,
		BrandVoiceTone:          req.BrandVoiceTone,
		WritingStyleDescription: req.WritingStyleDescription,
		MonthlyContentGoal:      req.MonthlyContentGoal,
		TargetAudiences:         toJSON(req.TargetAudiences),
		ContentPillars:          toJSON(req.ContentPillars),
		GoalsPrimaryGoal:        req.GoalsPrimaryGoal,
		PreferredPlatforms:      toJSON(req.PreferredPlatforms),
		FreeGenerationsLeft:     ledger.FreeGenerationsLeft,
		HasUnlimitedGenerations: ledger.HasUnlimitedGenerations,
		SubscriptionStatus:      ledger.Status,
	}

	var issued *models.IssuedPromoCode
	if promo, promoErr := s.promos.GenerateForEmail(req.Email); promoErr == nil {
		user.PromoCodeID = &promo.ID
		issued = &models.IssuedPromoCode{
			Code:          promo.Code,
			DiscountType:  promo.DiscountType,
			DiscountValue: promo.DiscountValue,
			ExpiresAt:     promo.ExpiresAt,
		}
	} else {
		logger.CtxWarn(ctx, "promo code issuance failed during registration",
			"email", req.Email, "error", promoErr)
	}

	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.UserAlreadyExists()
		}
		return nil, apperrors.InternalError(err)
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.logAction(user.ID, models.ActionUserRegister)

	// Welcome mail is fire-and-forget like the action log.
	go func(to, firstName string) {
		if err := s.mailer.SendWelcome(to, firstName); err != nil {
			logger.Warn("failed to send welcome email", "email", to, "error", err)
		}
	}(user.Email, user.FirstName)

	resp := authResponse(user, token)
	resp.PromoCode = issued
	return resp, nil
}

// Login verifies credentials and re-saturates the display counter for
// unlimited users whose counter drifted below the sentinel.
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.InvalidCredentials()
	}

	if user.HasUnlimitedGenerations && user.FreeGenerationsLeft < models.UnlimitedGenerationsSentinel {
		if err := s.users.SaturateGenerations(user.ID); err != nil {
			logger.CtxWarn(ctx, "failed to saturate generation counter", "user_id", user.ID, "error", err)
		} else {
			user.FreeGenerationsLeft = models.UnlimitedGenerationsSentinel
		}
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.logAction(user.ID, models.ActionUserLogin)

	return authResponse(user, token), nil
}

func (s *AuthServiceImpl) logAction(userID, action string) {
	entry := &models.ActionLog{UserID: userID, Action: action}
	go func() {
		if err := s.actions.Create(entry); err != nil {
			logger.Warn("failed to write action log", "action", action, "error", err)
		}
	}()
}

func authResponse(user *models.User, token string) *models.AuthResponse {
	return &models.AuthResponse{
		ID:                  user.ID,
		FirstName:           user.FirstName,
		LastName:            user.LastName,
		Email:               user.Email,
		Role:                user.Role,
		Token:               token,
		FreeGenerationsLeft: user.FreeGenerationsLeft,
	}
}

func toJSON(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(data)
}
