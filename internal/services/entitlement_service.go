package services

import (
	"context"
	"errors"
	"time"

	"momentum_backend/internal/entitlement"
	"momentum_backend/internal/logger"
	"momentum_backend/internal/models"
	"momentum_backend/internal/repositories"
	"momentum_backend/pkg/apperrors"
)

// EntitlementService owns every mutation of the user's subscription and
// quota fields. Nothing else writes them.
type EntitlementService interface {
	CheckGeneration(ctx context.Context, userID string) (*models.User, error)
	ConsumeGeneration(ctx context.Context, userID string) (*models.User, error)
	ActivateFromPayment(ctx context.Context, userID, provider, paymentID, productID string) error
	ManualActivate(ctx context.Context, userID, productID string) error
	Expire(ctx context.Context, userID string) (bool, error)
}

type EntitlementServiceImpl struct {
	users repositories.UserRepository
	now   func() time.Time
}

func NewEntitlementService(users repositories.UserRepository) *EntitlementServiceImpl {
	return &EntitlementServiceImpl{
		users: users,
		now:   time.Now,
	}
}

// CheckGeneration verifies the user may generate right now, without
// consuming anything. Returns the loaded user so the caller can reuse the
// brand profile for prompt building.
func (s *EntitlementServiceImpl) CheckGeneration(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.UserNotFound()
		}
		return nil, apperrors.InternalError(err)
	}

	if !entitlement.Allowed(entitlement.LedgerFromUser(user)) {
		return nil, apperrors.QuotaExhausted()
	}
	return user, nil
}

// ConsumeGeneration charges one unit after a successful generation.
// Unlimited users are never decremented. For metered users the write is a
// single conditional UPDATE; a lost race between check and consume fails
// closed with the quota error.
func (s *EntitlementServiceImpl) ConsumeGeneration(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.UserNotFound()
		}
		return nil, apperrors.InternalError(err)
	}

	if user.HasUnlimitedGenerations {
		return user, nil
	}

	consumed, err := s.users.ConsumeFreeGeneration(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !consumed {
		return nil, apperrors.QuotaExhausted()
	}

	user.FreeGenerationsLeft--
	return user, nil
}

// ActivateFromPayment applies a successful payment to the ledger. The
// operation is an overwrite keyed only on the event and the clock, so a
// replayed webhook rewrites identical state instead of stacking periods.
func (s *EntitlementServiceImpl) ActivateFromPayment(ctx context.Context, userID, provider, paymentID, productID string) error {
	state := entitlement.Apply(entitlement.LedgerState{}, entitlement.Activated{
		Provider:  provider,
		PaymentID: paymentID,
		ProductID: productID,
	}, s.now())

	if err := s.users.ApplyLedger(userID, state); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.UserNotFound()
		}
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "subscription activated",
		"user_id", userID,
		"provider", provider,
		"payment_id", paymentID,
		"product_id", productID,
	)
	return nil
}

// ManualActivate grants a subscription from the back office, bypassing the
// gateway. Recorded with a synthetic provider name so support grants stay
// distinguishable from paid ones.
func (s *EntitlementServiceImpl) ManualActivate(ctx context.Context, userID, productID string) error {
	return s.ActivateFromPayment(ctx, userID, "manual", "manual-"+userID, productID)
}

// Expire revokes entitlements when the paid period has lapsed. Returns
// whether the row actually transitioned; a false result means another sweep
// or an admin got there first.
func (s *EntitlementServiceImpl) Expire(ctx context.Context, userID string) (bool, error) {
	transitioned, err := s.users.ExpireSubscription(userID)
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	if transitioned {
		logger.CtxInfo(ctx, "subscription expired", "user_id", userID)
	}
	return transitioned, nil
}
