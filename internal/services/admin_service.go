package services

import (
	"context"
	"errors"
	"time"

	"momentum_backend/internal/config"
	"momentum_backend/internal/models"
	"momentum_backend/internal/repositories"
	"momentum_backend/pkg/apperrors"
)

// DashboardStats is the aggregate view for the admin landing page.
type DashboardStats struct {
	TotalUsers         int64                            `json:"totalUsers"`
	NewUsersLast30Days int64                            `json:"newUsersLast30Days"`
	ActiveSubscribers  int64                            `json:"activeSubscribers"`
	MRR                float64                          `json:"mrr"`
	ARR                float64                          `json:"arr"`
	GatewayRevenue     float64                          `json:"gatewayRevenue"`
	RegistrationSeries []repositories.RegistrationPoint `json:"registrationSeries"`
	PlanDistribution   []repositories.PlanSlice         `json:"planDistribution"`
	TopActions         []repositories.ActionCount       `json:"topActions"`
	GenerationsToday   int64                            `json:"generationsToday"`
}

type AdminService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	Users(criteria repositories.UserFilter) ([]models.User, int64, error)
	GetUser(id string) (*models.User, error)
	UpdateUser(ctx context.Context, actorID, targetID string, req *models.AdminUpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, targetID string) error
	AuditLogs(filter repositories.AuditFilter) ([]models.AuditLog, int64, error)
	ContentLog(page, pageSize int) ([]models.ActionLog, int64, error)
}

type AdminServiceImpl struct {
	users       repositories.UserRepository
	actions     repositories.ActionLogRepository
	audits      repositories.AuditLogRepository
	payments    PaymentService
	entitlement EntitlementService
	now         func() time.Time
}

func NewAdminService(
	users repositories.UserRepository,
	actions repositories.ActionLogRepository,
	audits repositories.AuditLogRepository,
	payments PaymentService,
	entitlement EntitlementService,
) *AdminServiceImpl {
	return &AdminServiceImpl{
		users:       users,
		actions:     actions,
		audits:      audits,
		payments:    payments,
		entitlement: entitlement,
		now:         time.Now,
	}
}

// Dashboard aggregates business metrics. MRR is derived from active
// subscribers and their plan prices; yearly plans contribute one twelfth.
// Gateway revenue degrades to zero when the gateway is unreachable so the
// rest of the dashboard still renders.
func (s *AdminServiceImpl) Dashboard(ctx context.Context) (*DashboardStats, error) {
	now := s.now()

	totalUsers, err := s.users.CountAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	newUsers, err := s.users.CountCreatedSince(now.AddDate(0, 0, -30))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	subscribers, err := s.users.FindActiveSubscribers()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var mrr float64
	for _, u := range subscribers {
		if u.Product == nil {
			continue
		}
		switch u.Product.Unit {
		case "yearly":
			mrr += u.Product.Price / 12
		default:
			mrr += u.Product.Price
		}
	}

	series, err := s.users.RegistrationSeries(now.AddDate(0, 0, -30))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	plans, err := s.users.PlanDistribution()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	topActions, err := s.actions.TopActions(now.AddDate(0, 0, -7), 5)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	generationsToday, err := s.actions.CountByAction(models.ActionGenerateContent, dayStart)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &DashboardStats{
		TotalUsers:         totalUsers,
		NewUsersLast30Days: newUsers,
		ActiveSubscribers:  int64(len(subscribers)),
		MRR:                mrr,
		ARR:                mrr * 12,
		GatewayRevenue:     s.payments.GatewayRevenue(ctx),
		RegistrationSeries: series,
		PlanDistribution:   plans,
		TopActions:         topActions,
		GenerationsToday:   generationsToday,
	}, nil
}

func (s *AdminServiceImpl) Users(criteria repositories.UserFilter) ([]models.User, int64, error) {
	users, total, err := s.users.FindWithFilter(criteria)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return users, total, nil
}

func (s *AdminServiceImpl) GetUser(id string) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.UserNotFound()
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// UpdateUser applies back-office edits. Admins cannot change their own role
// and the seed admin account is immutable except by itself.
func (s *AdminServiceImpl) UpdateUser(ctx context.Context, actorID, targetID string, req *models.AdminUpdateUserRequest) (*models.User, error) {
	target, err := s.GetUser(targetID)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		if actorID == targetID {
			return nil, apperrors.NewForbiddenError("You cannot change your own role")
		}
		if s.isSeedAdmin(target) {
			return nil, apperrors.NewForbiddenError("The primary admin account cannot be modified")
		}
	}

	fields := map[string]interface{}{}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Role != nil {
		fields["role"] = *req.Role
	}

	if len(fields) > 0 {
		if err := s.users.UpdateFields(targetID, fields); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.UserNotFound()
			}
			return nil, apperrors.InternalError(err)
		}
	}

	// Subscription changes go through the entitlement service, never raw
	// field writes.
	if req.SubscriptionStatus != nil {
		switch *req.SubscriptionStatus {
		case models.SubscriptionStatusActive:
			productID := ""
			if req.ProductID != nil {
				productID = *req.ProductID
			} else if target.ProductID != nil {
				productID = *target.ProductID
			}
			if productID == "" {
				return nil, apperrors.NewBadRequestError("productId is required to activate a subscription")
			}
			if err := s.entitlement.ManualActivate(ctx, targetID, productID); err != nil {
				return nil, err
			}
		case models.SubscriptionStatusExpired:
			if _, err := s.entitlement.Expire(ctx, targetID); err != nil {
				return nil, err
			}
		}
	}

	return s.GetUser(targetID)
}

// DeleteUser removes an account. Self-deletion and deletion of the seed
// admin are rejected.
func (s *AdminServiceImpl) DeleteUser(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return apperrors.NewForbiddenError("You cannot delete your own account")
	}

	target, err := s.GetUser(targetID)
	if err != nil {
		return err
	}
	if s.isSeedAdmin(target) {
		return apperrors.NewForbiddenError("The primary admin account cannot be deleted")
	}

	if err := s.users.Delete(targetID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.UserNotFound()
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AdminServiceImpl) AuditLogs(filter repositories.AuditFilter) ([]models.AuditLog, int64, error) {
	entries, total, err := s.audits.FindAudits(filter)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return entries, total, nil
}

// ContentLog pages through generation events for moderation review.
func (s *AdminServiceImpl) ContentLog(page, pageSize int) ([]models.ActionLog, int64, error) {
	entries, total, err := s.actions.FindRecent(models.ActionGenerateContent, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return entries, total, nil
}

func (s *AdminServiceImpl) isSeedAdmin(user *models.User) bool {
	seedEmail := config.GetConfig().FirstAdminEmail
	return seedEmail != "" && user.Email == seedEmail
}
