package services

import (
	"context"
	"errors"

	"momentum_backend/internal/logger"
	"momentum_backend/internal/models"
	"momentum_backend/internal/repositories"
	"momentum_backend/pkg/apperrors"
)

type UserService interface {
	GetMe(ctx context.Context, userID string) (*models.User, error)
	UpdateMe(ctx context.Context, userID string, req *models.UpdateMeRequest) (*models.User, error)
}

type UserServiceImpl struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{users: users}
}

// GetMe loads the profile. Unlimited users whose display counter drifted
// below the sentinel get it re-saturated on read, mirroring login.
func (s *UserServiceImpl) GetMe(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.UserNotFound()
		}
		return nil, apperrors.InternalError(err)
	}

	if user.HasUnlimitedGenerations && user.FreeGenerationsLeft < models.UnlimitedGenerationsSentinel {
		if err := s.users.SaturateGenerations(user.ID); err != nil {
			logger.CtxWarn(ctx, "failed to saturate generation counter", "user_id", user.ID, "error", err)
		} else {
			user.FreeGenerationsLeft = models.UnlimitedGenerationsSentinel
		}
	}

	return user, nil
}

// UpdateMe applies the provided fields only. Pointer semantics distinguish
// "absent" from "set to zero value".
func (s *UserServiceImpl) UpdateMe(ctx context.Context, userID string, req *models.UpdateMeRequest) (*models.User, error) {
	fields := map[string]interface{}{}

	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Email != nil {
		existing, err := s.users.FindByEmail(*req.Email)
		if err == nil && existing.ID != userID {
			return nil, apperrors.UserAlreadyExists()
		}
		fields["email"] = *req.Email
	}
	if req.Industry != nil {
		fields["industry"] = *req.Industry
	}
	if req.CoreMessage != nil {
		fields["core_message"] = *req.CoreMessage
	}
	if req.BrandVoiceTone != nil {
		fields["brand_voice_tone"] = *req.BrandVoiceTone
	}
	if req.WritingStyleDescription != nil {
		fields["writing_style_description"] = *req.WritingStyleDescription
	}
	if req.MonthlyContentGoal != nil {
		fields["monthly_content_goal"] = *req.MonthlyContentGoal
	}
	if req.TargetAudiences != nil {
		fields["target_audiences"] = toJSON(*req.TargetAudiences)
	}
	if req.ContentPillars != nil {
		fields["content_pillars"] = toJSON(*req.ContentPillars)
	}
	if req.GoalsPrimaryGoal != nil {
		fields["goals_primary_goal"] = *req.GoalsPrimaryGoal
	}
	if req.PreferredPlatforms != nil {
		fields["preferred_platforms"] = toJSON(*req.PreferredPlatforms)
	}

	if len(fields) > 0 {
		if err := s.users.UpdateFields(userID, fields); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.UserNotFound()
			}
			return nil, apperrors.InternalError(err)
		}
	}

	return s.GetMe(ctx, userID)
}
