package services

import (
	"context"
	"errors"

	"momentum_backend/internal/models"
	"momentum_backend/internal/repositories"
	"momentum_backend/pkg/apperrors"
)

type ContentService interface {
	Create(ctx context.Context, userID string, req *models.CreateContentRequest) (*models.Content, error)
	Get(ctx context.Context, userID, contentID string, admin bool) (*models.Content, error)
	List(ctx context.Context, userID string, page, pageSize int) ([]models.Content, int64, error)
	Update(ctx context.Context, userID, contentID string, req *models.UpdateContentRequest, admin bool) (*models.Content, error)
	Delete(ctx context.Context, userID, contentID string, admin bool) error
}

type ContentServiceImpl struct {
	contents repositories.ContentRepository
}

func NewContentService(contents repositories.ContentRepository) *ContentServiceImpl {
	return &ContentServiceImpl{contents: contents}
}

func (s *ContentServiceImpl) Create(ctx context.Context, userID string, req *models.CreateContentRequest) (*models.Content, error) {
	status := models.ContentStatus(req.Status)
	if status == "" {
		status = models.ContentStatusDraft
	}

	content := &models.Content{
		UserID:         userID,
		Title:          req.Title,
		Body:           req.Body,
		Platform:       req.Platform,
		ContentType:    req.ContentType,
		Hashtags:       toJSON(req.Hashtags),
		TargetAudience: req.TargetAudience,
		Status:         status,
		ScheduledDate:  req.ScheduledDate,
	}
	if err := s.contents.Create(content); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return content, nil
}

func (s *ContentServiceImpl) Get(ctx context.Context, userID, contentID string, admin bool) (*models.Content, error) {
	return s.loadOwned(userID, contentID, admin)
}

func (s *ContentServiceImpl) List(ctx context.Context, userID string, page, pageSize int) ([]models.Content, int64, error) {
	items, total, err := s.contents.FindByUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return items, total, nil
}

func (s *ContentServiceImpl) Update(ctx context.Context, userID, contentID string, req *models.UpdateContentRequest, admin bool) (*models.Content, error) {
	content, err := s.loadOwned(userID, contentID, admin)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		content.Title = *req.Title
	}
	if req.Body != nil {
		content.Body = *req.Body
	}
	if req.Platform != nil {
		content.Platform = *req.Platform
	}
	if req.ContentType != nil {
		content.ContentType = *req.ContentType
	}
	if req.Hashtags != nil {
		content.Hashtags = toJSON(*req.Hashtags)
	}
	if req.TargetAudience != nil {
		content.TargetAudience = *req.TargetAudience
	}
	if req.Status != nil {
		content.Status = models.ContentStatus(*req.Status)
	}
	if req.ScheduledDate != nil {
		content.ScheduledDate = req.ScheduledDate
	}

	if err := s.contents.Update(content); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return content, nil
}

func (s *ContentServiceImpl) Delete(ctx context.Context, userID, contentID string, admin bool) error {
	if _, err := s.loadOwned(userID, contentID, admin); err != nil {
		return err
	}
	if err := s.contents.Delete(contentID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// loadOwned hides other users' content behind the same not-found error, so
// the API does not leak which IDs exist. Back-office callers bypass the
// ownership check.
func (s *ContentServiceImpl) loadOwned(userID, contentID string, admin bool) (*models.Content, error) {
	content, err := s.contents.FindByID(contentID)
	if err != nil {
		if errors.Is(err, repositories.ErrContentNotFound) {
			return nil, apperrors.ContentNotFound()
		}
		return nil, apperrors.InternalError(err)
	}
	if !admin && content.UserID != userID {
		return nil, apperrors.ContentNotFound()
	}
	return content, nil
}
