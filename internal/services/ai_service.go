package services

import (
	"context"
	"encoding/json"
	"errors"

	"momentum_backend/internal/logger"
	"momentum_backend/internal/models"
	"momentum_backend/internal/providers/llm"
	"momentum_backend/internal/repositories"
	"momentum_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type AIService interface {
	GenerateContent(ctx context.Context, userID string, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error)
	SuggestIdeas(ctx context.Context, userID string, req *models.SuggestIdeasRequest) (*llm.IdeaList, error)
	Chat(ctx context.Context, userID string, req *models.ChatRequest) (string, error)
}

type AIServiceImpl struct {
	provider    llm.Provider
	entitlement EntitlementService
	users       repositories.UserRepository
	contents    repositories.ContentRepository
	actions     repositories.ActionLogRepository
}

func NewAIService(
	provider llm.Provider,
	entitlement EntitlementService,
	users repositories.UserRepository,
	contents repositories.ContentRepository,
	actions repositories.ActionLogRepository,
) *AIServiceImpl {
	return &AIServiceImpl{
		provider:    provider,
		entitlement: entitlement,
		users:       users,
		contents:    contents,
		actions:     actions,
	}
}

// GenerateContent runs the metered generation flow: gate, call the model,
// then charge. The charge happens only after the provider succeeded, so a
// failed or malformed generation never costs the user a unit.
func (s *AIServiceImpl) GenerateContent(ctx context.Context, userID string, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	user, err := s.entitlement.CheckGeneration(ctx, userID)
	if err != nil {
		return nil, err
	}

	input := generationInput(user, req)

	generated, err := s.provider.GenerateContent(ctx, input)
	if err != nil {
		return nil, err
	}

	user, err = s.entitlement.ConsumeGeneration(ctx, userID)
	if err != nil {
		return nil, err
	}

	contentID := ""
	if req.Save {
		record := &models.Content{
			UserID:           userID,
			Title:            generated.Title,
			Body:             generated.Body,
			Platform:         input.Platform,
			ContentType:      input.ContentType,
			Hashtags:         toJSON(generated.Hashtags),
			TargetAudience:   input.TargetAudience,
			GenerationPrompt: req.Prompt,
			Status:           models.ContentStatusDraft,
		}
		if err := s.contents.Create(record); err != nil {
			logger.CtxWarn(ctx, "failed to save generated content", "user_id", userID, "error", err)
		} else {
			contentID = record.ID
		}
	}

	s.logAction(userID, models.ActionGenerateContent, map[string]string{
		"platform":     input.Platform,
		"content_type": input.ContentType,
	})

	return &models.GenerateContentResponse{
		Content:             generated,
		ContentID:           contentID,
		FreeGenerationsLeft: user.FreeGenerationsLeft,
		HasUnlimited:        user.HasUnlimitedGenerations,
		SubscriptionStatus:  user.SubscriptionStatus,
	}, nil
}

// SuggestIdeas is unmetered: exhausted free users still get ideas, only the
// structured generation flow consumes quota.
func (s *AIServiceImpl) SuggestIdeas(ctx context.Context, userID string, req *models.SuggestIdeasRequest) (*llm.IdeaList, error) {
	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	ideas, err := s.provider.SuggestIdeas(ctx, brandProfile(user), req.Platform, req.Count)
	if err != nil {
		return nil, err
	}

	s.logAction(userID, models.ActionGetIdeas, map[string]string{
		"platform": req.Platform,
	})
	return ideas, nil
}

// Chat proxies one agent conversation turn. Chat turns are not metered.
func (s *AIServiceImpl) Chat(ctx context.Context, userID string, req *models.ChatRequest) (string, error) {
	user, err := s.loadUser(userID)
	if err != nil {
		return "", err
	}

	history := make([]llm.ChatMessage, 0, len(req.History)+1)
	for _, turn := range req.History {
		history = append(history, llm.ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	history = append(history, llm.ChatMessage{Role: llm.RoleUser, Content: req.Prompt})

	reply, err := s.provider.Chat(ctx, req.AgentName, brandProfile(user), history)
	if err != nil {
		return "", err
	}

	s.logAction(userID, models.ActionChatWithAgent, map[string]string{
		"agent": req.AgentName,
	})
	return reply, nil
}

func (s *AIServiceImpl) loadUser(userID string) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.UserNotFound()
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *AIServiceImpl) logAction(userID, action string, details map[string]string) {
	data, err := json.Marshal(details)
	if err != nil {
		data = []byte("{}")
	}
	entry := &models.ActionLog{
		UserID:  userID,
		Action:  action,
		Details: datatypes.JSON(data),
	}
	go func() {
		if err := s.actions.Create(entry); err != nil {
			logger.Warn("failed to write action log", "action", action, "error", err)
		}
	}()
}

func generationInput(user *models.User, req *models.GenerateContentRequest) llm.GenerationInput {
	platform := req.Platform
	if platform == "" {
		platform = "instagram"
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "post"
	}
	tone := req.Tone
	if tone == "" {
		tone = user.BrandVoiceTone
	}

	return llm.GenerationInput{
		Platform:       platform,
		ContentType:    contentType,
		Topic:          req.Prompt,
		TargetAudience: req.TargetAudience,
		Tone:           tone,
		Profile:        brandProfile(user),
	}
}

func brandProfile(user *models.User) llm.BrandProfile {
	return llm.BrandProfile{
		Industry:           user.Industry,
		CoreMessage:        user.CoreMessage,
		BrandVoiceTone:     user.BrandVoiceTone,
		WritingStyle:       user.WritingStyleDescription,
		TargetAudiences:    unmarshalStrings(user.TargetAudiences),
		ContentPillars:     unmarshalStrings(user.ContentPillars),
		PreferredPlatforms: unmarshalStrings(user.PreferredPlatforms),
		PrimaryGoal:        user.GoalsPrimaryGoal,
	}
}

func unmarshalStrings(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

