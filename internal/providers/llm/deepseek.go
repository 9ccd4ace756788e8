// Package llm wraps the DeepSeek chat-completions API behind a small
// provider interface so services and tests never touch HTTP directly.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"momentum_backend/internal/config"
	"momentum_backend/pkg/apperrors"
)

const (
	defaultBaseURL = "https://api.deepseek.com"
	defaultModel   = "deepseek-chat"
	maxTokens      = 2048
)

// Provider is the surface services depend on.
type Provider interface {
	GenerateContent(ctx context.Context, input GenerationInput) (*GeneratedContent, error)
	SuggestIdeas(ctx context.Context, profile BrandProfile, platform string, count int) (*IdeaList, error)
	Chat(ctx context.Context, agent string, profile BrandProfile, history []ChatMessage) (string, error)
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Stream         bool            `json:"stream"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// DeepSeekClient implements Provider over the DeepSeek HTTP API.
type DeepSeekClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewDeepSeekClient(cfg *config.Config) *DeepSeekClient {
	baseURL := cfg.AI.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.AI.Model
	if model == "" {
		model = defaultModel
	}
	return &DeepSeekClient{
		apiKey:  cfg.AI.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: cfg.AITimeout(),
		},
	}
}

// GenerateContent asks the model for one structured post. The json_object
// response format plus the schema embedded in the prompt keep the output
// parseable; a reply that still fails to parse surfaces as a recoverable
// upstream error so the caller is not charged a generation.
func (c *DeepSeekClient) GenerateContent(ctx context.Context, input GenerationInput) (*GeneratedContent, error) {
	messages := []ChatMessage{
		{Role: RoleSystem, Content: ContentSystemPrompt(input)},
		{Role: RoleUser, Content: fmt.Sprintf("Create a %s post about: %s", input.ContentType, input.Topic)},
	}

	raw, err := c.complete(ctx, messages, true)
	if err != nil {
		return nil, err
	}

	var content GeneratedContent
	if err := json.Unmarshal([]byte(stripFences(raw)), &content); err != nil {
		return nil, apperrors.MalformedUpstreamResponse("ai", err)
	}
	if content.Title == "" || content.Body == "" {
		return nil, apperrors.MalformedUpstreamResponse("ai",
			errors.New("model response is missing required fields"))
	}
	return &content, nil
}

// SuggestIdeas asks the model for a list of content ideas.
func (c *DeepSeekClient) SuggestIdeas(ctx context.Context, profile BrandProfile, platform string, count int) (*IdeaList, error) {
	if count < 1 {
		count = 5
	}
	messages := []ChatMessage{
		{Role: RoleSystem, Content: IdeasSystemPrompt(profile, platform, count)},
		{Role: RoleUser, Content: "Generate the content ideas now."},
	}

	raw, err := c.complete(ctx, messages, true)
	if err != nil {
		return nil, err
	}

	var ideas IdeaList
	if err := json.Unmarshal([]byte(stripFences(raw)), &ideas); err != nil {
		return nil, apperrors.MalformedUpstreamResponse("ai", err)
	}
	if len(ideas.Ideas) == 0 {
		return nil, apperrors.MalformedUpstreamResponse("ai",
			errors.New("model returned no ideas"))
	}
	return &ideas, nil
}

// Chat runs one free-form agent turn. History must already contain the
// latest user message; the agent persona is prepended server-side.
func (c *DeepSeekClient) Chat(ctx context.Context, agent string, profile BrandProfile, history []ChatMessage) (string, error) {
	messages := make([]ChatMessage, 0, len(history)+1)
	messages = append(messages, ChatMessage{Role: RoleSystem, Content: AgentSystemPrompt(agent, profile)})
	messages = append(messages, history...)

	return c.complete(ctx, messages, false)
}

func (c *DeepSeekClient) complete(ctx context.Context, messages []ChatMessage, jsonMode bool) (string, error) {
	reqBody := chatRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}
	if jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperrors.UpstreamTimeout("ai", err)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return "", apperrors.UpstreamTimeout("ai", err)
		}
		return "", apperrors.UpstreamError("ai", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.UpstreamError("ai", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", apperrors.UpstreamError("ai",
				fmt.Errorf("deepseek %s (%d): %s", apiErr.Error.Type, resp.StatusCode, apiErr.Error.Message))
		}
		return "", apperrors.UpstreamError("ai",
			fmt.Errorf("deepseek returned status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", apperrors.MalformedUpstreamResponse("ai", err)
	}
	if len(parsed.Choices) == 0 {
		return "", apperrors.MalformedUpstreamResponse("ai", errors.New("empty choices in response"))
	}

	return parsed.Choices[0].Message.Content, nil
}

// stripFences removes a markdown code fence if the model wrapped its JSON
// despite the instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
