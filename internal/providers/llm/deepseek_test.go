package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"momentum_backend/internal/config"
	"momentum_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *DeepSeekClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.AI.APIKey = "test-key"
	cfg.AI.BaseURL = server.URL
	cfg.AI.Model = "deepseek-chat"
	cfg.AI.TimeoutSeconds = 5

	return NewDeepSeekClient(cfg)
}

func completionReply(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func TestGenerateContent_ParsesStructuredReply(t *testing.T) {
	payload := `{
		"title": "Five habits",
		"body": "Try these...",
		"hashtags": ["#habits"],
		"hook_analysis": "Curiosity gap",
		"value_proposition": "Actionable tips",
		"call_to_action": "Save this post",
		"estimated_performance": "High engagement"
	}`

	var gotAuth, gotPath string
	var gotBody chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		completionReply(payload)(w, r)
	})

	content, err := client.GenerateContent(context.Background(), GenerationInput{
		Platform:    "instagram",
		ContentType: "post",
		Topic:       "habits",
	})
	require.NoError(t, err)

	assert.Equal(t, "Five habits", content.Title)
	assert.Equal(t, []string{"#habits"}, content.Hashtags)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "deepseek-chat", gotBody.Model)
	assert.Equal(t, maxTokens, gotBody.MaxTokens)
	require.NotNil(t, gotBody.ResponseFormat)
	assert.Equal(t, "json_object", gotBody.ResponseFormat.Type)
}

func TestGenerateContent_StripsMarkdownFences(t *testing.T) {
	payload := "```json\n{\"title\": \"T\", \"body\": \"B\"}\n```"
	client := newTestClient(t, completionReply(payload))

	content, err := client.GenerateContent(context.Background(), GenerationInput{Topic: "x"})
	require.NoError(t, err)
	assert.Equal(t, "T", content.Title)
}

func TestGenerateContent_MalformedJSONIsRecoverable(t *testing.T) {
	client := newTestClient(t, completionReply("this is not json at all"))

	_, err := client.GenerateContent(context.Background(), GenerationInput{Topic: "x"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)
}

func TestGenerateContent_MissingFieldsRejected(t *testing.T) {
	client := newTestClient(t, completionReply(`{"title": "only a title"}`))

	_, err := client.GenerateContent(context.Background(), GenerationInput{Topic: "x"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)
}

func TestGenerateContent_UpstreamErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "rate limited", "type": "rate_limit"},
		})
	})

	_, err := client.GenerateContent(context.Background(), GenerationInput{Topic: "x"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)
	assert.Contains(t, appErr.Err.Error(), "rate limited")
}

func TestSuggestIdeas_ParsesList(t *testing.T) {
	payload := `{"ideas": [{"topic": "a", "angle": "b", "trending_factor": "c"}]}`
	client := newTestClient(t, completionReply(payload))

	ideas, err := client.SuggestIdeas(context.Background(), BrandProfile{}, "instagram", 5)
	require.NoError(t, err)
	require.Len(t, ideas.Ideas, 1)
	assert.Equal(t, "a", ideas.Ideas[0].Topic)
}

func TestSuggestIdeas_EmptyListRejected(t *testing.T) {
	client := newTestClient(t, completionReply(`{"ideas": []}`))

	_, err := client.SuggestIdeas(context.Background(), BrandProfile{}, "", 5)
	require.Error(t, err)
}

func TestChat_PrependsAgentPersona(t *testing.T) {
	var gotBody chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		completionReply("Sure, here is a rewrite.")(w, r)
	})

	reply, err := client.Chat(context.Background(), AgentEditor, BrandProfile{Industry: "fitness"}, []ChatMessage{
		{Role: RoleUser, Content: "Fix my draft"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sure, here is a rewrite.", reply)

	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, RoleSystem, gotBody.Messages[0].Role)
	assert.Contains(t, gotBody.Messages[0].Content, "editor")
	assert.Contains(t, gotBody.Messages[0].Content, "fitness")
	// Chat mode must not force a JSON response.
	assert.Nil(t, gotBody.ResponseFormat)
}
