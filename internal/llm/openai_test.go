package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeOpenAI(t *testing.T, reply string, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "site-builder", r.Header.Get("X-Title"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		*captured = body
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   body["model"],
			"choices": []any{map[string]any{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": reply},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5},
		})
	}))
}

func TestOpenAIClient_Text(t *testing.T) {
	var body map[string]any
	srv := fakeOpenAI(t, "hello", &body)
	defer srv.Close()

	c := NewOpenAI("test-key", srv.URL+"/v1", "gpt-4o-mini", "", "site-builder")
	resp, err := c.Generate(context.Background(), []Message{{Role: RoleSystem, Content: "prompt"}})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, 5, resp.TotalTokens)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	_, hasMax := body["max_tokens"]
	assert.False(t, hasMax)
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "prompt", msgs[0].(map[string]any)["content"])
}

func TestOpenAIClient_VisionSendsDataURL(t *testing.T) {
	var body map[string]any
	srv := fakeOpenAI(t, "A logo.", &body)
	defer srv.Close()

	c := NewOpenAI("test-key", srv.URL+"/v1", "gpt-4o-mini", "", "site-builder")
	resp, err := c.Generate(context.Background(), []Message{
		{Role: RoleSystem, Content: "describe"},
		{Role: RoleUser, Content: "What is this?", Images: []ImagePart{{MIMEType: "image/png", Data: []byte("png")}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "A logo.", resp.Content)

	assert.EqualValues(t, VisionMaxTokens, body["max_tokens"])
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	parts := msgs[1].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].(map[string]any)["type"])
	img := parts[1].(map[string]any)
	assert.Equal(t, "image_url", img["type"])
	assert.Equal(t, "data:image/png;base64,cG5n", img["image_url"].(map[string]any)["url"])
}

func TestYandexClient_RejectsImages(t *testing.T) {
	c := &YandexClient{}
	_, err := c.Generate(context.Background(), []Message{{Role: RoleUser, Images: []ImagePart{{Data: []byte("x")}}}})
	assert.ErrorIs(t, err, ErrVisionUnsupported)
}
