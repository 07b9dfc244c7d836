package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikey/email-triage/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerateJSON_RequestsJSONMode(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"chatcmpl-1","choices":[{"index":0,"message":{"role":"assistant","content":"{\"categoria\":\"Produtivo\"}"}}]}`))
	}))
	defer server.Close()

	c := NewOpenAIClient(config.OpenAIConfig{
		APIKey:    "test-key",
		ModelName: "gpt-4o-mini",
		BaseURL:   server.URL,
		MaxTokens: 256,
	}, zap.NewNop())

	text, err := c.GenerateJSON(context.Background(), "classifique este email")

	require.NoError(t, err)
	assert.Equal(t, `{"categoria":"Produtivo"}`, text)
	assert.Equal(t, "gpt-4o-mini", received["model"])
	assert.Equal(t, map[string]interface{}{"type": "json_object"}, received["response_format"])

	messages := received["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "classifique este email", messages[1].(map[string]interface{})["content"])
}

func TestGenerateJSON_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"chatcmpl-2","choices":[]}`))
	}))
	defer server.Close()

	c := NewOpenAIClient(config.OpenAIConfig{APIKey: "k", ModelName: "gpt-4o-mini", BaseURL: server.URL}, zap.NewNop())

	_, err := c.GenerateJSON(context.Background(), "x")

	assert.ErrorContains(t, err, "empty response")
}
