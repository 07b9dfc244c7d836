package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mikey/email-triage/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// fakeGemini answers streamGenerateContent with the given JSON array
func fakeGemini(t *testing.T, body string, received *map[string]interface{}) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-test:streamGenerateContent"), r.URL.Path)
		if received != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(received))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server) *GeminiClient {
	t.Helper()
	c, err := NewGeminiClient(config.GeminiConfig{
		APIKey:      "test-key",
		ModelName:   "gemini-test",
		MaxTokens:   256,
		Temperature: 0.2,
		TopP:        0.9,
	}, zap.NewNop(), option.WithEndpoint(server.URL))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGenerateJSON_JoinsTextParts(t *testing.T) {
	var received map[string]interface{}
	server := fakeGemini(t, `[{"candidates":[{"index":0,"content":{"role":"model","parts":[{"text":"{\"categoria\":"},{"text":"\"Produtivo\"}"}]}}]}]`, &received)
	c := newTestClient(t, server)

	text, err := c.GenerateJSON(context.Background(), "classifique este email")

	require.NoError(t, err)
	assert.Equal(t, `{"categoria":"Produtivo"}`, text)
	assert.Equal(t, "gemini-test", c.ModelName())

	contents := received["contents"].([]interface{})
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]interface{})["parts"].([]interface{})
	assert.Equal(t, "classifique este email", parts[0].(map[string]interface{})["text"])

	generation := received["generationConfig"].(map[string]interface{})
	assert.Equal(t, "application/json", generation["responseMimeType"])
	assert.EqualValues(t, 256, generation["maxOutputTokens"])
}

func TestGenerateJSON_EmptyCandidates(t *testing.T) {
	for name, body := range map[string]string{
		"no candidates": `[{"candidates":[]}]`,
		"empty stream":  `[]`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, fakeGemini(t, body, nil))

			_, err := c.GenerateJSON(context.Background(), "x")

			assert.ErrorContains(t, err, "empty response from Gemini")
		})
	}
}
