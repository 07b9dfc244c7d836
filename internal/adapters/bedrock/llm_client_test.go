package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/email-triage/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRuntime struct {
	input *bedrockruntime.InvokeModelInput
	body  []byte
	err   error
}

func (f *fakeRuntime) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.body}, nil
}

func newClient(runtime InvokeModelAPI, modelID string) *BedrockClient {
	return NewBedrockClient(runtime, config.BedrockConfig{
		ModelID:     modelID,
		MaxTokens:   500,
		Temperature: 0.1,
		TopP:        0.9,
	}, zap.NewNop())
}

func TestGenerateJSON_Claude(t *testing.T) {
	runtime := &fakeRuntime{body: []byte(`{"completion":"{\"categoria\":\"Produtivo\"}"}`)}
	c := newClient(runtime, "anthropic.claude-v2")

	text, err := c.GenerateJSON(context.Background(), "classifique")
	require.NoError(t, err)
	assert.Equal(t, `{"categoria":"Produtivo"}`, text)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(runtime.input.Body, &payload))
	assert.Equal(t, "\n\nHuman: classifique\n\nAssistant:", payload["prompt"])
	assert.EqualValues(t, 500, payload["max_tokens_to_sample"])
	assert.Equal(t, "anthropic.claude-v2", *runtime.input.ModelId)
}

func TestGenerateJSON_Titan(t *testing.T) {
	runtime := &fakeRuntime{body: []byte(`{"results":[{"outputText":"{}"}]}`)}
	c := newClient(runtime, "amazon.titan-text-express-v1")

	text, err := c.GenerateJSON(context.Background(), "classifique")
	require.NoError(t, err)
	assert.Equal(t, "{}", text)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(runtime.input.Body, &payload))
	assert.Equal(t, "classifique", payload["inputText"])

	runtime.body = []byte(`{"results":[]}`)
	_, err = c.GenerateJSON(context.Background(), "classifique")
	assert.Error(t, err)
}

func TestGenerateJSON_GenericFallsBackToRawBody(t *testing.T) {
	runtime := &fakeRuntime{body: []byte(`{"categoria":"Improdutivo"}`)}
	c := newClient(runtime, "meta.llama3-8b-instruct-v1:0")

	text, err := c.GenerateJSON(context.Background(), "classifique")
	require.NoError(t, err)
	assert.Equal(t, `{"categoria":"Improdutivo"}`, text)

	runtime.body = []byte(`{"output":"resultado"}`)
	text, err = c.GenerateJSON(context.Background(), "classifique")
	require.NoError(t, err)
	assert.Equal(t, "resultado", text)
}

func TestGenerateJSON_InvokeError(t *testing.T) {
	runtime := &fakeRuntime{err: errors.New("access denied")}
	c := newClient(runtime, "anthropic.claude-v2")

	_, err := c.GenerateJSON(context.Background(), "classifique")

	assert.ErrorContains(t, err, "access denied")
}
