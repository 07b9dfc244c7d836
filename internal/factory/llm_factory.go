package factory

import (
	"fmt"

	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates a new LLM client based on the configuration
func (f *LLMFactory) CreateLLMClient() (core.LLMClient, error) {
	switch provider := f.cfg.GetString("llm.provider"); provider {
	case "bedrock":
		return NewBedrockFactory(f.cfg, f.logger).CreateLLMClient()
	case "gemini":
		return NewGeminiFactory(f.cfg, f.logger).CreateLLMClient()
	case "openai":
		return NewOpenAIFactory(f.cfg, f.logger).CreateLLMClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// CreateLLMHandle builds the client once at startup. A client that cannot be
// initialised is recorded in the handle so classification reports a
// configuration error instead of the process failing. Only an unknown
// provider name is returned as an error.
func (f *LLMFactory) CreateLLMHandle() (core.LLMHandle, error) {
	provider := f.cfg.GetString("llm.provider")
	client, err := f.CreateLLMClient()
	if err != nil {
		if !isKnownProvider(provider) {
			return core.LLMHandle{}, err
		}
		f.logger.Error("LLM client unavailable, classification will report a configuration error",
			zap.String("provider", provider),
			zap.Error(err))
		return core.NewLLMHandle(nil, err), nil
	}

	f.logger.Info("LLM client initialised",
		zap.String("provider", provider),
		zap.String("model", client.ModelName()))
	return core.NewLLMHandle(client, nil), nil
}

func isKnownProvider(provider string) bool {
	switch provider {
	case "bedrock", "gemini", "openai":
		return true
	}
	return false
}
