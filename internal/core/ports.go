package core

import (
	"context"
	"errors"
	"time"
)

// ErrMissingCredentials is returned when no credential is configured for the LLM provider
var ErrMissingCredentials = errors.New("LLM credentials are not configured")

// LLMClient defines the interface for interacting with LLM services
type LLMClient interface {
	// GenerateJSON sends the prompt and returns the raw text of the model's
	// reply, requesting JSON output where the provider supports it
	GenerateJSON(ctx context.Context, prompt string) (string, error)

	// ModelName returns the model identifier used for the calls
	ModelName() string
}

// LLMHandle holds the LLM client built at startup, or the reason it could not
// be built.
type LLMHandle struct {
	client LLMClient
	err    error
}

// NewLLMHandle creates a handle from the outcome of client construction
func NewLLMHandle(client LLMClient, err error) LLMHandle {
	if err == nil && client == nil {
		err = ErrMissingCredentials
	}
	if err != nil {
		client = nil
	}
	return LLMHandle{client: client, err: err}
}

// Client returns the client, or the initialization error
func (h LLMHandle) Client() (LLMClient, error) {
	if h.client == nil && h.err == nil {
		return nil, ErrMissingCredentials
	}
	return h.client, h.err
}

// Close closes the underlying client when it holds resources
func (h LLMHandle) Close() error {
	if closer, ok := h.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// HistoryRepository persists the capped classification log
type HistoryRepository interface {
	// Load returns the entries, newest first
	Load(ctx context.Context) ([]HistoryEntry, error)

	// Save prepends a new entry built from the classification and trims the
	// log to MaxHistoryEntries
	Save(ctx context.Context, content string, result *Classification) (*HistoryEntry, error)
}

// CacheRepository caches classification results by content key
type CacheRepository interface {
	Get(key string) (*Classification, bool)
	Set(key string, result *Classification, ttl time.Duration)
}

// NoopCache is used when caching is disabled
type NoopCache struct{}

func (NoopCache) Get(string) (*Classification, bool)           { return nil, false }
func (NoopCache) Set(string, *Classification, time.Duration) {}
