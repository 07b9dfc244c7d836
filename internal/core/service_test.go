package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryHistory struct {
	entries []HistoryEntry
	saveErr error
}

func (m *memoryHistory) Load(ctx context.Context) ([]HistoryEntry, error) {
	return m.entries, nil
}

func (m *memoryHistory) Save(ctx context.Context, content string, result *Classification) (*HistoryEntry, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	entry := HistoryEntry{
		ID:                time.Now().Format("20060102150405.000000"),
		Category:          result.Category,
		TitleSummary:      result.TitleSummary,
		OriginalContent:   content,
		SuggestedResponse: result.SuggestedResponse,
	}
	m.entries = append([]HistoryEntry{entry}, m.entries...)
	return &entry, nil
}

type mapCache map[string]*Classification

func (m mapCache) Get(key string) (*Classification, bool) {
	c, ok := m[key]
	return c, ok
}

func (m mapCache) Set(key string, result *Classification, ttl time.Duration) {
	m[key] = result
}

func newService(llm LLMClient, history HistoryRepository, cache CacheRepository, enabled bool) *TriageService {
	classifier := NewClassifier(NewLLMHandle(llm, nil), time.Second, zap.NewNop())
	return NewTriageService(classifier, history, cache, zap.NewNop(), CacheSettings{Enabled: enabled, TTL: time.Hour})
}

func TestProcess_PersistsSuccessfulClassification(t *testing.T) {
	history := &memoryHistory{}
	llm := &fakeLLM{response: `{"categoria":"Improdutivo","resposta_sugerida":"De nada!","titulo_resumo":"Agradecimento"}`}
	svc := newService(llm, history, nil, false)

	result := svc.Process(context.Background(), "Obrigado pela ajuda!")

	assert.Equal(t, "Improdutivo", result.Category)
	require.Len(t, history.entries, 1)
	assert.Equal(t, "Improdutivo", history.entries[0].Category)
	assert.Equal(t, "Obrigado pela ajuda!", history.entries[0].OriginalContent)
}

func TestProcess_ErrorCategoryIsNotPersisted(t *testing.T) {
	history := &memoryHistory{}
	svc := newService(&fakeLLM{err: errors.New("boom")}, history, nil, false)

	result := svc.Process(context.Background(), "texto")

	assert.Equal(t, CategoryProcessingError, result.Category)
	assert.Empty(t, history.entries)

	// a model that itself answers with a sentinel label is not persisted either
	svc = newService(&fakeLLM{response: `{"categoria":"Erro"}`}, history, nil, false)
	svc.Process(context.Background(), "texto")
	assert.Empty(t, history.entries)
}

func TestProcess_MissingCredentialsCreatesNoEntry(t *testing.T) {
	history := &memoryHistory{}
	classifier := NewClassifier(NewLLMHandle(nil, ErrMissingCredentials), time.Second, zap.NewNop())
	svc := NewTriageService(classifier, history, nil, zap.NewNop(), CacheSettings{})

	result := svc.Process(context.Background(), "Obrigado pela ajuda!")

	assert.Equal(t, CategoryConfigError, result.Category)
	assert.Empty(t, history.entries)
}

func TestProcess_SaveFailureIsAbsorbed(t *testing.T) {
	history := &memoryHistory{saveErr: errors.New("disk full")}
	svc := newService(&fakeLLM{response: `{"categoria":"Produtivo","resposta_sugerida":"Ok","titulo_resumo":"T"}`}, history, nil, false)

	result := svc.Process(context.Background(), "texto")

	assert.Equal(t, "Produtivo", result.Category)
	assert.Equal(t, "Ok", result.SuggestedResponse)
}

func TestProcess_CacheHitSkipsModel(t *testing.T) {
	history := &memoryHistory{}
	llm := &fakeLLM{response: `{"categoria":"Produtivo","resposta_sugerida":"Ok","titulo_resumo":"T"}`}
	svc := newService(llm, history, mapCache{}, true)

	first := svc.Process(context.Background(), "mesmo texto")
	second := svc.Process(context.Background(), "mesmo texto")

	assert.Len(t, llm.prompts, 1)
	assert.Equal(t, first.Category, second.Category)
	assert.Len(t, history.entries, 2)
}

func TestProcess_FailuresAreNotCached(t *testing.T) {
	llm := &fakeLLM{err: errors.New("boom")}
	svc := newService(llm, &memoryHistory{}, mapCache{}, true)

	svc.Process(context.Background(), "texto")
	svc.Process(context.Background(), "texto")

	assert.Len(t, llm.prompts, 2)
}

func TestHistory_NeverNil(t *testing.T) {
	svc := newService(&fakeLLM{}, &memoryHistory{}, nil, false)

	entries, err := svc.History(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
