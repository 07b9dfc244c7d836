package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
)

// TriageService is the core service for email triage
type TriageService struct {
	classifier   *Classifier
	history      HistoryRepository
	cache        CacheRepository
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
}

// CacheSettings controls the classification cache
type CacheSettings struct {
	Enabled bool
	TTL     time.Duration
}

// NewTriageService creates a new triage service
func NewTriageService(
	classifier *Classifier,
	history HistoryRepository,
	cache CacheRepository,
	logger *zap.Logger,
	cacheSettings CacheSettings,
) *TriageService {
	if cache == nil {
		cache = NoopCache{}
	}
	return &TriageService{
		classifier:   classifier,
		history:      history,
		cache:        cache,
		logger:       logger,
		cacheEnabled: cacheSettings.Enabled,
		cacheTTL:     cacheSettings.TTL,
	}
}

// Process classifies the extracted email content and records successful
// results in the history. Persistence failures are logged and do not affect
// the returned classification.
func (s *TriageService) Process(ctx context.Context, content string) *Classification {
	key := contentKey(content)

	var result *Classification
	if s.cacheEnabled {
		if cached, ok := s.cache.Get(key); ok {
			s.logger.Debug("Cache hit for content", zap.String("key", key))
			copied := *cached
			result = &copied
		}
	}

	if result == nil {
		result = s.classifier.Classify(ctx, content)
		if s.cacheEnabled && result.Outcome == OutcomeClassified {
			s.cache.Set(key, result, s.cacheTTL)
		}
	}

	if IsErrorCategory(result.Category) {
		s.logger.Info("Skipping history for failed classification",
			zap.String("category", result.Category),
			zap.String("outcome", result.Outcome.String()))
		return result
	}

	// the entry is kept even if the caller goes away after classification
	entry, err := s.history.Save(context.WithoutCancel(ctx), content, result)
	if err != nil {
		s.logger.Error("Failed to save history entry",
			zap.Error(err),
			zap.String("category", result.Category))
		return result
	}

	s.logger.Info("Saved history entry",
		zap.String("id", entry.ID),
		zap.String("category", entry.Category))
	return result
}

// History returns the stored classifications, newest first
func (s *TriageService) History(ctx context.Context) ([]HistoryEntry, error) {
	entries, err := s.history.Load(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return entries, nil
}

func contentKey(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
