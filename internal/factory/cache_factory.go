package factory

import (
	"fmt"

	"github.com/mikey/email-triage/internal/adapters/cache"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

// CacheFactory creates the classification cache based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCacheRepository returns an in-memory cache, or a no-op cache when caching is disabled
func (f *CacheFactory) CreateCacheRepository() (core.CacheRepository, error) {
	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return nil, err
	}
	if !cacheCfg.Enabled {
		return core.NoopCache{}, nil
	}
	if cacheCfg.TTL <= 0 {
		return nil, fmt.Errorf("cache.ttl must be positive, got %s", cacheCfg.TTL)
	}

	return cache.NewMemoryCache(f.logger, cacheCfg.CleanupFrequency), nil
}

// Settings returns the cache flags the triage service applies
func (f *CacheFactory) Settings() (core.CacheSettings, error) {
	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return core.CacheSettings{}, err
	}
	return core.CacheSettings{
		Enabled: cacheCfg.Enabled,
		TTL:     cacheCfg.TTL,
	}, nil
}
