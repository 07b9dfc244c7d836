package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/email-triage/internal/adapters/history"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

// HistoryFactory creates history stores based on configuration
type HistoryFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewHistoryFactory creates a new history factory
func NewHistoryFactory(cfg *config.Config, logger *zap.Logger) *HistoryFactory {
	return &HistoryFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateHistoryRepository creates the history store selected by history.type
func (f *HistoryFactory) CreateHistoryRepository() (core.HistoryRepository, error) {
	historyCfg := f.cfg.GetHistory()

	switch historyCfg.Type {
	case "json", "":
		f.logger.Info("Using JSON history file", zap.String("path", historyCfg.Path))
		return history.NewJSONStore(historyCfg.Path, f.logger), nil
	case "sqlite":
		if dir := filepath.Dir(historyCfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
			}
		}
		return history.NewSQLiteStore(historyCfg.SQLitePath, f.logger)
	case "mysql":
		return history.NewMySQLStore(historyCfg.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported history type: %s", historyCfg.Type)
	}
}
