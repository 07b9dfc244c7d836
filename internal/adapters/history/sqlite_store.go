package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the HistoryRepository interface
type SQLiteStore struct {
	*sqlStore
}

// NewSQLiteStore opens (or creates) the database at dbPath
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	return newSQLiteStore(dbPath, logger, time.Now)
}

func newSQLiteStore(dbPath string, logger *zap.Logger, now func() time.Time) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// a single connection serialises writers and keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS classification_history (
			id TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			categoria TEXT NOT NULL,
			titulo_resumo TEXT NOT NULL,
			email_original TEXT NOT NULL,
			resposta_sugerida TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	logger.Info("Opened SQLite history", zap.String("path", dbPath))
	return &SQLiteStore{sqlStore: newSQLStore(db, logger, now)}, nil
}
