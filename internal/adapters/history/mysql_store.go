package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the HistoryRepository interface
type MySQLStore struct {
	*sqlStore
}

// NewMySQLStore connects to MySQL and creates the history table if needed
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS classification_history (
			id VARCHAR(20) PRIMARY KEY,
			timestamp VARCHAR(19) NOT NULL,
			categoria VARCHAR(255) NOT NULL,
			titulo_resumo TEXT NOT NULL,
			email_original MEDIUMTEXT NOT NULL,
			resposta_sugerida TEXT NOT NULL
		) CHARACTER SET utf8mb4
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{sqlStore: newSQLStore(db, logger, time.Now)}, nil
}
