package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

// sqlStore holds the logic shared by the SQLite and MySQL backends. Both
// drivers use ? placeholders.
type sqlStore struct {
	db     *sql.DB
	logger *zap.Logger
	clock  *entryClock
}

func newSQLStore(db *sql.DB, logger *zap.Logger, now func() time.Time) *sqlStore {
	return &sqlStore{
		db:     db,
		logger: logger,
		clock:  newEntryClock(now),
	}
}

// Load returns the entries, newest first
func (s *sqlStore) Load(ctx context.Context) ([]core.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, categoria, titulo_resumo, email_original, resposta_sugerida
		FROM classification_history
		ORDER BY id DESC
		LIMIT ?
	`, core.MaxHistoryEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := make([]core.HistoryEntry, 0, core.MaxHistoryEntries)
	for rows.Next() {
		var e core.HistoryEntry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Category, &e.TitleSummary, &e.OriginalContent, &e.SuggestedResponse); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}
	return entries, nil
}

// Save inserts the entry and prunes everything beyond the newest
// core.MaxHistoryEntries rows in one transaction
func (s *sqlStore) Save(ctx context.Context, content string, result *core.Classification) (*core.HistoryEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var latest sql.NullString
	if err := tx.QueryRowContext(ctx, `SELECT MAX(id) FROM classification_history`).Scan(&latest); err != nil {
		return nil, fmt.Errorf("failed to read latest history id: %w", err)
	}
	if latest.Valid {
		s.clock.observe(latest.String)
	}

	entry := newEntry(s.clock.next(), content, result)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO classification_history (id, timestamp, categoria, titulo_resumo, email_original, resposta_sugerida)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Timestamp, entry.Category, entry.TitleSummary, entry.OriginalContent, entry.SuggestedResponse); err != nil {
		return nil, fmt.Errorf("failed to insert history entry: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM classification_history
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id FROM classification_history ORDER BY id DESC LIMIT ?
			) AS newest
		)
	`, core.MaxHistoryEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to prune history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit history entry: %w", err)
	}

	if pruned, err := res.RowsAffected(); err == nil && pruned > 0 {
		s.logger.Debug("Pruned old history entries", zap.Int64("pruned_count", pruned))
	}
	return &entry, nil
}

// Close closes the database connection
func (s *sqlStore) Close() error {
	return s.db.Close()
}
