package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	store, err := newSQLiteStore(filepath.Join(t.TempDir(), "history.db"), zap.NewNop(), fixedClock(start, time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	saved, err := store.Save(ctx, "Obrigado pela ajuda!", classified("Improdutivo"))
	require.NoError(t, err)

	entries, err = store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, *saved, entries[0])
	assert.Equal(t, "14/03/2025 09:00:00", entries[0].Timestamp)
}

func TestSQLiteStore_Capped(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < core.MaxHistoryEntries+1; i++ {
		_, err := store.Save(ctx, fmt.Sprintf("email %d", i), classified("Produtivo"))
		require.NoError(t, err)
	}

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, core.MaxHistoryEntries)
	assert.Equal(t, "email 50", entries[0].OriginalContent)
	assert.Equal(t, "email 1", entries[len(entries)-1].OriginalContent)

	var count int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM classification_history`).Scan(&count))
	assert.Equal(t, core.MaxHistoryEntries, count)
}
