package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

// JSONStore keeps the history as a single JSON array file, rewritten in full
// on every save
type JSONStore struct {
	path   string
	logger *zap.Logger
	clock  *entryClock
	mu     sync.Mutex
}

// NewJSONStore creates a new file backed history store
func NewJSONStore(path string, logger *zap.Logger) *JSONStore {
	return newJSONStore(path, logger, time.Now)
}

func newJSONStore(path string, logger *zap.Logger, now func() time.Time) *JSONStore {
	return &JSONStore{
		path:   path,
		logger: logger,
		clock:  newEntryClock(now),
	}
}

// Load returns the stored entries. A missing, empty or unparseable file is
// treated as an empty history.
func (s *JSONStore) Load(ctx context.Context) ([]core.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

func (s *JSONStore) load() []core.HistoryEntry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Failed to read history file", zap.String("path", s.path), zap.Error(err))
		}
		return []core.HistoryEntry{}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []core.HistoryEntry{}
	}

	var entries []core.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("History file is corrupt, treating it as empty",
			zap.String("path", s.path),
			zap.Error(err))
		return []core.HistoryEntry{}
	}
	if entries == nil {
		entries = []core.HistoryEntry{}
	}
	return entries
}

// Save prepends a new entry and rewrites the file with at most
// core.MaxHistoryEntries entries
func (s *JSONStore) Save(ctx context.Context, content string, result *core.Classification) (*core.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	if len(entries) > 0 {
		s.clock.observe(entries[0].ID)
	}

	entry := newEntry(s.clock.next(), content, result)
	entries = append([]core.HistoryEntry{entry}, entries...)
	if len(entries) > core.MaxHistoryEntries {
		entries = entries[:core.MaxHistoryEntries]
	}

	if err := s.write(entries); err != nil {
		return nil, err
	}
	return &entry, nil
}

// write replaces the file atomically through a temporary file in the same
// directory
func (s *JSONStore) write(entries []core.HistoryEntry) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary history file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0644); err != nil {
		s.logger.Debug("Failed to set history file mode", zap.Error(err))
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close history file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}
