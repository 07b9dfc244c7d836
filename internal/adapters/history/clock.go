package history

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/mikey/email-triage/internal/core"
)

const (
	idLayout        = "20060102150405"
	timestampLayout = "02/01/2006 15:04:05"
)

// entryClock hands out strictly increasing creation times so ids never repeat
type entryClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func newEntryClock(now func() time.Time) *entryClock {
	if now == nil {
		now = time.Now
	}
	return &entryClock{now: now}
}

func (c *entryClock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

// observe moves the clock past an id already in the store
func (c *entryClock) observe(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, err := parseEntryID(id, c.now().Location())
	if err != nil {
		return
	}
	if t.After(c.last) {
		c.last = t
	}
}

func formatEntryID(t time.Time) string {
	return t.Format(idLayout) + fmt.Sprintf("%06d", t.Nanosecond()/int(time.Microsecond))
}

func parseEntryID(id string, loc *time.Location) (time.Time, error) {
	if len(id) != len(idLayout)+6 {
		return time.Time{}, fmt.Errorf("invalid entry id %q", id)
	}
	t, err := time.ParseInLocation(idLayout, id[:len(idLayout)], loc)
	if err != nil {
		return time.Time{}, err
	}
	micros, err := strconv.Atoi(id[len(idLayout):])
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(time.Duration(micros) * time.Microsecond), nil
}

func newEntry(at time.Time, content string, result *core.Classification) core.HistoryEntry {
	return core.HistoryEntry{
		ID:                formatEntryID(at),
		Timestamp:         at.Format(timestampLayout),
		Category:          result.Category,
		TitleSummary:      result.TitleSummary,
		OriginalContent:   content,
		SuggestedResponse: result.SuggestedResponse,
	}
}
