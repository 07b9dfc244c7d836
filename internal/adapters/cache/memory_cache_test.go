package cache

import (
	"testing"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 0)
	defer c.Stop()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	original := &core.Classification{Category: "Produtivo", TitleSummary: "Pedido"}
	c.Set("k", original, time.Hour)
	original.Category = "changed"

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "Produtivo", got.Category)

	got.TitleSummary = "mutated"
	again, _ := c.Get("k")
	assert.Equal(t, "Pedido", again.TitleSummary)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 0)
	defer c.Stop()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", &core.Classification{Category: "Produtivo"}, time.Minute)
	_, ok := c.Get("k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)

	assert.Equal(t, 1, c.Cleanup())
	assert.Equal(t, 0, c.Cleanup())
}

func TestMemoryCache_StopIsIdempotent(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Millisecond)
	c.Stop()
	c.Stop()
}
