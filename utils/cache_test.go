package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheFungusAmongUs/GeoBot/model"
)

func TestCache_TakeOnce(t *testing.T) {
	c := NewCache(time.Minute)
	token := c.Add(model.PendingAction{MessageID: "1", Action: model.ActionDeny})

	got, ok := c.Take(token)
	require.True(t, ok)
	assert.Equal(t, "1", got.MessageID)
	assert.False(t, got.CreatedAt.IsZero())

	_, ok = c.Take(token)
	assert.False(t, ok)
}

func TestCache_Expired(t *testing.T) {
	c := NewCache(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }
	token := c.Add(model.PendingAction{MessageID: "1"})

	now = now.Add(2 * time.Minute)
	_, ok := c.Take(token)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Sweep(t *testing.T) {
	c := NewCache(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }
	c.Add(model.PendingAction{MessageID: "old"})
	now = now.Add(30 * time.Second)
	fresh := c.Add(model.PendingAction{MessageID: "fresh"})

	now = now.Add(45 * time.Second)
	c.sweep()
	assert.Equal(t, 1, c.Len())
	_, ok := c.Take(fresh)
	assert.True(t, ok)
}

func TestCache_RunStops(t *testing.T) {
	c := NewCache(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
