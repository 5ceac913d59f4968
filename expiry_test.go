package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExpiryIndexSweepReclaimsOnlyDuePast(t *testing.T) {
	idx := NewExpiryIndex()
	now := time.Now()
	idx.Set("a", now.Add(-time.Second))
	idx.Set("b", now.Add(time.Hour))

	var reclaimed []string
	n := idx.Sweep(now, func(key string) { reclaimed = append(reclaimed, key) })

	require.Equal(t, 1, n)
	require.Equal(t, []string{"a"}, reclaimed)
	require.Equal(t, 1, idx.Len())
}

func TestExpiryIndexStaleHeapEntryDiscardedSilently(t *testing.T) {
	idx := NewExpiryIndex()
	now := time.Now()

	idx.Set("a", now.Add(-time.Hour)) // pushes a stale-to-be entry
	idx.Unexpire("a")                 // byKey entry removed, heap entry now stale
	idx.Set("a", now.Add(time.Hour))  // fresh TTL

	var reclaimed []string
	n := idx.Sweep(now, func(key string) { reclaimed = append(reclaimed, key) })

	require.Equal(t, 0, n)
	require.Empty(t, reclaimed)
	require.Equal(t, 1, idx.Len())
}

func TestExpiryIndexCheckExpired(t *testing.T) {
	idx := NewExpiryIndex()
	now := time.Now()
	idx.Set("a", now.Add(-time.Millisecond))
	require.True(t, idx.CheckExpired("a", now))
	require.False(t, idx.CheckExpired("missing", now))
}

func TestExpiryIndexMultipleExpireCallsLatestWins(t *testing.T) {
	idx := NewExpiryIndex()
	now := time.Now()
	idx.Set("a", now.Add(time.Minute))
	idx.Set("a", now.Add(time.Hour))

	at, ok := idx.ExpiresAt("a")
	require.True(t, ok)
	require.WithinDuration(t, now.Add(time.Hour), at, time.Second)
}
