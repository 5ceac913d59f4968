package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScheduleReadDrainsInOrder(t *testing.T) {
	s := NewSchedule()
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Add(base.Add(2*time.Hour), "second")
	s.Add(base.Add(1*time.Hour), "first")
	s.Add(base.Add(100*time.Hour), "too-late")

	got := s.Read(base.Add(3 * time.Hour))
	require.Equal(t, []interface{}{"first", "second"}, got)
	require.Equal(t, 1, s.Len())
}

func TestScheduleReadNothingDue(t *testing.T) {
	s := NewSchedule()
	s.Add(time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC), "payload")

	got := s.Read(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Empty(t, got)
}

func TestScheduleFlush(t *testing.T) {
	s := NewSchedule()
	s.Add(time.Now(), "a")
	s.Add(time.Now(), "b")

	n := s.Flush()
	require.Equal(t, 2, n)
	require.Equal(t, 0, s.Len())
}

func TestScheduleSnapshotRestore(t *testing.T) {
	s := NewSchedule()
	at := time.Now()
	s.Add(at, "payload")

	items := s.Snapshot()
	require.Len(t, items, 1)

	s2 := NewSchedule()
	s2.Restore(items)
	require.Equal(t, 1, s2.Len())
}
