package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSaveRestoreRoundTrip(t *testing.T) {
	k := NewKeyspace()
	k.set("scalar", &Entry{Variant: VariantScalar, Scalar: []byte("v")})

	h := NewHash()
	h.Set("f", []byte("1"))
	k.set("hash", &Entry{Variant: VariantHash, Hash: h})

	l := NewList()
	l.RightPush([]byte("a"))
	l.RightPush([]byte("b"))
	k.set("list", &Entry{Variant: VariantList, List: l})

	set := NewSet()
	set.Add("x")
	set.Add("y")
	k.set("set", &Entry{Variant: VariantSet, Set: set})

	k.expireAt("scalar", time.Now().Add(time.Hour))

	sched := NewSchedule()
	sched.Add(time.Now().Add(time.Hour), "payload")

	path := filepath.Join(t.TempDir(), "snap.gob")
	require.NoError(t, saveSnapshot(path, buildSnapshot(k, sched)))

	container, err := loadSnapshot(path)
	require.NoError(t, err)

	k2 := NewKeyspace()
	k2.set("stale", &Entry{Variant: VariantScalar, Scalar: []byte("gone")})
	sched2 := NewSchedule()
	restoreInto(k2, sched2, container)

	require.False(t, k2.Exists("stale", time.Now()))

	v, ok := k2.get("scalar")
	require.True(t, ok)
	require.Equal(t, []byte("v"), v.Scalar)

	at, ok := k2.expiry.ExpiresAt("scalar")
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(time.Hour), at, time.Minute)

	hv, ok := k2.get("hash")
	require.True(t, ok)
	field, ok := hv.Hash.Get("f")
	require.True(t, ok)
	require.Equal(t, []byte("1"), field)

	lv, ok := k2.get("list")
	require.True(t, ok)
	require.Equal(t, [][]byte{[]byte("a"), []byte("b")}, lv.List.Range(0, nil))

	sv, ok := k2.get("set")
	require.True(t, ok)
	require.ElementsMatch(t, []string{"x", "y"}, sv.Set.Members())

	require.Equal(t, 1, sched2.Len())
}

func TestRestoreRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gob")
	bad := buildSnapshot(NewKeyspace(), NewSchedule())
	bad.Version = 99
	require.NoError(t, saveSnapshot(path, bad))

	_, err := loadSnapshot(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown snapshot version")
}

func TestMergeOnDiskWinsOnCollision(t *testing.T) {
	k := NewKeyspace()
	k.set("shared", &Entry{Variant: VariantScalar, Scalar: []byte("memory")})
	k.set("onlyMemory", &Entry{Variant: VariantScalar, Scalar: []byte("keep me")})

	diskKeyspace := NewKeyspace()
	diskKeyspace.set("shared", &Entry{Variant: VariantScalar, Scalar: []byte("disk")})
	diskSchedule := NewSchedule()
	container := buildSnapshot(diskKeyspace, diskSchedule)

	sched := NewSchedule()
	mergeInto(k, sched, container)

	v, ok := k.get("shared")
	require.True(t, ok)
	require.Equal(t, []byte("disk"), v.Scalar)

	v, ok = k.get("onlyMemory")
	require.True(t, ok)
	require.Equal(t, []byte("keep me"), v.Scalar)
}
