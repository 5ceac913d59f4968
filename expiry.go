package main

import (
	"container/heap"
	"time"
)

// expiryItem is one (expiration, key) tuple in the min-heap. The heap may
// contain stale entries: staleness is resolved at pop time by comparing
// against expiryIndex.byKey, the authoritative map.
type expiryItem struct {
	at  time.Time
	key string
}

type expiryHeapImpl []expiryItem

func (h expiryHeapImpl) Len() int            { return len(h) }
func (h expiryHeapImpl) Less(i, j int) bool  { return h[i].at.Before(h[j].at) }
func (h expiryHeapImpl) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *expiryHeapImpl) Push(x interface{}) { *h = append(*h, x.(expiryItem)) }
func (h *expiryHeapImpl) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ExpiryIndex pairs a min-heap ordered by expiration time with a map
// giving the current, authoritative expiration for each key. Multiple
// EXPIRE calls on the same key push multiple heap entries; only the
// latest timestamp in byKey is authoritative (spec §4.3).
type ExpiryIndex struct {
	byKey map[string]time.Time
	heap  expiryHeapImpl
}

func NewExpiryIndex() *ExpiryIndex {
	idx := &ExpiryIndex{byKey: make(map[string]time.Time)}
	heap.Init(&idx.heap)
	return idx
}

// Set records a fresh expiration for key and pushes a heap entry.
func (e *ExpiryIndex) Set(key string, at time.Time) {
	e.byKey[key] = at
	heap.Push(&e.heap, expiryItem{at: at, key: key})
}

// Unexpire removes key's TTL. Any heap entries for key become stale and
// are discarded silently the next time they're popped.
func (e *ExpiryIndex) Unexpire(key string) {
	delete(e.byKey, key)
}

// CheckExpired reports whether key currently carries a TTL that has
// passed. It does not mutate state; callers are responsible for
// deleting the keyspace entry and calling Unexpire.
func (e *ExpiryIndex) CheckExpired(key string, now time.Time) bool {
	at, ok := e.byKey[key]
	return ok && now.After(at)
}

// ExpiresAt returns the current TTL for key, if any.
func (e *ExpiryIndex) ExpiresAt(key string) (time.Time, bool) {
	at, ok := e.byKey[key]
	return at, ok
}

// Sweep pops the heap while its top's timestamp is <= now. For each
// popped entry that is still current (matches byKey exactly), del is
// invoked and the map entry removed; stale entries are discarded
// silently. Sweep stops at the first entry whose timestamp exceeds now,
// leaving it on the heap. Returns the number of keys reclaimed.
func (e *ExpiryIndex) Sweep(now time.Time, del func(key string)) int {
	reclaimed := 0
	for e.heap.Len() > 0 {
		top := e.heap[0]
		if top.at.After(now) {
			break
		}
		item := heap.Pop(&e.heap).(expiryItem)

		current, ok := e.byKey[item.key]
		if ok && current.Equal(item.at) {
			delete(e.byKey, item.key)
			del(item.key)
			reclaimed++
		}
	}
	return reclaimed
}

func (e *ExpiryIndex) Len() int {
	return len(e.byKey)
}
