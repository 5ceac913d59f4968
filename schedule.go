package main

import (
	"container/heap"
	"time"
)

// scheduleItem is one (timestamp, payload) tuple. payload is any value
// representable by the wire codec.
type scheduleItem struct {
	at      time.Time
	payload interface{}
}

type scheduleHeapImpl []scheduleItem

func (h scheduleHeapImpl) Len() int            { return len(h) }
func (h scheduleHeapImpl) Less(i, j int) bool  { return h[i].at.Before(h[j].at) }
func (h scheduleHeapImpl) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *scheduleHeapImpl) Push(x interface{}) { *h = append(*h, x.(scheduleItem)) }
func (h *scheduleHeapImpl) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Schedule is a min-heap of future-dated opaque payloads, independent of
// the keyspace and its expiration index.
type Schedule struct {
	heap scheduleHeapImpl
}

func NewSchedule() *Schedule {
	s := &Schedule{}
	heap.Init(&s.heap)
	return s
}

func (s *Schedule) Add(at time.Time, payload interface{}) {
	heap.Push(&s.heap, scheduleItem{at: at, payload: payload})
}

// Read repeatedly pops while the heap top's timestamp is <= upTo,
// accumulating payloads in timestamp order, and returns them.
func (s *Schedule) Read(upTo time.Time) []interface{} {
	var payloads []interface{}
	for s.heap.Len() > 0 && !s.heap[0].at.After(upTo) {
		item := heap.Pop(&s.heap).(scheduleItem)
		payloads = append(payloads, item.payload)
	}
	if payloads == nil {
		payloads = []interface{}{}
	}
	return payloads
}

// Flush clears the schedule and returns its prior length.
func (s *Schedule) Flush() int {
	n := s.heap.Len()
	s.heap = s.heap[:0]
	return n
}

func (s *Schedule) Len() int {
	return s.heap.Len()
}

// Snapshot returns the schedule's contents as ordered (timestamp,
// payload) pairs without draining it, for use by SAVE.
func (s *Schedule) Snapshot() []scheduleItem {
	items := make([]scheduleItem, len(s.heap))
	copy(items, s.heap)
	return items
}

// Restore replaces the schedule's contents wholesale, for use by
// RESTORE.
func (s *Schedule) Restore(items []scheduleItem) {
	s.heap = append(scheduleHeapImpl{}, items...)
	heap.Init(&s.heap)
}
