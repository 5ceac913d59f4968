package main

import "go.uber.org/atomic"

// Stats tracks process-wide observability counters with lock-free
// atomics, replacing the teacher's mutex-guarded ServerStats
// (types.go/stats.go): every command already runs under the server's
// coarse command lock, but connection accept/close events and counter
// reads happen outside it, so the counters themselves stay atomic
// rather than borrowing that lock for bookkeeping.
type Stats struct {
	activeConnections atomic.Int64
	totalConnections  atomic.Int64
	commandsProcessed atomic.Int64
	commandErrors     atomic.Int64
}

func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) ConnectionOpened() {
	s.activeConnections.Inc()
	s.totalConnections.Inc()
}

func (s *Stats) ConnectionClosed() {
	s.activeConnections.Dec()
}

func (s *Stats) CommandProcessed() {
	s.commandsProcessed.Inc()
}

func (s *Stats) CommandErrored() {
	s.commandErrors.Inc()
}

// Snapshot returns a point-in-time copy suitable for the INFO reply.
func (s *Stats) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"active_connections": s.activeConnections.Load(),
		"total_connections":  s.totalConnections.Load(),
		"commands_processed": s.commandsProcessed.Load(),
		"command_errors":     s.commandErrors.Load(),
	}
}
