package main

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// Server is the single logical owner of all mutable state: the
// keyspace, the schedule, the stats counters and the command table.
// Adapted from the teacher's GoFastServer (server.go/types.go), split
// from a sync.Map-backed cache into the tagged-union keyspace this
// repo implements, and generalized to run under either of two
// transports instead of always spawning one goroutine per connection.
type Server struct {
	config   *Config
	keyspace *Keyspace
	schedule *Schedule
	stats    *Stats
	commands *commandTable
	codec    *Codec
	pool     *BytePool

	mu       sync.Mutex
	listener net.Listener
	sem      chan struct{}
}

func NewServer(config *Config) *Server {
	bytePool := NewBytePool()
	return &Server{
		config:   config,
		keyspace: NewKeyspace(),
		schedule: NewSchedule(),
		stats:    NewStats(),
		commands: newCommandTable(),
		codec:    NewCodec(bytePool),
		pool:     bytePool,
		sem:      make(chan struct{}, config.MaxClients),
	}
}

// Serve runs the accept loop on the transport selected by
// config.Threaded (spec §5: cooperative bounded task pool vs
// preemptive one-goroutine-per-client, both funneling into the same
// coarse-locked command core). It blocks until Shutdown is observed or
// the listener is closed.
func (s *Server) Serve() error {
	address := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", address, err)
	}
	s.listener = listener

	logInfof("nanodis listening on %s (threaded=%v, max_clients=%d)", address, s.config.Threaded, s.config.MaxClients)

	stop := make(chan struct{})
	go s.sweepLoop(stop)
	defer close(stop)

	if s.config.Threaded {
		return s.servePreemptive()
	}
	return s.serveCooperative()
}

// serveCooperative backs the lightweight-task transport with a bounded
// conc/pool.Pool: every accepted connection is submitted as a task, and
// the pool itself enforces the max-clients cap without a hand-rolled
// semaphore (DOMAIN STACK, sourcegraph/conc).
func (s *Server) serveCooperative() error {
	p := pool.New().WithMaxGoroutines(s.config.MaxClients)
	defer p.Wait()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if isShutdownClose(err) {
				return nil
			}
			return err
		}
		p.Go(func() {
			if s.handleConnection(conn) {
				s.listener.Close()
			}
		})
	}
}

// servePreemptive spawns one goroutine per accepted connection,
// admission-bounded by a counting semaphore of the same capacity, the
// "one OS thread per active client" transport of spec §5.
func (s *Server) servePreemptive() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if isShutdownClose(err) {
				return nil
			}
			return err
		}

		s.sem <- struct{}{}
		go func() {
			defer func() { <-s.sem }()
			if s.handleConnection(conn) {
				s.listener.Close()
			}
		}()
	}
}

func isShutdownClose(err error) bool {
	return errors.Is(err, net.ErrClosed)
}

// handleConnection runs the per-connection read/dispatch/write loop
// (spec §4.7). It returns true if the connection triggered a server
// shutdown.
func (s *Server) handleConnection(conn net.Conn) bool {
	defer conn.Close()

	s.stats.ConnectionOpened()
	defer s.stats.ConnectionClosed()

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	for {
		request, err := s.codec.Decode(reader)
		if err != nil {
			var eos EndOfStream
			if errors.As(err, &eos) {
				logDebugf("connection closed: end of stream")
			} else {
				logWarnf("decode error: %v", err)
			}
			return false
		}

		reply, cmdErr := s.runCommand(request)

		if cmdErr != nil {
			var quit ClientQuit
			var shutdown Shutdown
			switch {
			case errors.As(cmdErr, &quit):
				s.codec.Encode(writer, int64(1))
				return false
			case errors.As(cmdErr, &shutdown):
				s.codec.Encode(writer, int64(1))
				return true
			default:
				s.stats.CommandErrored()
				if err := s.codec.Encode(writer, cmdErr); err != nil {
					logWarnf("write error: %v", err)
					return false
				}
				continue
			}
		}

		s.stats.CommandProcessed()
		if err := s.codec.Encode(writer, reply); err != nil {
			logWarnf("write error: %v", err)
			return false
		}
	}
}

// runCommand executes one already-decoded request under the coarse
// command lock (spec §5: "the command core must be protected by a
// single coarse mutex held for the duration of each command").
// CmdError/ClientQuit/Shutdown pass through as errors; anything else
// unexpected is logged and converted to a generic server error so the
// connection loop never crashes on a handler panic-free bug.
func (s *Server) runCommand(request interface{}) (reply interface{}, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			logErrorf("panic handling command: %v", r)
			err = newCmdError("unhandled server error")
		}
	}()

	reply, err = dispatch(s.commands, s, request)
	if err != nil {
		var cmdErr *CmdError
		var quit ClientQuit
		var shutdown Shutdown
		if errors.As(err, &cmdErr) || errors.As(err, &quit) || errors.As(err, &shutdown) {
			return nil, err
		}
		logErrorf("unexpected handler error: %v", err)
		return nil, newCmdError("unhandled server error")
	}
	return reply, nil
}

// sweepLoop periodically reclaims expired keys in the background,
// independent of lazy per-access expiry (spec §4.3's sweep algorithm),
// adapted from the teacher's cleanupExpiredKeys (server.go).
func (s *Server) sweepLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			reclaimed := s.keyspace.Sweep(time.Now())
			s.mu.Unlock()
			if reclaimed > 0 {
				logDebugf("sweep reclaimed %d expired keys", reclaimed)
			}
		}
	}
}

// Close shuts the listener down, unblocking Serve's accept loop.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

// AddCommand registers an additional command handler, the public hook
// extensions call from their Initialize(server) method (spec §6).
func (s *Server) AddCommand(name string, handler commandHandler) {
	s.commands.register(name, handler)
}
