package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestServer builds a Server with no listener, suitable for driving
// commands directly through dispatch without a network round trip.
func newTestServer() *Server {
	return &Server{
		keyspace: NewKeyspace(),
		schedule: NewSchedule(),
		stats:    NewStats(),
		commands: newCommandTable(),
		codec:    NewCodec(NewBytePool()),
	}
}

func run(t *testing.T, s *Server, name string, args ...interface{}) (interface{}, error) {
	t.Helper()
	req := append([]interface{}{[]byte(name)}, args...)
	return dispatch(s.commands, s, req)
}

func TestScenarioIncr(t *testing.T) {
	s := newTestServer()
	_, err := run(t, s, "SET", []byte("foo"), []byte("1"))
	require.NoError(t, err)

	v, err := run(t, s, "INCR", []byte("foo"))
	require.NoError(t, err)
	require.Equal(t, int64(2), v)

	v, err = run(t, s, "INCR", []byte("foo"))
	require.NoError(t, err)
	require.Equal(t, int64(3), v)

	v, err = run(t, s, "GET", []byte("foo"))
	require.NoError(t, err)
	require.Equal(t, []byte("3"), v)
}

func TestDecrByMirrorsIncrBy(t *testing.T) {
	s := newTestServer()
	_, err := run(t, s, "SET", []byte("foo"), []byte("10"))
	require.NoError(t, err)

	v, err := run(t, s, "DECRBY", []byte("foo"), []byte("4"))
	require.NoError(t, err)
	require.Equal(t, int64(6), v)

	v, err = run(t, s, "DECR", []byte("foo"))
	require.NoError(t, err)
	require.Equal(t, int64(5), v)

	v, err = run(t, s, "DECRBY", []byte("missing"), []byte("3"))
	require.NoError(t, err)
	require.Equal(t, int64(-3), v)
}

func TestScenarioHash(t *testing.T) {
	s := newTestServer()
	_, err := run(t, s, "HSET", []byte("h"), []byte("a"), []byte("1"))
	require.NoError(t, err)
	_, err = run(t, s, "HSET", []byte("h"), []byte("b"), []byte("2"))
	require.NoError(t, err)

	all, err := run(t, s, "HGETALL", []byte("h"))
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"a": []byte("1"), "b": []byte("2")}, all)
}

func TestScenarioListRange(t *testing.T) {
	s := newTestServer()
	n, err := run(t, s, "RPUSH", []byte("q"), []byte("x"), []byte("y"), []byte("z"))
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	got, err := run(t, s, "LRANGE", []byte("q"), int64(0), int64(-1))
	require.NoError(t, err)
	require.Equal(t, []interface{}{[]byte("x"), []byte("y"), []byte("z")}, got)
}

func TestPushReturnsCountAddedNotTotalLength(t *testing.T) {
	s := newTestServer()
	n, err := run(t, s, "RPUSH", []byte("q"), []byte("a"))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = run(t, s, "RPUSH", []byte("q"), []byte("b"), []byte("c"))
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	n, err = run(t, s, "LPUSH", []byte("q"), []byte("z"))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	length, err := run(t, s, "LLEN", []byte("q"))
	require.NoError(t, err)
	require.Equal(t, int64(4), length)
}

func TestScenarioSetAlgebra(t *testing.T) {
	s := newTestServer()
	_, err := run(t, s, "SADD", []byte("s"), []byte("1"), []byte("2"), []byte("3"))
	require.NoError(t, err)
	_, err = run(t, s, "SADD", []byte("s"), []byte("2"), []byte("3"), []byte("4"))
	require.NoError(t, err)
	_, err = run(t, s, "SADD", []byte("t"), []byte("3"), []byte("4"))
	require.NoError(t, err)

	card, err := run(t, s, "SCARD", []byte("s"))
	require.NoError(t, err)
	require.Equal(t, int64(4), card)

	diff, err := run(t, s, "SDIFF", []byte("s"), []byte("t"))
	require.NoError(t, err)
	fs := diff.(FrameSet)
	require.Len(t, fs, 2)
	require.Contains(t, fs, "1")
	require.Contains(t, fs, "2")
}

func TestScenarioExpireOnMissingThenSetHonorsFreshWrite(t *testing.T) {
	s := newTestServer()
	_, err := run(t, s, "EXPIRE", []byte("missing"), []byte("10"))
	require.NoError(t, err)

	exists, err := run(t, s, "EXISTS", []byte("missing"))
	require.NoError(t, err)
	require.Equal(t, int64(0), exists)

	_, err = run(t, s, "SET", []byte("missing"), []byte("v"))
	require.NoError(t, err)

	v, err := run(t, s, "GET", []byte("missing"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}

func TestScenarioSchedule(t *testing.T) {
	s := newTestServer()
	_, err := run(t, s, "ADD", []byte("2099-01-01 00:00:00"), []byte("payload"))
	require.NoError(t, err)

	empty, err := run(t, s, "READ", []byte("2000-01-01 00:00:00"))
	require.NoError(t, err)
	require.Empty(t, empty)

	due, err := run(t, s, "READ", []byte("2100-01-01 00:00:00"))
	require.NoError(t, err)
	require.Equal(t, []interface{}{[]byte("payload")}, due)
}

func TestTypeEnforcementLeavesStateUnchanged(t *testing.T) {
	s := newTestServer()
	_, err := run(t, s, "RPUSH", []byte("k"), []byte("v"))
	require.NoError(t, err)

	_, err = run(t, s, "GET", []byte("k"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "wrong key type")

	n, err := run(t, s, "LLEN", []byte("k"))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestErrorRecoveryContinuesOnSameConnection(t *testing.T) {
	s := newTestServer()
	_, err := run(t, s, "NOPE")
	require.Error(t, err)

	v, err := run(t, s, "SET", []byte("k"), []byte("v"))
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}

func TestRPopLPushEmptySourceDoesNotCreateDest(t *testing.T) {
	s := newTestServer()
	n, err := run(t, s, "RPOPLPUSH", []byte("src"), []byte("dst"))
	require.NoError(t, err)
	require.Equal(t, int64(0), n)
	require.False(t, s.keyspace.Exists("dst", time.Now()))
}
