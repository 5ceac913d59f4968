package main

import (
	"bytes"
	"strings"
)

// commandHandler executes one command against the server's state. args
// excludes the command name itself. Returns the reply value (encoded by
// the codec) or an error (CmdError, ClientQuit, Shutdown, ...).
type commandHandler func(s *Server, args []interface{}) (interface{}, error)

// commandTable is the compile-time name -> handler map, built once at
// startup and extended at runtime by loaded extensions (extension.go).
// Adapted from the teacher's processCommand switch (handlers.go), which
// dispatched on an opcode byte; here dispatch is by upper-cased command
// name, matching the wire protocol's string-request shape.
type commandTable struct {
	handlers map[string]commandHandler
}

func newCommandTable() *commandTable {
	t := &commandTable{handlers: make(map[string]commandHandler)}
	t.registerBuiltins()
	return t
}

func (t *commandTable) register(name string, h commandHandler) {
	t.handlers[strings.ToUpper(name)] = h
}

func (t *commandTable) lookup(name string) (commandHandler, bool) {
	h, ok := t.handlers[strings.ToUpper(name)]
	return h, ok
}

func (t *commandTable) registerBuiltins() {
	// KV
	t.register("SET", cmdSet)
	t.register("SETNX", cmdSetNX)
	t.register("SETEX", cmdSetEX)
	t.register("GET", cmdGet)
	t.register("GETSET", cmdGetSet)
	t.register("DELETE", cmdDelete)
	t.register("EXISTS", cmdExists)
	t.register("APPEND", cmdAppend)
	t.register("INCR", cmdIncr)
	t.register("DECR", cmdDecr)
	t.register("INCRBY", cmdIncrBy)
	t.register("DECRBY", cmdDecrBy)
	t.register("MGET", cmdMGet)
	t.register("MSET", cmdMSet)
	t.register("MDELETE", cmdMDelete)
	t.register("MPOP", cmdMPop)
	t.register("MSETEX", cmdMSetEX)
	t.register("POP", cmdPop)
	t.register("LEN", cmdLen)
	t.register("FLUSH", cmdFlush)
	t.register("KEYS", cmdKeys)

	// Hash
	t.register("HSET", cmdHSet)
	t.register("HSETNX", cmdHSetNX)
	t.register("HGET", cmdHGet)
	t.register("HDEL", cmdHDel)
	t.register("HEXISTS", cmdHExists)
	t.register("HGETALL", cmdHGetAll)
	t.register("HKEYS", cmdHKeys)
	t.register("HVALS", cmdHVals)
	t.register("HLEN", cmdHLen)
	t.register("HMGET", cmdHMGet)
	t.register("HMSET", cmdHMSet)
	t.register("HINCRBY", cmdHIncrBy)

	// List
	t.register("LPUSH", cmdLPush)
	t.register("RPUSH", cmdRPush)
	t.register("LPOP", cmdLPop)
	t.register("RPOP", cmdRPop)
	t.register("LREM", cmdLRem)
	t.register("LLEN", cmdLLen)
	t.register("LINDEX", cmdLIndex)
	t.register("LRANGE", cmdLRange)
	t.register("LSET", cmdLSet)
	t.register("LTRIM", cmdLTrim)
	t.register("RPOPLPUSH", cmdRPopLPush)
	t.register("LFLUSH", cmdLFlush)

	// Set
	t.register("SADD", cmdSAdd)
	t.register("SREM", cmdSRem)
	t.register("SCARD", cmdSCard)
	t.register("SISMEMBER", cmdSIsMember)
	t.register("SMEMBERS", cmdSMembers)
	t.register("SPOP", cmdSPop)
	t.register("SDIFF", cmdSDiff)
	t.register("SDIFFSTORE", cmdSDiffStore)
	t.register("SINTER", cmdSInter)
	t.register("SINTERSTORE", cmdSInterStore)
	t.register("SUNION", cmdSUnion)
	t.register("SUNIONSTORE", cmdSUnionStore)

	// Lifecycle / admin
	t.register("EXPIRE", cmdExpire)
	t.register("INFO", cmdInfo)
	t.register("FLUSHALL", cmdFlushAll)
	t.register("SAVE", cmdSave)
	t.register("RESTORE", cmdRestore)
	t.register("MERGE", cmdMerge)
	t.register("QUIT", cmdQuit)
	t.register("SHUTDOWN", cmdShutdown)

	// Schedule
	t.register("ADD", cmdScheduleAdd)
	t.register("READ", cmdScheduleRead)
	t.register("FLUSH_SCHEDULE", cmdFlushSchedule)
	t.register("LENGTH_SCHEDULE", cmdLengthSchedule)
}

// dispatch turns a decoded request frame into (command name, positional
// args), per spec §4.2: a single byte/unicode string is split on
// whitespace into an argument vector; an array is used directly;
// anything else is a request-shape error.
func dispatch(t *commandTable, s *Server, request interface{}) (interface{}, error) {
	args, err := requestArgs(request)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, newCmdError("unrecognized request type")
	}

	name, err := argString(args[0])
	if err != nil {
		return nil, newCmdError("first parameter must be a command name")
	}

	handler, ok := t.lookup(name)
	if !ok {
		return nil, newCmdError("unrecognized command %s", strings.ToUpper(name))
	}

	return handler(s, args[1:])
}

func requestArgs(request interface{}) ([]interface{}, error) {
	switch v := request.(type) {
	case []interface{}:
		return v, nil
	case []byte:
		return splitArgs(string(v)), nil
	case string:
		return splitArgs(v), nil
	default:
		return nil, newCmdError("unrecognized request type")
	}
}

func splitArgs(line string) []interface{} {
	fields := strings.Fields(line)
	args := make([]interface{}, len(fields))
	for i, f := range fields {
		args[i] = []byte(f)
	}
	return args
}

// argString extracts a string from a codec value that may arrive as
// []byte or string (both valid bulk/unicode decodings).
func argString(v interface{}) (string, error) {
	switch val := v.(type) {
	case []byte:
		return string(val), nil
	case string:
		return val, nil
	default:
		return "", newCmdError("expected a string argument")
	}
}

func argBytes(v interface{}) ([]byte, error) {
	switch val := v.(type) {
	case []byte:
		return val, nil
	case string:
		return []byte(val), nil
	default:
		return nil, newCmdError("expected a bulk argument")
	}
}

func requireArity(args []interface{}, n int, name string) error {
	if len(args) != n {
		return newCmdError("wrong number of arguments for %s", name)
	}
	return nil
}

func requireMinArity(args []interface{}, n int, name string) error {
	if len(args) < n {
		return newCmdError("wrong number of arguments for %s", name)
	}
	return nil
}

func bytesEqual(a, b []byte) bool {
	return bytes.Equal(a, b)
}
