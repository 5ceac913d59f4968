package main

import (
	"strconv"
	"time"
)

// cmdSet implements SET k v: unconditional write, clears any TTL on the
// key per the "fresh value writes unexpire first" rule (spec §4.3).
func cmdSet(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 2, "SET"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	value, err := argBytes(args[1])
	if err != nil {
		return nil, err
	}
	s.keyspace.set(key, &Entry{Variant: VariantScalar, Scalar: value})
	return int64(1), nil
}

// cmdSetNX implements SETNX k v: inserts only if the key is absent or
// expired, honoring expiry as absence (spec §4.5).
func cmdSetNX(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 2, "SETNX"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	value, err := argBytes(args[1])
	if err != nil {
		return nil, err
	}
	if s.keyspace.Exists(key, time.Now()) {
		return int64(0), nil
	}
	s.keyspace.set(key, &Entry{Variant: VariantScalar, Scalar: value})
	return int64(1), nil
}

// cmdSetEX implements SETEX k v sec: set plus EXPIRE in one step.
func cmdSetEX(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 3, "SETEX"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	value, err := argBytes(args[1])
	if err != nil {
		return nil, err
	}
	seconds, err := argFloat(args[2])
	if err != nil {
		return nil, err
	}
	s.keyspace.set(key, &Entry{Variant: VariantScalar, Scalar: value})
	s.keyspace.expireAt(key, time.Now().Add(secondsToDuration(seconds)))
	return int64(1), nil
}

func cmdGet(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "GET"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, ok := s.keyspace.get(key)
	if !ok {
		return nil, nil
	}
	if entry.Variant != VariantScalar {
		return nil, newCmdError("operation against wrong key type")
	}
	return entry.Scalar, nil
}

// cmdGetSet implements GETSET k v: returns the prior value (or null)
// and unconditionally sets the scalar variant, clearing any TTL.
func cmdGetSet(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 2, "GETSET"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	value, err := argBytes(args[1])
	if err != nil {
		return nil, err
	}

	var prior interface{}
	if entry, ok := s.keyspace.get(key); ok {
		if entry.Variant != VariantScalar {
			return nil, newCmdError("operation against wrong key type")
		}
		prior = entry.Scalar
	}
	s.keyspace.set(key, &Entry{Variant: VariantScalar, Scalar: value})
	return prior, nil
}

func cmdDelete(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "DELETE"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	if s.keyspace.Delete(key) {
		return int64(1), nil
	}
	return int64(0), nil
}

func cmdExists(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "EXISTS"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	if s.keyspace.Exists(key, time.Now()) {
		return int64(1), nil
	}
	return int64(0), nil
}

// cmdAppend implements APPEND k v. Per the resolved Open Question
// (decorator-style APPEND branching, DESIGN.md), only the scalar
// concatenation shape is exposed: a list target appends the single
// value as one new element rather than branching on the argument's own
// shape.
func cmdAppend(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 2, "APPEND"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	value, err := argBytes(args[1])
	if err != nil {
		return nil, err
	}

	entry, ok := s.keyspace.get(key)
	switch {
	case !ok:
		s.keyspace.set(key, &Entry{Variant: VariantScalar, Scalar: append([]byte{}, value...)})
		return int64(len(value)), nil
	case entry.Variant == VariantScalar:
		entry.Scalar = append(entry.Scalar, value...)
		return int64(len(entry.Scalar)), nil
	case entry.Variant == VariantList:
		n := entry.List.RightPush(value)
		return int64(n), nil
	default:
		return nil, newCmdError("operation against wrong key type")
	}
}

func cmdIncr(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "INCR"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	return incrByKey(s, key, 1)
}

func cmdDecr(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "DECR"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	return incrByKey(s, key, -1)
}

func cmdIncrBy(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 1, "INCRBY"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	delta := int64(1)
	if len(args) > 1 {
		n, err := argInt(args[1])
		if err != nil {
			return nil, err
		}
		delta = n
	}
	return incrByKey(s, key, delta)
}

func cmdDecrBy(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 1, "DECRBY"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	delta := int64(1)
	if len(args) > 1 {
		n, err := argInt(args[1])
		if err != nil {
			return nil, err
		}
		delta = n
	}
	return incrByKey(s, key, -delta)
}

// incrByKey implements the shared INCR/DECR/INCRBY/DECRBY numeric path: the
// scalar must already be absent (created as 0) or parse as an integer;
// any other scalar content is a type error (spec §4.5, "numeric
// increments refuse to operate on non-numeric scalars").
func incrByKey(s *Server, key string, delta int64) (interface{}, error) {
	entry, ok := s.keyspace.get(key)
	if !ok {
		result := delta
		s.keyspace.set(key, &Entry{Variant: VariantScalar, Scalar: []byte(strconv.FormatInt(result, 10))})
		return result, nil
	}
	if entry.Variant != VariantScalar {
		return nil, newCmdError("operation against wrong key type")
	}
	current, err := strconv.ParseInt(string(entry.Scalar), 10, 64)
	if err != nil {
		return nil, newCmdError("value is not an integer")
	}
	result := current + delta
	entry.Scalar = []byte(strconv.FormatInt(result, 10))
	return result, nil
}

func cmdMGet(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 1, "MGET"); err != nil {
		return nil, err
	}
	results := make([]interface{}, len(args))
	for i, a := range args {
		key, err := argString(a)
		if err != nil {
			return nil, err
		}
		entry, ok := s.keyspace.get(key)
		if !ok {
			results[i] = nil
			continue
		}
		if entry.Variant != VariantScalar {
			return nil, newCmdError("operation against wrong key type")
		}
		results[i] = entry.Scalar
	}
	return results, nil
}

// cmdMSet implements MSET {k:v}: atomically (from the caller's point of
// view) replaces every listed key and clears any TTL on each (spec
// §4.5 ordering policy).
func cmdMSet(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "MSET"); err != nil {
		return nil, err
	}
	pairs, err := argMap(args[0])
	if err != nil {
		return nil, err
	}
	for key, value := range pairs {
		s.keyspace.set(key, &Entry{Variant: VariantScalar, Scalar: value})
	}
	return int64(len(pairs)), nil
}

func cmdMDelete(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 1, "MDELETE"); err != nil {
		return nil, err
	}
	count := int64(0)
	for _, a := range args {
		key, err := argString(a)
		if err != nil {
			return nil, err
		}
		if s.keyspace.Delete(key) {
			count++
		}
	}
	return count, nil
}

// cmdMPop implements MPOP …: GET-then-DELETE for each listed key.
func cmdMPop(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 1, "MPOP"); err != nil {
		return nil, err
	}
	results := make([]interface{}, len(args))
	for i, a := range args {
		key, err := argString(a)
		if err != nil {
			return nil, err
		}
		entry, ok := s.keyspace.get(key)
		if !ok {
			results[i] = nil
			continue
		}
		if entry.Variant != VariantScalar {
			return nil, newCmdError("operation against wrong key type")
		}
		results[i] = entry.Scalar
		s.keyspace.Delete(key)
	}
	return results, nil
}

// cmdMSetEX implements MSETEX {k:v} sec: MSET plus a shared EXPIRE
// applied to every touched key. Per the resolved Open Question
// ("MSETEX returns nothing in one path"), this always returns the
// count of keys set.
func cmdMSetEX(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 2, "MSETEX"); err != nil {
		return nil, err
	}
	pairs, err := argMap(args[0])
	if err != nil {
		return nil, err
	}
	seconds, err := argFloat(args[1])
	if err != nil {
		return nil, err
	}
	expireAt := time.Now().Add(secondsToDuration(seconds))
	for key, value := range pairs {
		s.keyspace.set(key, &Entry{Variant: VariantScalar, Scalar: value})
		s.keyspace.expireAt(key, expireAt)
	}
	return int64(len(pairs)), nil
}

// cmdPop implements POP k: GET-then-DELETE for a single scalar key.
func cmdPop(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "POP"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, ok := s.keyspace.get(key)
	if !ok {
		return nil, nil
	}
	if entry.Variant != VariantScalar {
		return nil, newCmdError("operation against wrong key type")
	}
	s.keyspace.Delete(key)
	return entry.Scalar, nil
}

func cmdLen(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 0, "LEN"); err != nil {
		return nil, err
	}
	return int64(s.keyspace.Len(time.Now())), nil
}

func cmdFlush(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 0, "FLUSH"); err != nil {
		return nil, err
	}
	return int64(s.keyspace.Flush()), nil
}

func cmdKeys(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 0, "KEYS"); err != nil {
		return nil, err
	}
	pattern := "*"
	if len(args) > 0 {
		p, err := argString(args[0])
		if err != nil {
			return nil, err
		}
		pattern = p
	}
	keys := s.keyspace.keysMatching(pattern)
	result := make([]interface{}, len(keys))
	for i, k := range keys {
		result[i] = k
	}
	return result, nil
}

func argInt(v interface{}) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case float64:
		return int64(val), nil
	case []byte:
		n, err := strconv.ParseInt(string(val), 10, 64)
		if err != nil {
			return 0, newCmdError("value is not an integer")
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, newCmdError("value is not an integer")
		}
		return n, nil
	default:
		return 0, newCmdError("expected an integer argument")
	}
}

func argFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case int64:
		return float64(val), nil
	case []byte:
		n, err := strconv.ParseFloat(string(val), 64)
		if err != nil {
			return 0, newCmdError("value is not a number")
		}
		return n, nil
	case string:
		n, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, newCmdError("value is not a number")
		}
		return n, nil
	default:
		return 0, newCmdError("expected a numeric argument")
	}
}

// argMap accepts a codec-decoded map value for MSET-style commands.
func argMap(v interface{}) (map[string][]byte, error) {
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil, newCmdError("expected a map argument")
	}
	out := make(map[string][]byte, len(raw))
	for key, val := range raw {
		b, err := argBytes(val)
		if err != nil {
			return nil, err
		}
		out[key] = b
	}
	return out, nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
