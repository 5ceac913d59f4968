package main

import "strconv"

func cmdHSet(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 3, "HSET"); err != nil {
		return nil, err
	}
	key, field, value, err := hashKeyFieldValue(args)
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantHash, true)
	if err != nil {
		return nil, err
	}
	if entry.Hash.Set(field, value) {
		return int64(1), nil
	}
	return int64(0), nil
}

func cmdHSetNX(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 3, "HSETNX"); err != nil {
		return nil, err
	}
	key, field, value, err := hashKeyFieldValue(args)
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantHash, true)
	if err != nil {
		return nil, err
	}
	if entry.Hash.Exists(field) {
		return int64(0), nil
	}
	entry.Hash.Set(field, value)
	return int64(1), nil
}

func cmdHGet(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 2, "HGET"); err != nil {
		return nil, err
	}
	key, field, err := hashKeyField(args)
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantHash, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	value, ok := entry.Hash.Get(field)
	if !ok {
		return nil, nil
	}
	return value, nil
}

func cmdHDel(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 2, "HDEL"); err != nil {
		return nil, err
	}
	key, field, err := hashKeyField(args)
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantHash, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return int64(0), nil
	}
	if entry.Hash.Del(field) {
		return int64(1), nil
	}
	return int64(0), nil
}

func cmdHExists(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 2, "HEXISTS"); err != nil {
		return nil, err
	}
	key, field, err := hashKeyField(args)
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantHash, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return int64(0), nil
	}
	if entry.Hash.Exists(field) {
		return int64(1), nil
	}
	return int64(0), nil
}

func cmdHGetAll(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "HGETALL"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantHash, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return map[string]interface{}{}, nil
	}
	all := entry.Hash.GetAll()
	result := make(map[string]interface{}, len(all))
	for k, v := range all {
		result[k] = v
	}
	return result, nil
}

func cmdHKeys(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "HKEYS"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantHash, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return []interface{}{}, nil
	}
	return stringsToInterfaces(entry.Hash.Keys()), nil
}

func cmdHVals(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "HVALS"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantHash, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return []interface{}{}, nil
	}
	values := entry.Hash.Values()
	result := make([]interface{}, len(values))
	for i, v := range values {
		result[i] = v
	}
	return result, nil
}

func cmdHLen(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "HLEN"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantHash, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return int64(0), nil
	}
	return int64(entry.Hash.Len()), nil
}

func cmdHMGet(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 2, "HMGET"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantHash, false)
	if err != nil {
		return nil, err
	}
	results := make([]interface{}, len(args)-1)
	for i, a := range args[1:] {
		field, err := argString(a)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			results[i] = nil
			continue
		}
		value, ok := entry.Hash.Get(field)
		if !ok {
			results[i] = nil
			continue
		}
		results[i] = value
	}
	return results, nil
}

func cmdHMSet(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 2, "HMSET"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	pairs, err := argMap(args[1])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantHash, true)
	if err != nil {
		return nil, err
	}
	for field, value := range pairs {
		entry.Hash.Set(field, value)
	}
	return int64(len(pairs)), nil
}

// cmdHIncrBy implements HINCRBY k field [n]: numeric increment scoped
// to one hash field, mirroring incrByKey's "absent becomes 0" and
// "non-numeric scalar is a type error" rules (spec §4.5).
func cmdHIncrBy(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 2, "HINCRBY"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	field, err := argString(args[1])
	if err != nil {
		return nil, err
	}
	delta := int64(1)
	if len(args) > 2 {
		n, err := argInt(args[2])
		if err != nil {
			return nil, err
		}
		delta = n
	}

	entry, err := s.keyspace.requireVariant(key, VariantHash, true)
	if err != nil {
		return nil, err
	}

	current := int64(0)
	if existing, ok := entry.Hash.Get(field); ok {
		current, err = strconv.ParseInt(string(existing), 10, 64)
		if err != nil {
			return nil, newCmdError("hash value is not an integer")
		}
	}
	result := current + delta
	entry.Hash.Set(field, []byte(strconv.FormatInt(result, 10)))
	return result, nil
}

func hashKeyField(args []interface{}) (string, string, error) {
	key, err := argString(args[0])
	if err != nil {
		return "", "", err
	}
	field, err := argString(args[1])
	if err != nil {
		return "", "", err
	}
	return key, field, nil
}

func hashKeyFieldValue(args []interface{}) (string, string, []byte, error) {
	key, field, err := hashKeyField(args)
	if err != nil {
		return "", "", nil, err
	}
	value, err := argBytes(args[2])
	if err != nil {
		return "", "", nil, err
	}
	return key, field, value, nil
}

func stringsToInterfaces(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
