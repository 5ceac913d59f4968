package main

func cmdLPush(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 2, "LPUSH"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantList, true)
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		value, err := argBytes(a)
		if err != nil {
			return nil, err
		}
		entry.List.LeftPush(value)
	}
	return int64(len(args) - 1), nil
}

func cmdRPush(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 2, "RPUSH"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantList, true)
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		value, err := argBytes(a)
		if err != nil {
			return nil, err
		}
		entry.List.RightPush(value)
	}
	return int64(len(args) - 1), nil
}

func cmdLPop(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "LPOP"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantList, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	value, ok := entry.List.LeftPop()
	if !ok {
		return nil, nil
	}
	return value, nil
}

func cmdRPop(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "RPOP"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantList, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	value, ok := entry.List.RightPop()
	if !ok {
		return nil, nil
	}
	return value, nil
}

func cmdLRem(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 2, "LREM"); err != nil {
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
	entry, err := s.keyspace.requireVariant(key, VariantList, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return int64(0), nil
	}
	if entry.List.Remove(value) {
		return int64(1), nil
	}
	return int64(0), nil
}

func cmdLLen(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "LLEN"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantList, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return int64(0), nil
	}
	return int64(entry.List.Length()), nil
}

func cmdLIndex(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 2, "LINDEX"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	index, err := argInt(args[1])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantList, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	value, ok := entry.List.Index(int(index))
	if !ok {
		return nil, nil
	}
	return value, nil
}

// cmdLRange implements LRANGE k begin end, treating an omitted end as
// "to the end" and negative indices as "from the tail" per the
// ordered-sequence slicing semantics resolved in DESIGN.md.
func cmdLRange(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 2, "LRANGE"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	begin, err := argInt(args[1])
	if err != nil {
		return nil, err
	}
	end, err := optionalEnd(args, 2)
	if err != nil {
		return nil, err
	}

	entry, err := s.keyspace.requireVariant(key, VariantList, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return []interface{}{}, nil
	}
	values := entry.List.Range(int(begin), end)
	result := make([]interface{}, len(values))
	for i, v := range values {
		result[i] = v
	}
	return result, nil
}

func cmdLSet(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 3, "LSET"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	index, err := argInt(args[1])
	if err != nil {
		return nil, err
	}
	value, err := argBytes(args[2])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantList, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return int64(0), nil
	}
	if entry.List.Set(int(index), value) {
		return int64(1), nil
	}
	return int64(0), nil
}

func cmdLTrim(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 2, "LTRIM"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	begin, err := argInt(args[1])
	if err != nil {
		return nil, err
	}
	end, err := optionalEnd(args, 2)
	if err != nil {
		return nil, err
	}

	entry, err := s.keyspace.requireVariant(key, VariantList, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return int64(0), nil
	}
	return int64(entry.List.Trim(int(begin), end)), nil
}

// cmdRPopLPush implements RPOPLPUSH src dst: moves src's tail onto
// dst's head. On an empty (or missing) source it returns 0 without
// creating dst, per the fragment's disambiguated lazy-creation order
// (SPEC_FULL.md, Supplemented Features).
func cmdRPopLPush(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 2, "RPOPLPUSH"); err != nil {
		return nil, err
	}
	src, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	dst, err := argString(args[1])
	if err != nil {
		return nil, err
	}

	srcEntry, err := s.keyspace.requireVariant(src, VariantList, false)
	if err != nil {
		return nil, err
	}
	if srcEntry == nil {
		return int64(0), nil
	}
	value, ok := srcEntry.List.RightPop()
	if !ok {
		return int64(0), nil
	}

	dstEntry, err := s.keyspace.requireVariant(dst, VariantList, true)
	if err != nil {
		return nil, err
	}
	dstEntry.List.LeftPush(value)
	return int64(1), nil
}

func cmdLFlush(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "LFLUSH"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantList, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return int64(0), nil
	}
	prior := entry.List.Length()
	entry.List = NewList()
	return int64(prior), nil
}

// optionalEnd reads an optional end index argument at position idx,
// returning nil (meaning "to the end") if it wasn't supplied.
func optionalEnd(args []interface{}, idx int) (*int, error) {
	if len(args) <= idx {
		return nil, nil
	}
	n, err := argInt(args[idx])
	if err != nil {
		return nil, err
	}
	end := int(n)
	return &end, nil
}
