package main

func cmdSAdd(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 2, "SADD"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantSet, true)
	if err != nil {
		return nil, err
	}
	added := int64(0)
	for _, a := range args[1:] {
		member, err := argString(a)
		if err != nil {
			return nil, err
		}
		if entry.Set.Add(member) {
			added++
		}
	}
	return added, nil
}

func cmdSRem(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 2, "SREM"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantSet, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return int64(0), nil
	}
	removed := int64(0)
	for _, a := range args[1:] {
		member, err := argString(a)
		if err != nil {
			return nil, err
		}
		if entry.Set.Remove(member) {
			removed++
		}
	}
	return removed, nil
}

func cmdSCard(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "SCARD"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantSet, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return int64(0), nil
	}
	return int64(entry.Set.Card()), nil
}

func cmdSIsMember(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 2, "SISMEMBER"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	member, err := argString(args[1])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantSet, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return int64(0), nil
	}
	if entry.Set.IsMember(member) {
		return int64(1), nil
	}
	return int64(0), nil
}

func cmdSMembers(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "SMEMBERS"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	entry, err := s.keyspace.requireVariant(key, VariantSet, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return FrameSet{}, nil
	}
	return newFrameSet(entry.Set.Members()...), nil
}

func cmdSPop(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 1, "SPOP"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	n := 1
	if len(args) > 1 {
		count, err := argInt(args[1])
		if err != nil {
			return nil, err
		}
		n = int(count)
	}

	entry, err := s.keyspace.requireVariant(key, VariantSet, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return newFrameSet(), nil
	}
	return newFrameSet(entry.Set.Pop(n)...), nil
}

// setOperands resolves every key argument to a *Set, enforcing set
// variant on all participants per spec §4.5 ("a non-set key raises a
// type error"). This is the resolved behavior for the Open Question
// about check_expired being miscalled where a type check belonged
// (DESIGN.md).
func setOperands(s *Server, args []interface{}) ([]*Set, error) {
	sets := make([]*Set, len(args))
	for i, a := range args {
		key, err := argString(a)
		if err != nil {
			return nil, err
		}
		entry, err := s.keyspace.requireVariant(key, VariantSet, false)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			sets[i] = NewSet()
			continue
		}
		sets[i] = entry.Set
	}
	return sets, nil
}

func cmdSDiff(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 1, "SDIFF"); err != nil {
		return nil, err
	}
	sets, err := setOperands(s, args)
	if err != nil {
		return nil, err
	}
	return newFrameSet(setDiff(sets)...), nil
}

func cmdSInter(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 1, "SINTER"); err != nil {
		return nil, err
	}
	sets, err := setOperands(s, args)
	if err != nil {
		return nil, err
	}
	return newFrameSet(setInter(sets)...), nil
}

func cmdSUnion(s *Server, args []interface{}) (interface{}, error) {
	if err := requireMinArity(args, 1, "SUNION"); err != nil {
		return nil, err
	}
	sets, err := setOperands(s, args)
	if err != nil {
		return nil, err
	}
	return newFrameSet(setUnion(sets)...), nil
}

func cmdSDiffStore(s *Server, args []interface{}) (interface{}, error) {
	return setAlgebraStore(s, args, "SDIFFSTORE", setDiff)
}

func cmdSInterStore(s *Server, args []interface{}) (interface{}, error) {
	return setAlgebraStore(s, args, "SINTERSTORE", setInter)
}

func cmdSUnionStore(s *Server, args []interface{}) (interface{}, error) {
	return setAlgebraStore(s, args, "SUNIONSTORE", setUnion)
}

// setAlgebraStore implements the …STORE variants shared shape: compute
// the algebra over the trailing keys and assign the result as a set
// under dst (the first argument).
func setAlgebraStore(s *Server, args []interface{}, name string, op func([]*Set) []string) (interface{}, error) {
	if err := requireMinArity(args, 2, name); err != nil {
		return nil, err
	}
	dst, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	sets, err := setOperands(s, args[1:])
	if err != nil {
		return nil, err
	}
	members := op(sets)

	result := NewSet()
	for _, m := range members {
		result.Add(m)
	}
	s.keyspace.set(dst, &Entry{Variant: VariantSet, Set: result})
	return int64(len(members)), nil
}
