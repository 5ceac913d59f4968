package main

import "time"

func cmdExpire(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 2, "EXPIRE"); err != nil {
		return nil, err
	}
	key, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	seconds, err := argFloat(args[1])
	if err != nil {
		return nil, err
	}
	s.keyspace.expireAt(key, time.Now().Add(secondsToDuration(seconds)))
	return int64(1), nil
}

// cmdInfo implements INFO: counters plus the live key count and server
// time, matching the teacher's stats-dump shape (stats.go) adapted to
// the atomic-backed Stats.
func cmdInfo(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 0, "INFO"); err != nil {
		return nil, err
	}
	info := s.stats.Snapshot()
	info["keys"] = int64(s.keyspace.Len(time.Now()))
	info["server_time"] = formatTimestamp(time.Now())
	return info, nil
}

func cmdFlushAll(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 0, "FLUSHALL"); err != nil {
		return nil, err
	}
	s.keyspace.Flush()
	s.schedule.Flush()
	return int64(1), nil
}

func cmdSave(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "SAVE"); err != nil {
		return nil, err
	}
	path, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	container := buildSnapshot(s.keyspace, s.schedule)
	if err := saveSnapshot(path, container); err != nil {
		return nil, err
	}
	return int64(1), nil
}

func cmdRestore(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "RESTORE"); err != nil {
		return nil, err
	}
	path, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	container, err := loadSnapshot(path)
	if err != nil {
		return nil, err
	}
	restoreInto(s.keyspace, s.schedule, container)
	return int64(1), nil
}

func cmdMerge(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "MERGE"); err != nil {
		return nil, err
	}
	path, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	container, err := loadSnapshot(path)
	if err != nil {
		return nil, err
	}
	mergeInto(s.keyspace, s.schedule, container)
	return int64(1), nil
}

func cmdQuit(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 0, "QUIT"); err != nil {
		return nil, err
	}
	return nil, ClientQuit{}
}

func cmdShutdown(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 0, "SHUTDOWN"); err != nil {
		return nil, err
	}
	return nil, Shutdown{}
}

func cmdScheduleAdd(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 2, "ADD"); err != nil {
		return nil, err
	}
	tsString, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	at, err := parseTimestamp(tsString)
	if err != nil {
		return nil, err
	}
	s.schedule.Add(at, args[1])
	return int64(1), nil
}

func cmdScheduleRead(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 1, "READ"); err != nil {
		return nil, err
	}
	tsString, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	upTo, err := parseTimestamp(tsString)
	if err != nil {
		return nil, err
	}
	return s.schedule.Read(upTo), nil
}

func cmdFlushSchedule(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 0, "FLUSH_SCHEDULE"); err != nil {
		return nil, err
	}
	return int64(s.schedule.Flush()), nil
}

func cmdLengthSchedule(s *Server, args []interface{}) (interface{}, error) {
	if err := requireArity(args, 0, "LENGTH_SCHEDULE"); err != nil {
		return nil, err
	}
	return int64(s.schedule.Len()), nil
}
