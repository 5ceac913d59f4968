package main

import "time"

// Keyspace holds every stored entry plus the expiration index that
// governs their lazy reclamation. All access is expected to happen
// under the server's coarse command lock (spec §5); Keyspace itself
// does no locking.
type Keyspace struct {
	entries map[string]*Entry
	expiry  *ExpiryIndex
}

func NewKeyspace() *Keyspace {
	return &Keyspace{
		entries: make(map[string]*Entry),
		expiry:  NewExpiryIndex(),
	}
}

// dropIfExpired removes key from both the keyspace and the expiry index
// if it has passed its TTL, per spec §4.3's check_expired/lazy eviction.
// Returns true if the key was dropped.
func (k *Keyspace) dropIfExpired(key string, now time.Time) bool {
	if k.expiry.CheckExpired(key, now) {
		delete(k.entries, key)
		k.expiry.Unexpire(key)
		return true
	}
	return false
}

// Delete removes key from the keyspace and its expiry entry, if any.
func (k *Keyspace) Delete(key string) bool {
	_, existed := k.entries[key]
	delete(k.entries, key)
	k.expiry.Unexpire(key)
	return existed
}

// Exists reports whether key is present and not expired, applying lazy
// eviction as a side effect.
func (k *Keyspace) Exists(key string, now time.Time) bool {
	k.dropIfExpired(key, now)
	_, ok := k.entries[key]
	return ok
}

// Len returns the total number of live keys, sweeping expired ones out
// of the count as a side effect of the lazy view (not a full sweep of
// the expiry heap).
func (k *Keyspace) Len(now time.Time) int {
	n := 0
	for key := range k.entries {
		if k.dropIfExpired(key, now) {
			continue
		}
		n++
	}
	return n
}

// Flush clears every keyspace entry and its TTLs, returning the prior
// key count.
func (k *Keyspace) Flush() int {
	n := len(k.entries)
	k.entries = make(map[string]*Entry)
	k.expiry = NewExpiryIndex()
	return n
}

// Sweep performs one lazy-reclamation pass over the expiry heap,
// removing keys whose TTL has passed. Called periodically by the
// server's background sweep loop.
func (k *Keyspace) Sweep(now time.Time) int {
	return k.expiry.Sweep(now, func(key string) {
		delete(k.entries, key)
	})
}

// requireVariant is the uniform type-enforcement prologue every handler
// calls before touching a key (spec §4.2): drop if expired, reject a
// variant mismatch, and optionally create an empty container of the
// right variant if the key is missing and the operation is
// write-oriented. Returns the live entry, or nil if the key is absent
// and createIfMissing is false (read-oriented commands should treat nil
// as "key not found" without creating state).
func (k *Keyspace) requireVariant(key string, variant Variant, createIfMissing bool) (*Entry, error) {
	now := time.Now()
	k.dropIfExpired(key, now)

	if entry, ok := k.entries[key]; ok {
		if entry.Variant != variant {
			return nil, newCmdError("operation against wrong key type")
		}
		return entry, nil
	}

	if !createIfMissing {
		return nil, nil
	}

	entry := newEmptyEntry(variant)
	k.entries[key] = entry
	return entry, nil
}

// get returns the live entry for key (applying lazy expiry), or nil if
// absent. Unlike requireVariant it performs no type check: callers that
// need to branch on existing variant (e.g. GET, APPEND, INCR) use this.
func (k *Keyspace) get(key string) (*Entry, bool) {
	now := time.Now()
	if k.dropIfExpired(key, now) {
		return nil, false
	}
	entry, ok := k.entries[key]
	return entry, ok
}

// set unconditionally replaces key's entry and clears any TTL, per the
// "fresh value writes must unexpire first" rule (spec §4.3), unless the
// caller immediately re-applies a TTL afterward (SETEX/MSETEX).
func (k *Keyspace) set(key string, entry *Entry) {
	k.entries[key] = entry
	k.expiry.Unexpire(key)
}

func (k *Keyspace) expireAt(key string, at time.Time) {
	k.expiry.Set(key, at)
}

func (k *Keyspace) ttl(key string) (time.Time, bool) {
	return k.expiry.ExpiresAt(key)
}

// keysMatching returns every live key matching pattern (glob-style * and
// ? wildcards), sweeping expired keys out along the way.
func (k *Keyspace) keysMatching(pattern string) []string {
	now := time.Now()
	var matched []string
	for key := range k.entries {
		if k.dropIfExpired(key, now) {
			continue
		}
		if matchPattern(pattern, key) {
			matched = append(matched, key)
		}
	}
	return matched
}

// matchPattern reports whether key matches a glob pattern using '*' and
// '?' wildcards, adapted from the teacher's wildcardMatch (handlers.go).
func matchPattern(pattern, key string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	i, j := 0, 0
	starIdx, match := -1, 0

	for i < len(key) {
		if j < len(pattern) && (pattern[j] == '?' || pattern[j] == key[i]) {
			i++
			j++
		} else if j < len(pattern) && pattern[j] == '*' {
			starIdx = j
			match = i
			j++
		} else if starIdx != -1 {
			j = starIdx + 1
			match++
			i = match
		} else {
			return false
		}
	}

	for j < len(pattern) && pattern[j] == '*' {
		j++
	}

	return j == len(pattern)
}
