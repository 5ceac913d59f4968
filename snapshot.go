package main

import (
	"encoding/gob"
	"os"
	"time"
)

// snapshotVersion is bumped whenever the on-disk shape changes.
// RESTORE/MERGE reject any other version outright (spec §4.6,
// "must reject unknown versions"). gob is a deliberate stdlib choice:
// none of the retrieved pack repos persist local in-process state to a
// single-file snapshot the way this server does (they either talk to
// an external store or don't persist at all), so there is no pack
// library to ground a serializer choice on — see DESIGN.md.
const snapshotVersion = 1

// Schedule payloads travel through gob as interface{} values; gob must
// be told the concrete types it might see, since ADD's payload comes
// straight from the codec's decoded value domain.
func init() {
	gob.Register([]byte{})
	gob.Register("")
	gob.Register(int64(0))
	gob.Register(float64(0))
	gob.Register([]interface{}{})
	gob.Register(map[string]interface{}{})
}

// snapshotEntry is a gob-friendly mirror of Entry's variants; Entry
// itself isn't gob-encoded directly so the wire shape
// stays independent of in-memory pointer structure (particularly
// List's linked nodes).
type snapshotEntry struct {
	Variant Variant
	Scalar  []byte
	Hash    map[string][]byte
	List    [][]byte
	Set     []string
}

type snapshotScheduleItem struct {
	At      time.Time
	Payload interface{}
}

// snapshotContainer is the self-describing versioned format named in
// spec.md §4.6: one file with the named sections `kv` and `schedule`,
// plus the version number and the per-key TTL map (`Expiry`).
type snapshotContainer struct {
	Version  int
	KV       map[string]snapshotEntry
	Schedule []snapshotScheduleItem
	Expiry   map[string]time.Time
}

func entryToSnapshot(e *Entry) snapshotEntry {
	se := snapshotEntry{Variant: e.Variant}
	switch e.Variant {
	case VariantScalar:
		se.Scalar = e.Scalar
	case VariantHash:
		se.Hash = e.Hash.GetAll()
	case VariantList:
		se.List = e.List.Range(0, nil)
	case VariantSet:
		se.Set = e.Set.Members()
	}
	return se
}

func snapshotToEntry(se snapshotEntry) *Entry {
	switch se.Variant {
	case VariantHash:
		h := NewHash()
		for field, value := range se.Hash {
			h.Set(field, value)
		}
		return &Entry{Variant: VariantHash, Hash: h}
	case VariantList:
		l := NewList()
		for _, v := range se.List {
			l.RightPush(v)
		}
		return &Entry{Variant: VariantList, List: l}
	case VariantSet:
		set := NewSet()
		for _, m := range se.Set {
			set.Add(m)
		}
		return &Entry{Variant: VariantSet, Set: set}
	default:
		return &Entry{Variant: VariantScalar, Scalar: se.Scalar}
	}
}

// buildSnapshot captures the keyspace, expiry map and schedule into a
// self-describing container, for SAVE.
func buildSnapshot(k *Keyspace, sched *Schedule) snapshotContainer {
	kv := make(map[string]snapshotEntry, len(k.entries))
	for key, entry := range k.entries {
		kv[key] = entryToSnapshot(entry)
	}

	expiry := make(map[string]time.Time, len(k.expiry.byKey))
	for key, at := range k.expiry.byKey {
		expiry[key] = at
	}

	items := sched.Snapshot()
	scheduleOut := make([]snapshotScheduleItem, len(items))
	for i, it := range items {
		scheduleOut[i] = snapshotScheduleItem{At: it.at, Payload: it.payload}
	}

	return snapshotContainer{
		Version:  snapshotVersion,
		KV:       kv,
		Schedule: scheduleOut,
		Expiry:   expiry,
	}
}

func saveSnapshot(path string, container snapshotContainer) error {
	f, err := os.Create(path)
	if err != nil {
		return newCmdError("save failed: %s", err)
	}
	defer f.Close()

	enc := gob.NewEncoder(f)
	if err := enc.Encode(container); err != nil {
		return newCmdError("save failed: %s", err)
	}
	return nil
}

func loadSnapshot(path string) (snapshotContainer, error) {
	f, err := os.Open(path)
	if err != nil {
		return snapshotContainer{}, newCmdError("restore failed: %s", err)
	}
	defer f.Close()

	var container snapshotContainer
	dec := gob.NewDecoder(f)
	if err := dec.Decode(&container); err != nil {
		return snapshotContainer{}, newCmdError("restore failed: %s", err)
	}
	if container.Version != snapshotVersion {
		return snapshotContainer{}, newCmdError("unknown snapshot version %d", container.Version)
	}
	return container, nil
}

// restoreInto replaces the keyspace and schedule wholesale (RESTORE).
func restoreInto(k *Keyspace, sched *Schedule, container snapshotContainer) {
	k.entries = make(map[string]*Entry, len(container.KV))
	for key, se := range container.KV {
		k.entries[key] = snapshotToEntry(se)
	}
	k.expiry = NewExpiryIndex()
	for key, at := range container.Expiry {
		k.expiry.Set(key, at)
	}

	items := make([]scheduleItem, len(container.Schedule))
	for i, si := range container.Schedule {
		items[i] = scheduleItem{at: si.At, payload: si.Payload}
	}
	sched.Restore(items)
}

// mergeInto unions kv with the in-memory keyspace, letting on-disk
// entries win on key collision, and replaces the schedule outright
// (spec §4.6).
func mergeInto(k *Keyspace, sched *Schedule, container snapshotContainer) {
	for key, se := range container.KV {
		k.entries[key] = snapshotToEntry(se)
		if at, ok := container.Expiry[key]; ok {
			k.expiry.Set(key, at)
		} else {
			k.expiry.Unexpire(key)
		}
	}

	items := make([]scheduleItem, len(container.Schedule))
	for i, si := range container.Schedule {
		items[i] = scheduleItem{at: si.At, payload: si.Payload}
	}
	sched.Restore(items)
}
