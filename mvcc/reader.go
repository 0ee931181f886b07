package mvcc

import (
	"bytes"

	"github.com/verity-db/verity/engine"
)

// Helpers shared by the read path. They treat the lock CF as authoritative
// and never reimplement the transaction layer's lock-resolution policy.

// LoadAndCheckLock reads the lock on a raw user key, if any, and checks it
// against the read timestamp. Returns the (possibly adjusted) timestamp the
// read should proceed with, or ErrLocked on conflict.
func LoadAndCheckLock(snap engine.Snapshot, key []byte, ts uint64, st *engine.Statistics) (uint64, error) {
	st.Lock.FlowKeys++
	data, err := snap.Get(engine.CFLock, key)
	if err != nil {
		return 0, err
	}
	if data == nil {
		return ts, nil
	}
	lock, err := ParseLock(data)
	if err != nil {
		return 0, err
	}
	st.Lock.Processed++
	return lock.Check(key, ts)
}

// LoadDataByWrite resolves a Put record lacking an inlined value into its
// full payload from the default CF.
//
// The default CF entry for a Put lives at the encoded user key versioned
// with the transaction's start timestamp. A missing or mismatched entry
// means the write index points at data that is not there: corruption, not a
// miss.
func LoadDataByWrite(cursor *engine.Cursor, encodedKey []byte, write Write, st *engine.Statistics) ([]byte, error) {
	seekKey := AppendTS(encodedKey, write.StartTS)
	ok, err := cursor.NearSeek(seekKey, &st.Data)
	if err != nil {
		return nil, err
	}
	if !ok || !bytes.Equal(cursor.Key(&st.Data), seekKey) {
		return nil, ErrDefaultNotFound{Key: encodedKey, StartTS: write.StartTS}
	}
	st.Data.Processed++
	return cursor.Value(&st.Data), nil
}
