package mvcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verity-db/verity/engine"
	"github.com/verity-db/verity/engine/memory"
)

func TestLoadAndCheckLockNoLock(t *testing.T) {
	e := memory.New()
	var st engine.Statistics
	ts, err := LoadAndCheckLock(e.Snapshot(), []byte("k"), 7, &st)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), ts)
	assert.Equal(t, 0, st.Lock.Processed)
}

func TestLoadAndCheckLockCorrupt(t *testing.T) {
	e := memory.New()
	e.Put(engine.CFLock, []byte("k"), []byte("garbage"))
	var st engine.Statistics
	_, err := LoadAndCheckLock(e.Snapshot(), []byte("k"), 7, &st)
	require.Error(t, err)
	assert.IsType(t, ErrBadFormatLock{}, err)
}

func TestLoadAndCheckLockConflict(t *testing.T) {
	e := memory.New()
	lock := Lock{Type: LockPut, Primary: []byte("pk"), StartTS: 5, TTL: 100}
	e.Put(engine.CFLock, []byte("k"), lock.Encode())
	var st engine.Statistics
	_, err := LoadAndCheckLock(e.Snapshot(), []byte("k"), 7, &st)
	assert.IsType(t, ErrLocked{}, err)
	assert.Equal(t, 1, st.Lock.Processed)

	ts, err := LoadAndCheckLock(e.Snapshot(), []byte("k"), 4, &st)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), ts)
}

func TestLoadDataByWrite(t *testing.T) {
	e := memory.New()
	enc := EncodeKey([]byte("k"))
	e.Put(engine.CFDefault, AppendTS(enc, 4), []byte("payload"))
	snap := e.Snapshot()
	cursor, err := snap.IterCF(engine.CFDefault, engine.IterOptions{}, engine.ScanForward)
	require.NoError(t, err)
	defer cursor.Close()

	var st engine.Statistics
	value, err := LoadDataByWrite(cursor, enc, Write{Type: WritePut, StartTS: 4}, &st)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), value)
	assert.Equal(t, 1, st.Data.Processed)

	// A start ts with no default entry is corruption, not a miss.
	_, err = LoadDataByWrite(cursor, enc, Write{Type: WritePut, StartTS: 9}, &st)
	require.Error(t, err)
	assert.IsType(t, ErrDefaultNotFound{}, err)
}
