package mvcc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRoundtrip(t *testing.T) {
	assert := assert.New(t)
	for _, w := range []Write{
		{Type: WritePut, StartTS: 5, ShortValue: []byte("short")},
		{Type: WritePut, StartTS: 5, ShortValue: []byte{}},
		{Type: WritePut, StartTS: 1 << 40},
		{Type: WriteDelete, StartTS: 7},
		{Type: WriteLock, StartTS: 8},
		{Type: WriteRollback, StartTS: 9},
	} {
		got, err := ParseWrite(w.Encode())
		require.NoError(t, err)
		assert.Equal(w, got)
	}
}

func TestWriteShortValuePresence(t *testing.T) {
	assert := assert.New(t)
	inline, err := ParseWrite(Write{Type: WritePut, StartTS: 1, ShortValue: []byte{}}.Encode())
	require.NoError(t, err)
	assert.NotNil(inline.ShortValue,
		"an empty inline value is still an inline value")
	indirect, err := ParseWrite(Write{Type: WritePut, StartTS: 1}.Encode())
	require.NoError(t, err)
	assert.Nil(indirect.ShortValue,
		"no inline value means the payload is in the default CF")
}

func TestParseWriteBadInput(t *testing.T) {
	assert := assert.New(t)
	for _, value := range [][]byte{
		{},
		{'X', 1},
		{'P'},
		// truncated short value
		{'P', 1, 'v', 10, 1, 2},
		// trailing garbage after the short value
		{'P', 1, 'v', 1, 2, 3},
		// short value without its prefix byte
		{'P', 1, 'x', 0},
	} {
		_, err := ParseWrite(value)
		assert.Error(err, "value %v should not parse", value)
		assert.IsType(ErrBadFormatWrite{}, err)
	}
}

func TestLockRoundtrip(t *testing.T) {
	assert := assert.New(t)
	for _, l := range []Lock{
		{Type: LockPut, Primary: []byte("pk"), StartTS: 10, TTL: 3000},
		{Type: LockDelete, Primary: []byte{}, StartTS: 1},
		{Type: LockShared, Primary: []byte("pk"), StartTS: 1 << 33, TTL: 1},
	} {
		got, err := ParseLock(l.Encode())
		require.NoError(t, err)
		assert.Equal(l, got)
	}
}

func TestParseLockBadInput(t *testing.T) {
	for _, value := range [][]byte{
		{},
		{'X', 0, 1, 1},
		{'P', 5, 'p'},
	} {
		_, err := ParseLock(value)
		assert.Error(t, err, "value %v should not parse", value)
		assert.IsType(t, ErrBadFormatLock{}, err)
	}
}

func TestLockCheck(t *testing.T) {
	assert := assert.New(t)
	lock := Lock{Type: LockPut, Primary: []byte("pk"), StartTS: 10, TTL: 3000}

	ts, err := lock.Check([]byte("k"), 9)
	require.NoError(t, err)
	assert.Equal(uint64(9), ts, "a lock started after the read is irrelevant")

	_, err = lock.Check([]byte("k"), 10)
	assert.IsType(ErrLocked{}, err)
	locked := err.(ErrLocked)
	assert.Equal([]byte("pk"), locked.Primary)
	assert.Equal(uint64(10), locked.StartTS)

	_, err = lock.Check([]byte("k"), math.MaxUint64)
	assert.IsType(ErrLocked{}, err,
		"a latest read of a non-primary key still conflicts")

	ts, err = lock.Check([]byte("pk"), math.MaxUint64)
	require.NoError(t, err)
	assert.Equal(uint64(9), ts,
		"a latest read of the primary is answered just before the lock")

	shared := Lock{Type: LockShared, Primary: []byte("pk"), StartTS: 10}
	ts, err = shared.Check([]byte("k"), 20)
	require.NoError(t, err)
	assert.Equal(uint64(20), ts, "shared locks never block readers")
}
