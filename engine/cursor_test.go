package engine

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceIterator is a minimal sorted in-memory Iterator for exercising Cursor.
type sliceIterator struct {
	keys [][]byte
	pos  int
	err  error
}

func newSliceIterator(keys ...string) *sliceIterator {
	it := &sliceIterator{pos: -1}
	for _, k := range keys {
		it.keys = append(it.keys, []byte(k))
	}
	sort.Slice(it.keys, func(i, j int) bool {
		return bytes.Compare(it.keys[i], it.keys[j]) < 0
	})
	return it
}

func (it *sliceIterator) Valid() bool {
	return it.err == nil && it.pos >= 0 && it.pos < len(it.keys)
}

func (it *sliceIterator) Seek(key []byte) bool {
	it.pos = sort.Search(len(it.keys), func(i int) bool {
		return bytes.Compare(it.keys[i], key) >= 0
	})
	return it.Valid()
}

func (it *sliceIterator) SeekToFirst() bool {
	it.pos = 0
	return it.Valid()
}

func (it *sliceIterator) Next() bool {
	it.pos++
	return it.Valid()
}

func (it *sliceIterator) Key() []byte   { return it.keys[it.pos] }
func (it *sliceIterator) Value() []byte { return nil }
func (it *sliceIterator) Err() error    { return it.err }
func (it *sliceIterator) Close()        {}

func TestCursorSeek(t *testing.T) {
	assert := assert.New(t)
	c := NewCursor(newSliceIterator("b", "d", "f"), ScanForward)
	var st CFStatistics

	ok, err := c.Seek([]byte("c"), &st)
	require.NoError(t, err)
	assert.True(ok)
	assert.Equal([]byte("d"), c.Key(&st))

	ok, err = c.Seek([]byte("g"), &st)
	require.NoError(t, err)
	assert.False(ok, "seek past the last key should exhaust the cursor")
	assert.Equal(2, st.Seek)
}

func TestNearSeekSteps(t *testing.T) {
	assert := assert.New(t)
	c := NewCursor(newSliceIterator("a", "b", "c", "d"), ScanForward)
	var st CFStatistics

	// Invalid cursor falls back to a full seek.
	ok, err := c.NearSeek([]byte("a"), &st)
	require.NoError(t, err)
	assert.True(ok)
	assert.Equal(1, st.Seek)

	// Close target: reached by stepping, not seeking.
	ok, err = c.NearSeek([]byte("c"), &st)
	require.NoError(t, err)
	assert.True(ok)
	assert.Equal([]byte("c"), c.Key(&st))
	assert.Equal(1, st.Seek, "near seek should not issue a full seek")
	assert.Equal(1, st.NearSeek)

	// Exact hit on the current position costs nothing.
	ok, err = c.NearSeek([]byte("c"), &st)
	require.NoError(t, err)
	assert.True(ok)
	assert.Equal(2, st.NearSeek)

	// A target behind the current position costs a full seek; a forward
	// cursor cannot step back.
	ok, err = c.NearSeek([]byte("b"), &st)
	require.NoError(t, err)
	assert.True(ok)
	assert.Equal([]byte("b"), c.Key(&st))
	assert.Equal(2, st.Seek)
}

func TestNearSeekFallsBackToSeek(t *testing.T) {
	assert := assert.New(t)
	var keys []string
	for b := byte('a'); b <= 'z'; b++ {
		keys = append(keys, string([]byte{b}))
	}
	c := NewCursor(newSliceIterator(keys...), ScanForward)
	var st CFStatistics

	_, err := c.NearSeek([]byte("a"), &st)
	require.NoError(t, err)
	// Far target: stepping gives up after the bound and seeks.
	ok, err := c.NearSeek([]byte("y"), &st)
	require.NoError(t, err)
	assert.True(ok)
	assert.Equal([]byte("y"), c.Key(&st))
	assert.Equal(2, st.Seek)
}

func TestNearSeekExhausted(t *testing.T) {
	c := NewCursor(newSliceIterator("a", "b"), ScanForward)
	var st CFStatistics
	_, err := c.NearSeek([]byte("a"), &st)
	require.NoError(t, err)
	ok, err := c.NearSeek([]byte("z"), &st)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, c.Valid())
}
