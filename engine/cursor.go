package engine

import "bytes"

// seekBound is how many forward steps a near seek will take before giving up
// and issuing a full seek.
const seekBound = 8

// Cursor wraps a raw Iterator with seek strategies and statistics tracking.
//
// A cursor is exclusively owned by one reader and is not safe for concurrent
// use. In ScanForward mode it never moves backward: near-seeking to a key
// before the current position issues a fresh seek instead.
type Cursor struct {
	iter Iterator
	mode ScanMode
}

// NewCursor creates a cursor over iter moving in the given direction.
func NewCursor(iter Iterator, mode ScanMode) *Cursor {
	return &Cursor{iter: iter, mode: mode}
}

// Seek positions the cursor at the first entry at or after key.
//
// Returns false with a nil error when the key space ends before key.
func (c *Cursor) Seek(key []byte, st *CFStatistics) (bool, error) {
	st.Seek++
	if !c.iter.Seek(key) {
		return false, c.iter.Err()
	}
	return true, nil
}

// NearSeek positions the cursor at the first entry at or after key, stepping
// forward from the current position when the target is close.
//
// This is cheap when successive targets are ascending and clustered, which is
// the access pattern of a multi-key point-read session.
func (c *Cursor) NearSeek(key []byte, st *CFStatistics) (bool, error) {
	if c.mode != ScanForward || !c.iter.Valid() {
		return c.Seek(key, st)
	}
	cmp := bytes.Compare(c.iter.Key(), key)
	if cmp == 0 {
		st.NearSeek++
		return true, nil
	}
	if cmp > 0 {
		// Target is behind the current position. A forward cursor cannot
		// step back, so this costs a full seek.
		return c.Seek(key, st)
	}
	for i := 0; i < seekBound; i++ {
		st.Next++
		if !c.iter.Next() {
			if err := c.iter.Err(); err != nil {
				return false, err
			}
			return false, nil
		}
		if bytes.Compare(c.iter.Key(), key) >= 0 {
			st.NearSeek++
			return true, nil
		}
	}
	return c.Seek(key, st)
}

// Valid reports whether the cursor is positioned at an entry.
func (c *Cursor) Valid() bool {
	return c.iter.Valid()
}

// Key returns the key at the current position.
func (c *Cursor) Key(st *CFStatistics) []byte {
	st.FlowKeys++
	return c.iter.Key()
}

// Value returns the value at the current position.
func (c *Cursor) Value(st *CFStatistics) []byte {
	return c.iter.Value()
}

// Next advances the cursor one entry, returning whether it remains valid.
func (c *Cursor) Next(st *CFStatistics) bool {
	st.Next++
	return c.iter.Next()
}

// Err reports the engine failure that invalidated the cursor, if any.
func (c *Cursor) Err() error {
	return c.iter.Err()
}

// Close releases the underlying iterator.
func (c *Cursor) Close() {
	c.iter.Close()
}
