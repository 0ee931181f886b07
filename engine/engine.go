package engine

// Storage engine contracts consumed by the MVCC read path.
//
// An engine stores three independent sorted key spaces (column families).
// The MVCC layer reads them through point-in-time snapshots; it never writes.

// CF identifies one of the engine's column families.
type CF string

const (
	// CFDefault holds full values for writes too large to inline.
	CFDefault CF = "default"
	// CFWrite is the chronological write index: user key + commit ts mapped
	// to a write record.
	CFWrite CF = "write"
	// CFLock holds one in-progress lock per user key.
	CFLock CF = "lock"
)

// ScanMode is the direction a cursor is allowed to move in.
type ScanMode int

const (
	// ScanForward cursors only move toward larger keys; seeking backward
	// falls back to a fresh seek.
	ScanForward ScanMode = iota
	// ScanBackward cursors only move toward smaller keys.
	ScanBackward
)

// IterOptions configures iterator construction.
type IterOptions struct {
	// FillCache controls whether reads populate the engine's block cache.
	// It has no correctness impact.
	FillCache bool
	// PrefixSeek restricts the iterator to keys sharing the seek target's
	// user-key prefix (the target minus its timestamp suffix). The engine
	// may use a prefix bloom filter; the iterator becomes unusable for any
	// other prefix.
	PrefixSeek bool
}

// Iterator is a raw engine iterator over one column family.
//
// Iterators are positioned before the first entry until the first seek.
// After any operation returns false, Err distinguishes exhaustion (nil)
// from an engine failure.
type Iterator interface {
	Valid() bool
	Seek(key []byte) bool
	SeekToFirst() bool
	Next() bool
	Key() []byte
	Value() []byte
	Err() error
	Close()
}

// Snapshot is a read-only, point-in-time consistent view of the engine.
//
// A snapshot is cheap to share: any number of readers may hold it
// concurrently, and writes applied to the engine after it was taken are
// never visible through it.
type Snapshot interface {
	// Get reads a single key from cf, returning nil if absent.
	Get(cf CF, key []byte) ([]byte, error)
	// IterCF constructs a cursor over cf.
	IterCF(cf CF, opts IterOptions, mode ScanMode) (*Cursor, error)
}
