//go:build cgo

// Package leveldb adapts a LevelDB database to the verity engine contracts.
//
// LevelDB has no column families, so each CF lives under a single-byte
// key-space prefix. Snapshots map directly onto LevelDB snapshots.
package leveldb

import (
	"bytes"

	"github.com/jmhodges/levigo"

	"github.com/verity-db/verity/engine"
)

// Database is a wrapper around a LevelDB database.
type Database struct {
	db *levigo.DB
	wo *levigo.WriteOptions
}

func levelDbOpts() *levigo.Options {
	opts := levigo.NewOptions()
	opts.SetCreateIfMissing(true)
	opts.SetCompression(levigo.SnappyCompression)

	// performance-related configuration
	cache := levigo.NewLRUCache(0)
	opts.SetCache(cache)
	// 4MB is the default
	opts.SetWriteBufferSize(4 * 1024 * 1024)

	return opts
}

// New creates a LevelDB instance at path.
//
// Creates the path if it does not exist.
func New(path string) *Database {
	db, err := levigo.Open(path, levelDbOpts())
	if err != nil {
		panic(err)
	}
	return &Database{db, levigo.NewWriteOptions()}
}

func cfPrefix(cf engine.CF) byte {
	switch cf {
	case engine.CFDefault:
		return 'd'
	case engine.CFWrite:
		return 'w'
	case engine.CFLock:
		return 'l'
	}
	panic(engine.ErrUnknownCF(cf))
}

func cfKey(cf engine.CF, key []byte) []byte {
	return append([]byte{cfPrefix(cf)}, key...)
}

// Put inserts a key into cf.
func (d *Database) Put(cf engine.CF, key, value []byte) {
	err := d.db.Put(d.wo, cfKey(cf, key), value)
	if err != nil {
		panic(err)
	}
}

// Remove deletes a key from cf.
func (d *Database) Remove(cf engine.CF, key []byte) {
	err := d.db.Delete(d.wo, cfKey(cf, key))
	if err != nil {
		panic(err)
	}
}

// Snapshot takes a point-in-time view of the database.
//
// The returned snapshot holds LevelDB resources; callers must Release it.
func (d *Database) Snapshot() *Snapshot {
	return &Snapshot{db: d.db, snap: d.db.NewSnapshot()}
}

// Compact runs log and sstable compaction.
func (d *Database) Compact() {
	d.db.CompactRange(levigo.Range{})
}

// Close shuts down the database.
func (d *Database) Close() {
	d.wo.Close()
	d.db.Close()
}

// Snapshot is a point-in-time view of a Database.
type Snapshot struct {
	db   *levigo.DB
	snap *levigo.Snapshot
}

// Release frees the underlying LevelDB snapshot.
func (s *Snapshot) Release() {
	s.db.ReleaseSnapshot(s.snap)
}

func (s *Snapshot) readOpts(fillCache bool) *levigo.ReadOptions {
	ro := levigo.NewReadOptions()
	ro.SetSnapshot(s.snap)
	ro.SetFillCache(fillCache)
	return ro
}

// Get reads a single key from cf, returning nil if absent.
func (s *Snapshot) Get(cf engine.CF, key []byte) ([]byte, error) {
	ro := s.readOpts(true)
	defer ro.Close()
	return s.db.Get(ro, cfKey(cf, key))
}

// IterCF constructs a cursor over cf.
func (s *Snapshot) IterCF(cf engine.CF, opts engine.IterOptions, mode engine.ScanMode) (*engine.Cursor, error) {
	if mode != engine.ScanForward {
		return nil, engine.ErrUnsupportedScanMode(mode)
	}
	ro := s.readOpts(opts.FillCache)
	it := &iterator{
		it:         s.db.NewIterator(ro),
		ro:         ro,
		cf:         cfPrefix(cf),
		prefixSeek: opts.PrefixSeek,
	}
	return engine.NewCursor(it, mode), nil
}

var _ engine.Snapshot = (*Snapshot)(nil)

// tsSuffixLen mirrors the fixed-suffix prefix extractor an engine with
// native prefix bloom filters would be configured with.
const tsSuffixLen = 8

func extractPrefix(key []byte) []byte {
	if len(key) < tsSuffixLen {
		return key
	}
	return key[:len(key)-tsSuffixLen]
}

// iterator walks one CF's prefixed key range of a LevelDB iterator. In
// prefix-seek mode the user-key prefix is fixed by the first seek and any
// position outside it reads as exhausted.
type iterator struct {
	it         *levigo.Iterator
	ro         *levigo.ReadOptions
	cf         byte
	prefixSeek bool
	prefix     []byte
	valid      bool
}

func (i *iterator) check() bool {
	i.valid = false
	if !i.it.Valid() {
		return false
	}
	key := i.it.Key()
	if len(key) == 0 || key[0] != i.cf {
		// walked off the end of this CF's key range
		return false
	}
	if i.prefixSeek && !bytes.Equal(extractPrefix(key[1:]), i.prefix) {
		return false
	}
	i.valid = true
	return true
}

func (i *iterator) Seek(key []byte) bool {
	if i.prefixSeek && i.prefix == nil {
		i.prefix = append([]byte(nil), extractPrefix(key)...)
	}
	i.it.Seek(append([]byte{i.cf}, key...))
	return i.check()
}

func (i *iterator) SeekToFirst() bool {
	i.it.Seek([]byte{i.cf})
	return i.check()
}

func (i *iterator) Next() bool {
	if !i.valid {
		return false
	}
	i.it.Next()
	return i.check()
}

func (i *iterator) Valid() bool {
	return i.valid
}

func (i *iterator) Key() []byte {
	return i.it.Key()[1:]
}

func (i *iterator) Value() []byte {
	return i.it.Value()
}

func (i *iterator) Err() error {
	return i.it.GetError()
}

func (i *iterator) Close() {
	i.it.Close()
	i.ro.Close()
}

var _ engine.Iterator = (*iterator)(nil)
