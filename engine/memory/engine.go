// Package memory provides a btree-backed storage engine with copy-on-write
// snapshots, implementing the engine contracts consumed by the MVCC read
// path. It backs tests and benchmarks that need the three column families
// without an on-disk engine.
package memory

import (
	"bytes"
	"sync"

	"github.com/google/btree"

	"github.com/verity-db/verity/engine"
)

const btreeDegree = 32

type item struct {
	key   []byte
	value []byte
}

func (i item) Less(than btree.Item) bool {
	return bytes.Compare(i.key, than.(item).key) < 0
}

// Engine is an in-memory multi-CF store.
//
// Writers use Put/Remove directly; readers go through Snapshot, which is a
// point-in-time view unaffected by later writes.
type Engine struct {
	mu  sync.Mutex
	cfs map[engine.CF]*btree.BTree
}

// New creates an empty engine with the three standard column families.
func New() *Engine {
	return &Engine{
		cfs: map[engine.CF]*btree.BTree{
			engine.CFDefault: btree.New(btreeDegree),
			engine.CFWrite:   btree.New(btreeDegree),
			engine.CFLock:    btree.New(btreeDegree),
		},
	}
}

func (e *Engine) tree(cf engine.CF) *btree.BTree {
	t, ok := e.cfs[cf]
	if !ok {
		panic("unknown column family: " + string(cf))
	}
	return t
}

// Put stores value under key in cf, replacing any existing entry.
func (e *Engine) Put(cf engine.CF, key, value []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)
	e.tree(cf).ReplaceOrInsert(item{key: k, value: v})
}

// Remove deletes key from cf if present.
func (e *Engine) Remove(cf engine.CF, key []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tree(cf).Delete(item{key: key})
}

// Len reports the number of entries in cf.
func (e *Engine) Len(cf engine.CF) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree(cf).Len()
}

// Snapshot takes a point-in-time view of all column families.
//
// Clone is copy-on-write, so taking a snapshot is cheap and later writes to
// the engine are invisible through it.
func (e *Engine) Snapshot() engine.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfs := make(map[engine.CF]*btree.BTree, len(e.cfs))
	for cf, t := range e.cfs {
		cfs[cf] = t.Clone()
	}
	return &snapshot{cfs: cfs}
}

type snapshot struct {
	cfs map[engine.CF]*btree.BTree
}

func (s *snapshot) tree(cf engine.CF) (*btree.BTree, error) {
	t, ok := s.cfs[cf]
	if !ok {
		return nil, engine.ErrUnknownCF(cf)
	}
	return t, nil
}

// Get reads a single key, returning nil if absent.
func (s *snapshot) Get(cf engine.CF, key []byte) ([]byte, error) {
	t, err := s.tree(cf)
	if err != nil {
		return nil, err
	}
	got := t.Get(item{key: key})
	if got == nil {
		return nil, nil
	}
	return got.(item).value, nil
}

// IterCF constructs a cursor over cf.
func (s *snapshot) IterCF(cf engine.CF, opts engine.IterOptions, mode engine.ScanMode) (*engine.Cursor, error) {
	if mode != engine.ScanForward {
		return nil, engine.ErrUnsupportedScanMode(mode)
	}
	t, err := s.tree(cf)
	if err != nil {
		return nil, err
	}
	return engine.NewCursor(newIterator(t, opts.PrefixSeek), mode), nil
}

var _ engine.Snapshot = (*snapshot)(nil)
