package memory

import (
	"bytes"
	"fmt"

	"github.com/golang/snappy"
	"github.com/google/btree"

	"github.com/verity-db/verity/bin"
	"github.com/verity-db/verity/engine"
	"github.com/verity-db/verity/fs"
)

// Region dump format (before compression):
//
//	per column family, in dumpOrder:
//	  count: varint
//	  count * (key: array, value: array)
//
// The whole buffer is snappy-compressed and written atomically, so a dump
// file is either complete or absent.

var dumpOrder = []engine.CF{engine.CFDefault, engine.CFWrite, engine.CFLock}

// Dump writes the current contents of every column family to fname.
func (e *Engine) Dump(fsys fs.Filesys, fname string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var b bytes.Buffer
	w := bin.NewEncoder(&b)
	for _, cf := range dumpOrder {
		t := e.tree(cf)
		w.VarInt(uint64(t.Len()))
		t.Ascend(func(bi btree.Item) bool {
			it := bi.(item)
			w.Array(it.key)
			w.Array(it.value)
			return true
		})
	}
	fsys.AtomicCreateWith(fname, snappy.Encode(nil, b.Bytes()))
}

// Load reads a dump file written by Dump into a fresh engine.
func Load(fsys fs.Filesys, fname string) (*Engine, error) {
	data, err := snappy.Decode(nil, fs.ReadAll(fsys, fname))
	if err != nil {
		return nil, fmt.Errorf("dump %s: %v", fname, err)
	}
	e := New()
	r := bin.NewDecoder(data)
	for _, cf := range dumpOrder {
		count := r.VarInt()
		for j := uint64(0); j < count; j++ {
			key := r.Array()
			value := r.Array()
			if r.Err() != nil {
				return nil, fmt.Errorf("dump %s: truncated %s entry: %v", fname, cf, r.Err())
			}
			e.Put(cf, key, value)
		}
	}
	if r.Err() != nil || r.RemainingBytes() > 0 {
		return nil, fmt.Errorf("dump %s: malformed contents", fname)
	}
	return e, nil
}
