package memory

import (
	"bytes"

	"github.com/google/btree"

	"github.com/verity-db/verity/engine"
)

// tsSuffixLen is the length of the timestamp suffix the prefix extractor
// strips, mirroring a fixed-suffix prefix extractor configured on an on-disk
// engine.
const tsSuffixLen = 8

func extractPrefix(key []byte) []byte {
	if len(key) < tsSuffixLen {
		return key
	}
	return key[:len(key)-tsSuffixLen]
}

// iterator walks one column family of a snapshot in ascending key order.
//
// In prefix-seek mode the user-key prefix is captured by the first seek and
// every later position outside that prefix reads as exhausted, the same
// contract a prefix bloom filter gives: seeks for any other prefix return
// garbage-free but useless results.
type iterator struct {
	tree       *btree.BTree
	cur        *item
	prefixSeek bool
	prefix     []byte
}

func newIterator(tree *btree.BTree, prefixSeek bool) *iterator {
	return &iterator{tree: tree, prefixSeek: prefixSeek}
}

func (i *iterator) checkPrefix() bool {
	if i.cur == nil {
		return false
	}
	if i.prefixSeek && !bytes.Equal(extractPrefix(i.cur.key), i.prefix) {
		i.cur = nil
		return false
	}
	return true
}

func (i *iterator) Seek(key []byte) bool {
	if i.prefixSeek && i.prefix == nil {
		i.prefix = append([]byte(nil), extractPrefix(key)...)
	}
	var found *item
	i.tree.AscendGreaterOrEqual(item{key: key}, func(bi btree.Item) bool {
		it := bi.(item)
		found = &it
		return false
	})
	i.cur = found
	return i.checkPrefix()
}

func (i *iterator) SeekToFirst() bool {
	var found *item
	i.tree.Ascend(func(bi btree.Item) bool {
		it := bi.(item)
		found = &it
		return false
	})
	i.cur = found
	return i.checkPrefix()
}

func (i *iterator) Next() bool {
	if i.cur == nil {
		return false
	}
	prev := i.cur.key
	var found *item
	i.tree.AscendGreaterOrEqual(item{key: prev}, func(bi btree.Item) bool {
		it := bi.(item)
		if bytes.Equal(it.key, prev) {
			return true
		}
		found = &it
		return false
	})
	i.cur = found
	return i.checkPrefix()
}

func (i *iterator) Valid() bool {
	return i.cur != nil
}

func (i *iterator) Key() []byte {
	return i.cur.key
}

func (i *iterator) Value() []byte {
	return i.cur.value
}

func (i *iterator) Err() error {
	return nil
}

func (i *iterator) Close() {}

var _ engine.Iterator = (*iterator)(nil)
