package mvcc

import (
	"bytes"
	"math"

	"github.com/verity-db/verity/bin"
)

// LockType tags what the in-flight transaction intends to do with the key.
type LockType byte

const (
	// LockPut intends a value write.
	LockPut LockType = 'P'
	// LockDelete intends a deletion.
	LockDelete LockType = 'D'
	// LockShared takes the lock without writing. Shared locks never block
	// readers.
	LockShared LockType = 'S'
)

// Lock is the decoded form of a lock-CF record, owned by the transaction
// layer that wrote it. This package only checks locks against read
// timestamps.
//
// Record format:
//
//	type: byte
//	primary key: varint-length array
//	start ts: varint
//	ttl: varint
type Lock struct {
	Type    LockType
	Primary []byte
	StartTS uint64
	TTL     uint64
}

// Encode serializes a lock record.
func (l Lock) Encode() []byte {
	var b bytes.Buffer
	e := bin.NewEncoder(&b)
	e.Uint8(byte(l.Type))
	e.Array(l.Primary)
	e.VarInt(l.StartTS)
	e.VarInt(l.TTL)
	return b.Bytes()
}

// ParseLock decodes a lock record, rejecting unknown tags and truncated
// input as corruption.
func ParseLock(value []byte) (Lock, error) {
	r := bin.NewDecoder(value)
	l := Lock{
		Type:    LockType(r.Uint8()),
		Primary: r.Array(),
		StartTS: r.VarInt(),
		TTL:     r.VarInt(),
	}
	switch l.Type {
	case LockPut, LockDelete, LockShared:
	default:
		return Lock{}, ErrBadFormatLock{Value: value}
	}
	if r.Err() != nil || r.RemainingBytes() > 0 {
		return Lock{}, ErrBadFormatLock{Value: value}
	}
	return l, nil
}

// Check decides whether a read of key at ts may proceed despite this lock.
//
// The lock is irrelevant if it started after ts or never writes. A
// latest-version read (ts of MaxUint64) of the lock's own primary key is
// answered at the instant just before the lock started, so a transaction can
// always read its primary back. Anything else is a conflict.
func (l Lock) Check(key []byte, ts uint64) (uint64, error) {
	if l.StartTS > ts || l.Type == LockShared {
		return ts, nil
	}
	if ts == math.MaxUint64 && bytes.Equal(key, l.Primary) {
		return l.StartTS - 1, nil
	}
	return 0, ErrLocked{
		Key:     append([]byte(nil), key...),
		Primary: append([]byte(nil), l.Primary...),
		StartTS: l.StartTS,
		TTL:     l.TTL,
	}
}
