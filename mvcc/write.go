package mvcc

import (
	"bytes"

	"github.com/verity-db/verity/bin"
)

// WriteType tags a write record in the write CF.
type WriteType byte

const (
	// WritePut is a committed value write.
	WritePut WriteType = 'P'
	// WriteDelete is a tombstone terminating visibility.
	WriteDelete WriteType = 'D'
	// WriteLock records a committed lock-only operation. Skipped when
	// searching for the visible version.
	WriteLock WriteType = 'L'
	// WriteRollback records an aborted transaction. Skipped when searching
	// for the visible version.
	WriteRollback WriteType = 'R'
)

// ShortValueMaxLen is the largest payload inlined directly into a write
// record. Longer payloads live in the default CF.
const ShortValueMaxLen = 64

const shortValuePrefix = 'v'

// Write is the decoded form of a write-CF record.
//
// Record format:
//
//	type: byte
//	start ts: varint
//	short value (optional): 'v', length byte, bytes
//
// ShortValue is nil when the payload is in the default CF; a present but
// empty short value is a committed empty payload, not a missing one.
type Write struct {
	Type       WriteType
	StartTS    uint64
	ShortValue []byte
}

// Encode serializes a write record.
func (w Write) Encode() []byte {
	var b bytes.Buffer
	e := bin.NewEncoder(&b)
	e.Uint8(byte(w.Type))
	e.VarInt(w.StartTS)
	if w.ShortValue != nil {
		if len(w.ShortValue) > ShortValueMaxLen {
			panic("short value exceeds inline limit")
		}
		e.Uint8(shortValuePrefix)
		e.Uint8(uint8(len(w.ShortValue)))
		e.Bytes(w.ShortValue)
	}
	return b.Bytes()
}

// ParseWrite decodes a write record, rejecting unknown tags and truncated
// input as corruption.
func ParseWrite(value []byte) (Write, error) {
	r := bin.NewDecoder(value)
	w := Write{Type: WriteType(r.Uint8()), StartTS: r.VarInt()}
	switch w.Type {
	case WritePut, WriteDelete, WriteLock, WriteRollback:
	default:
		return Write{}, ErrBadFormatWrite{Value: value}
	}
	if r.Err() != nil {
		return Write{}, ErrBadFormatWrite{Value: value}
	}
	if r.RemainingBytes() > 0 {
		if r.Uint8() != shortValuePrefix {
			return Write{}, ErrBadFormatWrite{Value: value}
		}
		n := r.Uint8()
		sv := r.Bytes(int(n))
		if r.Err() != nil || r.RemainingBytes() > 0 {
			return Write{}, ErrBadFormatWrite{Value: value}
		}
		w.ShortValue = append([]byte{}, sv...)
	}
	return w, nil
}
