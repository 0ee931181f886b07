package mvcc

import "encoding/binary"

// Key encoding.
//
// User keys in the write and default CFs are made memcomparable before the
// timestamp suffix is appended: the key is split into 8-byte groups, each
// zero-padded and followed by a marker byte recording how much of the group
// is real. The encoding preserves byte order and is prefix-free, so no
// encoded key is a prefix of another.
//
// The timestamp suffix is the 8-byte big-endian one's complement of the
// commit timestamp. Complementing makes larger (newer) timestamps sort
// first. Together with prefix-freeness this gives the ordering the version
// walk relies on: a key's versions form a contiguous newest-first run, and
// the whole run sorts strictly before or after any other key's run.
//
// The lock CF is keyed by the raw user key; locks apply to a key at every
// timestamp, so they need neither the suffix nor the group encoding.

const (
	encGroupSize = 8
	encMarker    = byte(0xff)
	encPad       = byte(0x00)

	tsSuffixLen = 8
)

// EncodeKey encodes a raw user key into its memcomparable form.
func EncodeKey(key []byte) []byte {
	groups := len(key)/encGroupSize + 1
	buf := make([]byte, 0, groups*(encGroupSize+1))
	for i := 0; i < groups; i++ {
		group := key[i*encGroupSize:]
		if len(group) >= encGroupSize {
			buf = append(buf, group[:encGroupSize]...)
			buf = append(buf, encMarker)
			continue
		}
		// last, partial group
		buf = append(buf, group...)
		for j := len(group); j < encGroupSize; j++ {
			buf = append(buf, encPad)
		}
		buf = append(buf, encMarker-byte(encGroupSize-len(group)))
	}
	return buf
}

// DecodeKey recovers the raw user key from its memcomparable form.
func DecodeKey(encoded []byte) ([]byte, error) {
	if len(encoded) == 0 || len(encoded)%(encGroupSize+1) != 0 ||
		encoded[len(encoded)-1] == encMarker {
		return nil, ErrBadFormatKey{Key: encoded}
	}
	var key []byte
	for i := 0; i < len(encoded); i += encGroupSize + 1 {
		group := encoded[i : i+encGroupSize]
		marker := encoded[i+encGroupSize]
		if marker == encMarker {
			key = append(key, group...)
			continue
		}
		pad := int(encMarker - marker)
		if pad > encGroupSize || i+encGroupSize+1 != len(encoded) {
			return nil, ErrBadFormatKey{Key: encoded}
		}
		for _, b := range group[encGroupSize-pad:] {
			if b != encPad {
				return nil, ErrBadFormatKey{Key: encoded}
			}
		}
		key = append(key, group[:encGroupSize-pad]...)
	}
	if key == nil {
		key = []byte{}
	}
	return key, nil
}

// AppendTS appends the encoded timestamp suffix to an encoded key,
// producing a versioned key.
func AppendTS(encodedKey []byte, ts uint64) []byte {
	buf := make([]byte, len(encodedKey)+tsSuffixLen)
	copy(buf, encodedKey)
	binary.BigEndian.PutUint64(buf[len(encodedKey):], ^ts)
	return buf
}

// TruncateTS strips the timestamp suffix from a versioned key, recovering
// the encoded user key.
func TruncateTS(vkey []byte) ([]byte, error) {
	if len(vkey) < tsSuffixLen+encGroupSize+1 ||
		(len(vkey)-tsSuffixLen)%(encGroupSize+1) != 0 {
		return nil, ErrBadFormatKey{Key: vkey}
	}
	return vkey[:len(vkey)-tsSuffixLen], nil
}

// DecodeTS recovers the timestamp from a versioned key.
func DecodeTS(vkey []byte) (uint64, error) {
	if len(vkey) < tsSuffixLen {
		return 0, ErrBadFormatKey{Key: vkey}
	}
	return ^binary.BigEndian.Uint64(vkey[len(vkey)-tsSuffixLen:]), nil
}
