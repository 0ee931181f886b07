package bin

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRoundtrip(enc func(e *Encoder), dec func(d *Decoder)) {
	var b bytes.Buffer
	enc(NewEncoder(&b))
	r := NewDecoder(b.Bytes())
	dec(r)
	if r.Err() != nil {
		panic(r.Err())
	}
	if r.RemainingBytes() > 0 {
		panic("decoder did not consume all bytes")
	}
}

func TestUints(t *testing.T) {
	assert := assert.New(t)
	for _, v := range []uint64{0, 3, 0x20DF135CE9DBF162, 0xfffffff} {
		testRoundtrip(func(e *Encoder) {
			e.Uint64(v)
		}, func(r *Decoder) {
			assert.Equal(v, r.Uint64(), "uint64 %v should roundtrip", v)
		})
	}
	for _, v := range []uint8{0, 3, 0x7f, 0xff} {
		testRoundtrip(func(e *Encoder) {
			e.Uint8(v)
		}, func(r *Decoder) {
			assert.Equal(v, r.Uint8(), "uint8 should roundtrip")
		})
	}
}

func TestVarInt(t *testing.T) {
	assert := assert.New(t)
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 40, ^uint64(0)} {
		testRoundtrip(func(e *Encoder) {
			e.VarInt(v)
		}, func(r *Decoder) {
			assert.Equal(v, r.VarInt(), "varint %v should roundtrip", v)
		})
	}
}

func TestArray(t *testing.T) {
	assert := assert.New(t)
	bigArray := make([]byte, 65535)
	bigArray[2] = 16
	bigArray[1023] = 12
	for i, v := range [][]byte{{1, 2, 3}, {}, bigArray} {
		testRoundtrip(func(e *Encoder) {
			e.Array(v)
		}, func(r *Decoder) {
			assert.Equal(v, r.Array(), "array %d should roundtrip", i)
		})
	}
}

func TestMultipleThings(t *testing.T) {
	assert := assert.New(t)
	testRoundtrip(func(e *Encoder) {
		e.Uint64(12)
		e.VarInt(7)
		e.Bytes([]byte{1, 2, 3})
	}, func(r *Decoder) {
		assert.Equal(uint64(12), r.Uint64())
		assert.Equal(uint64(7), r.VarInt())
		assert.Equal([]byte{1, 2, 3}, r.Bytes(3))
	})
}

func TestShortBuffer(t *testing.T) {
	assert := assert.New(t)
	r := NewDecoder([]byte{1, 2})
	r.Uint64()
	assert.Error(r.Err(), "reading past the end should set the error")
	assert.Equal(uint8(0), r.Uint8(), "reads after an error return zero values")
}

func TestTruncatedArray(t *testing.T) {
	assert := assert.New(t)
	var b bytes.Buffer
	e := NewEncoder(&b)
	e.Array([]byte{1, 2, 3, 4})
	r := NewDecoder(b.Bytes()[:3])
	r.Array()
	assert.Error(r.Err(), "truncated array should set the error")
}
