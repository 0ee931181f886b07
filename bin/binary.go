package bin

import (
	"encoding/binary"
	"io"
)

// Simple binary parsing/serialization library.
//
// Decoding errors are sticky: once a read runs past the end of the buffer,
// every subsequent read returns a zero value and Err reports the failure.
// Callers decoding untrusted on-disk records check Err once at the end
// instead of after every field.

// Decoder streams binary data from a byte buffer.
type Decoder struct {
	buf []byte
	err error
}

// NewDecoder creates a decoder that parses data from buffer b.
//
// Retains b, which the caller should not use afterward.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// RemainingBytes gives the number of bytes remaining in the buffer.
func (r Decoder) RemainingBytes() int {
	return len(r.buf)
}

// Err reports the first decoding failure, or nil if every read so far was
// in-bounds.
func (r Decoder) Err() error {
	return r.err
}

// Bytes is a primitive decoder that reads a fixed number of bytes.
func (r *Decoder) Bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.buf) {
		r.err = io.ErrUnexpectedEOF
		return nil
	}
	d := r.buf[:n]
	r.buf = r.buf[n:]
	return d
}

// Uint64 decodes a uint64 (in little endian format).
func (r *Decoder) Uint64() uint64 {
	b := r.Bytes(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// Uint8 decodes a uint8.
func (r *Decoder) Uint8() uint8 {
	b := r.Bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// Encoder encodes values to an output stream.
type Encoder struct {
	w io.Writer
	// total bytes written since initialization
	bytesWritten int
}

// NewEncoder creates an encoder that writes data to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, bytesWritten: 0}
}

// BytesWritten returns the number of bytes written to the encoder since this
// encoder was created.
func (w Encoder) BytesWritten() int {
	return w.bytesWritten
}

// Bytes is a primitive encoder that copies bytes.
func (w *Encoder) Bytes(b []byte) {
	for len(b) > 0 {
		n, err := w.w.Write(b)
		if err != nil {
			panic(err)
		}
		w.bytesWritten += n
		b = b[n:]
	}
}

// Uint64 encodes a uint64 (in little endian format).
func (w *Encoder) Uint64(v uint64) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	w.Bytes(b)
}

// Uint8 encodes a uint8.
func (w *Encoder) Uint8(b uint8) {
	w.Bytes([]byte{b})
}
