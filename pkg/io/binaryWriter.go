package io

import (
	"encoding/binary"
	"io"
)

// BinWriter is a convenient wrapper around an io.Writer and err object.
// Used to simplify error handling when writing into an io.Writer
// from a struct with many fields. All values are written in XDR form,
// that is big-endian and padded to 4-byte boundaries.
type BinWriter struct {
	w   io.Writer
	Err error
	uv  [8]byte
}

var zeroPad [4]byte

// NewBinWriterFromIO makes a BinWriter from io.Writer.
func NewBinWriterFromIO(iow io.Writer) *BinWriter {
	return &BinWriter{w: iow}
}

// WriteU32BE writes a uint32 value into the underlying io.Writer in
// big-endian format.
func (w *BinWriter) WriteU32BE(u32 uint32) {
	binary.BigEndian.PutUint32(w.uv[:4], u32)
	w.WriteBytes(w.uv[:4])
}

// WriteU64BE writes a uint64 value into the underlying io.Writer in
// big-endian format.
func (w *BinWriter) WriteU64BE(u64 uint64) {
	binary.BigEndian.PutUint64(w.uv[:8], u64)
	w.WriteBytes(w.uv[:8])
}

// WriteI32BE writes an int32 value in two's complement big-endian format.
func (w *BinWriter) WriteI32BE(i32 int32) {
	w.WriteU32BE(uint32(i32))
}

// WriteI64BE writes an int64 value in two's complement big-endian format.
func (w *BinWriter) WriteI64BE(i64 int64) {
	w.WriteU64BE(uint64(i64))
}

// WriteBool writes a boolean value into the underlying io.Writer encoded as
// a 4-byte word with values of 0 or 1.
func (w *BinWriter) WriteBool(b bool) {
	var i uint32
	if b {
		i = 1
	}
	w.WriteU32BE(i)
}

// WriteArray writes a slice arr into w prefixed by its length.
func WriteArray[E any, P interface {
	*E
	Serializable
}](w *BinWriter, arr []E) {
	w.WriteU32BE(uint32(len(arr)))
	for i := range arr {
		P(&arr[i]).EncodeBinary(w)
	}
}

// WriteBytes writes a variable byte into the underlying io.Writer without prefix
// or padding.
func (w *BinWriter) WriteBytes(b []byte) {
	if w.Err != nil {
		return
	}
	_, w.Err = w.w.Write(b)
}

// WriteFixedOpaque writes fixed-length opaque data padded to a multiple
// of four bytes.
func (w *BinWriter) WriteFixedOpaque(b []byte) {
	w.WriteBytes(b)
	w.pad(len(b))
}

// WriteVarOpaque writes a variable length byte array into the underlying
// io.Writer, it's prefixed with its length and padded.
func (w *BinWriter) WriteVarOpaque(b []byte) {
	w.WriteU32BE(uint32(len(b)))
	w.WriteFixedOpaque(b)
}

// WriteString writes a variable length string into the underlying io.Writer.
func (w *BinWriter) WriteString(s string) {
	w.WriteU32BE(uint32(len(s)))
	if w.Err != nil {
		return
	}
	_, w.Err = io.WriteString(w.w, s)
	w.pad(len(s))
}

// WriteOptional writes an XDR optional flag, the value itself (if present)
// is to be written by the caller.
func (w *BinWriter) WriteOptional(present bool) {
	w.WriteBool(present)
}

func (w *BinWriter) pad(n int) {
	if r := n % 4; r != 0 {
		w.WriteBytes(zeroPad[:4-r])
	}
}
