package io

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxArraySize is the default maximum number of elements in an array
// that can be decoded.
const MaxArraySize = 0x10000

var (
	// ErrNonZeroPadding is returned when XDR padding contains non-zero bytes.
	ErrNonZeroPadding = errors.New("non-zero padding")
	// ErrTrailingData is returned when some data is left after decoding.
	ErrTrailingData = errors.New("trailing data")
)

// BinReader is a convenient wrapper around a io.Reader and err object.
// Used to simplify error handling when reading into a struct with many fields.
type BinReader struct {
	r   io.Reader
	uv  [8]byte
	Err error
}

// NewBinReaderFromIO makes a BinReader from io.Reader.
func NewBinReaderFromIO(ior io.Reader) *BinReader {
	return &BinReader{r: ior}
}

// NewBinReaderFromBuf makes a BinReader from byte buffer.
func NewBinReaderFromBuf(b []byte) *BinReader {
	r := bytes.NewReader(b)
	return NewBinReaderFromIO(r)
}

// ReadU32BE reads a big-endian encoded uint32 value from the underlying
// io.Reader. On read failures it returns zero.
func (r *BinReader) ReadU32BE() uint32 {
	r.ReadBytes(r.uv[:4])
	if r.Err != nil {
		return 0
	}
	return binary.BigEndian.Uint32(r.uv[:4])
}

// ReadU64BE reads a big-endian encoded uint64 value from the underlying
// io.Reader. On read failures it returns zero.
func (r *BinReader) ReadU64BE() uint64 {
	r.ReadBytes(r.uv[:8])
	if r.Err != nil {
		return 0
	}
	return binary.BigEndian.Uint64(r.uv[:8])
}

// ReadI32BE reads a big-endian encoded int32 value.
func (r *BinReader) ReadI32BE() int32 {
	return int32(r.ReadU32BE())
}

// ReadI64BE reads a big-endian encoded int64 value.
func (r *BinReader) ReadI64BE() int64 {
	return int64(r.ReadU64BE())
}

// ReadBool reads a 4-byte boolean value, anything other than 0 or 1 is an
// error.
func (r *BinReader) ReadBool() bool {
	v := r.ReadU32BE()
	if r.Err == nil && v > 1 {
		r.Err = fmt.Errorf("invalid boolean value %d", v)
	}
	return v == 1
}

// ReadOptional reads an XDR optional flag.
func (r *BinReader) ReadOptional() bool {
	return r.ReadBool()
}

// ReadArrayLen reads an array length and checks it against max.
func (r *BinReader) ReadArrayLen(max int) int {
	n := r.ReadU32BE()
	if r.Err != nil {
		return 0
	}
	if uint64(n) > uint64(max) {
		r.Err = fmt.Errorf("array is too big (%d)", n)
		return 0
	}
	return int(n)
}

// ReadArray reads an array of Serializable elements prefixed by its length.
func ReadArray[E any, P interface {
	*E
	Serializable
}](r *BinReader, max int) []E {
	n := r.ReadArrayLen(max)
	if r.Err != nil {
		return nil
	}
	arr := make([]E, n)
	for i := range arr {
		P(&arr[i]).DecodeBinary(r)
		if r.Err != nil {
			return nil
		}
	}
	return arr
}

// ReadBytes copies fixed-size buffer from the reader to provided slice,
// no padding is consumed.
func (r *BinReader) ReadBytes(buf []byte) {
	if r.Err != nil {
		return
	}
	_, r.Err = io.ReadFull(r.r, buf)
}

// ReadFixedOpaque reads n bytes of opaque data and its padding.
func (r *BinReader) ReadFixedOpaque(n int) []byte {
	if r.Err != nil {
		return nil
	}
	b := make([]byte, n)
	r.ReadBytes(b)
	r.skipPad(n)
	if r.Err != nil {
		return nil
	}
	return b
}

// ReadVarOpaque reads a length-prefixed padded byte slice, the length
// is checked against max.
func (r *BinReader) ReadVarOpaque(max int) []byte {
	n := r.ReadU32BE()
	if r.Err != nil {
		return nil
	}
	if uint64(n) > uint64(max) {
		r.Err = fmt.Errorf("byte-slice is too big (%d)", n)
		return nil
	}
	return r.ReadFixedOpaque(int(n))
}

// ReadString reads a length-prefixed padded string.
func (r *BinReader) ReadString(max int) string {
	return string(r.ReadVarOpaque(max))
}

// EOF checks whether all the data was consumed.
func (r *BinReader) EOF() bool {
	if r.Err != nil {
		return false
	}
	var b [1]byte
	_, err := r.r.Read(b[:])
	return errors.Is(err, io.EOF)
}

func (r *BinReader) skipPad(n int) {
	if rem := n % 4; rem != 0 {
		var p [4]byte
		r.ReadBytes(p[:4-rem])
		if r.Err == nil && !bytes.Equal(p[:4-rem], zeroPad[:4-rem]) {
			r.Err = ErrNonZeroPadding
		}
	}
}

// ReadCaptured calls f and returns all the data it has read from r. It's
// used to keep the raw representation of some structure while decoding it.
func (r *BinReader) ReadCaptured(f func()) []byte {
	var buf bytes.Buffer
	orig := r.r
	r.r = io.TeeReader(orig, &buf)
	f()
	r.r = orig
	if r.Err != nil {
		return nil
	}
	return buf.Bytes()
}
