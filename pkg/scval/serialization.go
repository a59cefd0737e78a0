package scval

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/soroban-go/pkg/io"
)

const (
	// MaxDepth is the maximum nesting level of values that can be serialized
	// or deserialized.
	MaxDepth = 64
	// MaxSize is the maximum size of Bytes or String value that can be
	// deserialized.
	MaxSize = 1 << 20
	// MaxElements is the maximum number of Vec or Map elements that can be
	// deserialized.
	MaxElements = io.MaxArraySize
)

// encContext is an internal encoding context.
type encContext struct {
	*io.BinWriter
	depth int
}

// decContext is an internal decoding context.
type decContext struct {
	*io.BinReader
	depth int
}

// Serialize encodes the given value into a byte slice.
func Serialize(v Value) ([]byte, error) {
	w := io.NewBufBinWriter()
	EncodeBinary(v, w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// ToBase64 encodes the given value into base64-encoded XDR, the form used by
// RPC servers.
func ToBase64(v Value) (string, error) {
	b, err := Serialize(v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// EncodeBinary encodes the given value into the given BinWriter.
func EncodeBinary(v Value, w *io.BinWriter) {
	ec := &encContext{BinWriter: w}
	ec.encode(v)
}

func (w *encContext) encode(v Value) {
	if w.Err != nil {
		return
	}
	if v == nil {
		w.Err = errors.New("nil value")
		return
	}
	w.depth++
	defer func() { w.depth-- }()
	if w.depth > MaxDepth {
		w.Err = ErrTooDeep
		return
	}

	w.WriteU32BE(uint32(v.Type()))
	switch t := v.(type) {
	case Bool:
		w.WriteBool(bool(t))
	case Void, LedgerKeyContractInstance:
	case Error:
		w.WriteU32BE(uint32(t.Type))
		w.WriteU32BE(t.Code)
	case U32:
		w.WriteU32BE(uint32(t))
	case I32:
		w.WriteI32BE(int32(t))
	case U64:
		w.WriteU64BE(uint64(t))
	case I64:
		w.WriteI64BE(int64(t))
	case Timepoint:
		w.WriteU64BE(uint64(t))
	case Duration:
		w.WriteU64BE(uint64(t))
	case *U128:
		w.encodeWide(t.Big(), U128T)
	case *I128:
		w.encodeWide(t.Big(), I128T)
	case *U256:
		w.encodeWide(t.Big(), U256T)
	case *I256:
		w.encodeWide(t.Big(), I256T)
	case Bytes:
		w.WriteVarOpaque(t)
	case String:
		w.WriteString(string(t))
	case Symbol:
		if err := checkSymbol(string(t)); err != nil {
			w.Err = err
			return
		}
		w.WriteString(string(t))
	case Vec:
		w.WriteOptional(true)
		w.encodeVec(t)
	case *Enum:
		if err := checkSymbol(t.Name); err != nil {
			w.Err = err
			return
		}
		w.WriteOptional(true)
		w.encodeVec(t.vec())
	case *Map:
		w.WriteOptional(true)
		w.encodeMap(t)
	case *Address:
		t.EncodeBinary(w.BinWriter)
	case *ContractInstance:
		w.WriteU32BE(uint32(t.Executable.Kind))
		if t.Executable.Kind == ExecutableWasm {
			w.WriteBytes(t.Executable.WasmHash[:])
		}
		w.WriteOptional(t.Storage != nil)
		if t.Storage != nil {
			w.encodeMap(t.Storage)
		}
	case LedgerKeyNonce:
		w.WriteI64BE(t.Nonce)
	default:
		w.Err = fmt.Errorf("%w: %T", ErrInvalidConversion, v)
	}
}

func (w *encContext) encodeVec(v Vec) {
	w.WriteU32BE(uint32(len(v)))
	for i := range v {
		w.encode(v[i])
	}
}

func (w *encContext) encodeMap(m *Map) {
	w.WriteU32BE(uint32(len(m.value)))
	for i := range m.value {
		w.encode(m.value[i].Key)
		w.encode(m.value[i].Value)
	}
}

func (w *encContext) encodeWide(v *big.Int, t Type) {
	if err := checkRange(v, t); err != nil {
		w.Err = err
		return
	}
	words := toWords(v)
	if t == U256T || t == I256T {
		w.WriteU64BE(words[3])
		w.WriteU64BE(words[2])
	}
	w.WriteU64BE(words[1])
	w.WriteU64BE(words[0])
}

// Deserialize decodes a value from the given byte slice, all of the data
// must be consumed.
func Deserialize(data []byte) (Value, error) {
	r := io.NewBinReaderFromBuf(data)
	v := DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	if !r.EOF() {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidFormat)
	}
	return v, nil
}

// FromBase64 decodes a value from base64-encoded XDR.
func FromBase64(s string) (Value, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return Deserialize(b)
}

// DecodeBinary decodes a value from the given BinReader, errors are
// returned via r.Err.
func DecodeBinary(r *io.BinReader) Value {
	dc := &decContext{BinReader: r}
	return dc.decode()
}

func (r *decContext) decode() Value {
	if r.Err != nil {
		return nil
	}
	r.depth++
	defer func() { r.depth-- }()
	if r.depth > MaxDepth {
		r.Err = ErrTooDeep
		return nil
	}

	tag := r.ReadU32BE()
	if r.Err != nil {
		return nil
	}
	var res Value
	switch Type(tag) {
	case BoolT:
		res = Bool(r.ReadBool())
	case VoidT:
		res = Void{}
	case ErrorT:
		var e Error
		e.Type = ErrorType(r.ReadU32BE())
		e.Code = r.ReadU32BE()
		if r.Err == nil && e.Type > ErrorAuth {
			r.Err = fmt.Errorf("%w: error type %d", ErrInvalidFormat, e.Type)
		}
		res = e
	case U32T:
		res = U32(r.ReadU32BE())
	case I32T:
		res = I32(r.ReadI32BE())
	case U64T:
		res = U64(r.ReadU64BE())
	case I64T:
		res = I64(r.ReadI64BE())
	case TimepointT:
		res = Timepoint(r.ReadU64BE())
	case DurationT:
		res = Duration(r.ReadU64BE())
	case U128T:
		res = (*U128)(r.decodeWide(128, false))
	case I128T:
		res = (*I128)(r.decodeWide(128, true))
	case U256T:
		res = (*U256)(r.decodeWide(256, false))
	case I256T:
		res = (*I256)(r.decodeWide(256, true))
	case BytesT:
		res = Bytes(r.ReadVarOpaque(MaxSize))
	case StringT:
		res = String(r.ReadString(MaxSize))
	case SymbolT:
		s := r.ReadString(MaxSize)
		if r.Err == nil {
			r.Err = checkSymbol(s)
		}
		res = Symbol(s)
	case VecT:
		if !r.ReadOptional() {
			res = Vec(nil)
			break
		}
		n := r.ReadArrayLen(MaxElements)
		vec := make(Vec, 0, n)
		for i := 0; i < n && r.Err == nil; i++ {
			vec = append(vec, r.decode())
		}
		res = vec
	case MapT:
		if !r.ReadOptional() {
			res = NewMap()
			break
		}
		res = r.decodeMap()
	case AddressT:
		a := new(Address)
		a.DecodeBinary(r.BinReader)
		res = a
	case ContractInstanceT:
		c := new(ContractInstance)
		c.Executable.Kind = ExecutableKind(r.ReadU32BE())
		switch c.Executable.Kind {
		case ExecutableWasm:
			r.ReadBytes(c.Executable.WasmHash[:])
		case ExecutableStellarAsset:
		default:
			if r.Err == nil {
				r.Err = fmt.Errorf("%w: executable type %d", ErrInvalidFormat, c.Executable.Kind)
			}
		}
		if r.ReadOptional() {
			c.Storage = r.decodeMap()
		}
		res = c
	case LedgerKeyContractInstanceT:
		res = LedgerKeyContractInstance{}
	case LedgerKeyNonceT:
		res = LedgerKeyNonce{Nonce: r.ReadI64BE()}
	default:
		r.Err = &UnsupportedTypeError{Tag: tag}
	}
	if r.Err != nil {
		return nil
	}
	return res
}

func (r *decContext) decodeMap() *Map {
	n := r.ReadArrayLen(MaxElements)
	m := &Map{value: make([]MapElement, 0, n)}
	for i := 0; i < n && r.Err == nil; i++ {
		k := r.decode()
		v := r.decode()
		m.value = append(m.value, MapElement{Key: k, Value: v})
	}
	return m
}

func (r *decContext) decodeWide(bits int, signed bool) *big.Int {
	var words [4]uint64
	if bits == 256 {
		words[3] = r.ReadU64BE()
		words[2] = r.ReadU64BE()
	}
	words[1] = r.ReadU64BE()
	words[0] = r.ReadU64BE()
	if r.Err != nil {
		return nil
	}
	return fromWords(words, bits, signed)
}
