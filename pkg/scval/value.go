/*
Package scval implements contract values: a closed set of typed values that
can be passed to and returned from contracts along with their binary (XDR)
representation.

Every value implements the Value interface, concrete types are Bool, Void,
Error, U32, I32, U64, I64, Timepoint, Duration, U128, I128, U256, I256,
Bytes, String, Symbol, Vec, Map, Address, ContractInstance,
LedgerKeyContractInstance and LedgerKeyNonce. Enum is a helper value that
is encoded as a Vec with a leading Symbol.
*/
package scval

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"strconv"
)

// Value represents a contract value.
type Value interface {
	fmt.Stringer
	// Value returns the Go representation of the value.
	Value() any
	// Type returns the wire type of the value.
	Type() Type
	// Equals checks if two values are equal.
	Equals(Value) bool
}

// Convertible is something that can be converted to/from Value.
type Convertible interface {
	ToValue() (Value, error)
	FromValue(Value) error
}

var (
	// ErrInvalidConversion is returned upon an attempt to make an incorrect
	// conversion between value types.
	ErrInvalidConversion = errors.New("invalid conversion")
	// ErrTooBig is returned when a value exceeds some size constraints, like
	// an integer that doesn't fit into the target width.
	ErrTooBig = errors.New("too big")
	// ErrInvalidFormat is returned for malformed binary data.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrTooDeep is returned when the value nesting is too deep.
	ErrTooDeep = errors.New("too deep")
)

// UnsupportedTypeError is returned when an unknown type tag is found in the
// binary data.
type UnsupportedTypeError struct {
	Tag uint32
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported value type %d", e.Tag)
}

func mkInvConversion(from Value, to Type) error {
	return fmt.Errorf("%w: %s/%s", ErrInvalidConversion, from.Type(), to)
}

// Make tries to make an appropriate value from the provided Go value.
// It will panic if it's not possible.
func Make(v any) Value {
	switch val := v.(type) {
	case nil:
		return Void{}
	case bool:
		return Bool(val)
	case int:
		return I64(val)
	case int64:
		return I64(val)
	case int32:
		return I32(val)
	case uint32:
		return U32(val)
	case uint64:
		return U64(val)
	case *big.Int:
		res, err := NewI128(val)
		if err != nil {
			panic(err)
		}
		return res
	case []byte:
		return Bytes(val)
	case string:
		return String(val)
	case Value:
		return val
	case Convertible:
		res, err := val.ToValue()
		if err != nil {
			panic(err)
		}
		return res
	case []Value:
		return Vec(val)
	case []any:
		res := make(Vec, len(val))
		for i := range val {
			res[i] = Make(val[i])
		}
		return res
	case []string:
		res := make(Vec, len(val))
		for i := range val {
			res[i] = String(val[i])
		}
		return res
	default:
		panic(fmt.Sprintf("invalid value type: %T", v))
	}
}

// Bool represents a boolean value.
type Bool bool

// NewBool returns a Bool value.
func NewBool(b bool) Bool { return Bool(b) }

// NewU32 returns a U32 value.
func NewU32(v uint32) U32 { return U32(v) }

// NewI32 returns an I32 value.
func NewI32(v int32) I32 { return I32(v) }

// NewU64 returns a U64 value.
func NewU64(v uint64) U64 { return U64(v) }

// NewI64 returns an I64 value.
func NewI64(v int64) I64 { return I64(v) }

// NewString returns a String value.
func NewString(s string) String { return String(s) }

// NewBytes returns a Bytes value, b is not copied.
func NewBytes(b []byte) Bytes { return Bytes(b) }

// Value implements the Value interface.
func (v Bool) Value() any { return bool(v) }

// Type implements the Value interface.
func (v Bool) Type() Type { return BoolT }

func (v Bool) String() string { return "bool:" + strconv.FormatBool(bool(v)) }

// Equals implements the Value interface.
func (v Bool) Equals(o Value) bool {
	b, ok := o.(Bool)
	return ok && b == v
}

// Void represents an empty value.
type Void struct{}

// Value implements the Value interface.
func (Void) Value() any { return nil }

// Type implements the Value interface.
func (Void) Type() Type { return VoidT }

func (Void) String() string { return "void" }

// Equals implements the Value interface.
func (Void) Equals(o Value) bool {
	_, ok := o.(Void)
	return ok
}

// ErrorType is the type of contract error.
type ErrorType uint32

// Known error types.
const (
	ErrorContract ErrorType = iota
	ErrorWasmVM
	ErrorContext
	ErrorStorage
	ErrorObject
	ErrorCrypto
	ErrorEvents
	ErrorBudget
	ErrorValue
	ErrorAuth
)

var errorTypeNames = [...]string{"contract", "wasm_vm", "context", "storage",
	"object", "crypto", "events", "budget", "value", "auth"}

func (t ErrorType) String() string {
	if int(t) < len(errorTypeNames) {
		return errorTypeNames[t]
	}
	return fmt.Sprintf("ErrorType(%d)", uint32(t))
}

// Error represents an error value, contract errors have contract-specific
// codes, others use host error codes.
type Error struct {
	Type ErrorType
	Code uint32
}

// Value implements the Value interface.
func (v Error) Value() any { return v }

// Type implements the Value interface.
func (v Error) Type() Type { return ErrorT }

func (v Error) String() string { return fmt.Sprintf("error:%s#%d", v.Type, v.Code) }

// Equals implements the Value interface.
func (v Error) Equals(o Value) bool {
	e, ok := o.(Error)
	return ok && e == v
}

// U32 represents an unsigned 32-bit integer.
type U32 uint32

// Value implements the Value interface.
func (v U32) Value() any { return uint32(v) }

// Type implements the Value interface.
func (v U32) Type() Type { return U32T }

func (v U32) String() string { return "u32:" + strconv.FormatUint(uint64(v), 10) }

// Equals implements the Value interface.
func (v U32) Equals(o Value) bool {
	x, ok := o.(U32)
	return ok && x == v
}

// I32 represents a signed 32-bit integer.
type I32 int32

// Value implements the Value interface.
func (v I32) Value() any { return int32(v) }

// Type implements the Value interface.
func (v I32) Type() Type { return I32T }

func (v I32) String() string { return "i32:" + strconv.FormatInt(int64(v), 10) }

// Equals implements the Value interface.
func (v I32) Equals(o Value) bool {
	x, ok := o.(I32)
	return ok && x == v
}

// U64 represents an unsigned 64-bit integer.
type U64 uint64

// Value implements the Value interface.
func (v U64) Value() any { return uint64(v) }

// Type implements the Value interface.
func (v U64) Type() Type { return U64T }

func (v U64) String() string { return "u64:" + strconv.FormatUint(uint64(v), 10) }

// Equals implements the Value interface.
func (v U64) Equals(o Value) bool {
	x, ok := o.(U64)
	return ok && x == v
}

// I64 represents a signed 64-bit integer.
type I64 int64

// Value implements the Value interface.
func (v I64) Value() any { return int64(v) }

// Type implements the Value interface.
func (v I64) Type() Type { return I64T }

func (v I64) String() string { return "i64:" + strconv.FormatInt(int64(v), 10) }

// Equals implements the Value interface.
func (v I64) Equals(o Value) bool {
	x, ok := o.(I64)
	return ok && x == v
}

// Timepoint represents a point in time as seconds since Unix epoch.
type Timepoint uint64

// Value implements the Value interface.
func (v Timepoint) Value() any { return uint64(v) }

// Type implements the Value interface.
func (v Timepoint) Type() Type { return TimepointT }

func (v Timepoint) String() string { return "timepoint:" + strconv.FormatUint(uint64(v), 10) }

// Equals implements the Value interface.
func (v Timepoint) Equals(o Value) bool {
	x, ok := o.(Timepoint)
	return ok && x == v
}

// Duration represents a time interval in seconds.
type Duration uint64

// Value implements the Value interface.
func (v Duration) Value() any { return uint64(v) }

// Type implements the Value interface.
func (v Duration) Type() Type { return DurationT }

func (v Duration) String() string { return "duration:" + strconv.FormatUint(uint64(v), 10) }

// Equals implements the Value interface.
func (v Duration) Equals(o Value) bool {
	x, ok := o.(Duration)
	return ok && x == v
}

// Bytes represents an opaque byte sequence.
type Bytes []byte

// NewBytesFromString decodes s using the given encoding ("hex", "base64"
// or "utf8") into Bytes.
func NewBytesFromString(s string, encoding string) (Bytes, error) {
	b, err := decodeString(s, encoding)
	if err != nil {
		return nil, err
	}
	return Bytes(b), nil
}

// Value implements the Value interface.
func (v Bytes) Value() any { return []byte(v) }

// Type implements the Value interface.
func (v Bytes) Type() Type { return BytesT }

func (v Bytes) String() string { return fmt.Sprintf("bytes:%x", []byte(v)) }

// Equals implements the Value interface.
func (v Bytes) Equals(o Value) bool {
	x, ok := o.(Bytes)
	return ok && bytes.Equal(x, v)
}

// String represents a string, it's not required to be valid UTF-8.
type String string

// Value implements the Value interface.
func (v String) Value() any { return string(v) }

// Type implements the Value interface.
func (v String) Type() Type { return StringT }

func (v String) String() string { return "string:" + string(v) }

// Equals implements the Value interface.
func (v String) Equals(o Value) bool {
	x, ok := o.(String)
	return ok && x == v
}

// MaxSymbolLen is the maximum length of a Symbol.
const MaxSymbolLen = 32

// Symbol is a short identifier consisting of [a-zA-Z0-9_] characters.
type Symbol string

// NewSymbol checks s and returns it as a Symbol.
func NewSymbol(s string) (Symbol, error) {
	if err := checkSymbol(s); err != nil {
		return "", err
	}
	return Symbol(s), nil
}

// MustSymbol is NewSymbol that panics on error.
func MustSymbol(s string) Symbol {
	sym, err := NewSymbol(s)
	if err != nil {
		panic(err)
	}
	return sym
}

func checkSymbol(s string) error {
	if len(s) > MaxSymbolLen {
		return fmt.Errorf("%w: symbol is longer than %d", ErrInvalidFormat, MaxSymbolLen)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return fmt.Errorf("%w: invalid symbol character %q", ErrInvalidFormat, c)
		}
	}
	return nil
}

// Value implements the Value interface.
func (v Symbol) Value() any { return string(v) }

// Type implements the Value interface.
func (v Symbol) Type() Type { return SymbolT }

func (v Symbol) String() string { return "sym:" + string(v) }

// Equals implements the Value interface.
func (v Symbol) Equals(o Value) bool {
	x, ok := o.(Symbol)
	return ok && x == v
}

// LedgerKeyContractInstance is the storage key of the contract instance.
type LedgerKeyContractInstance struct{}

// Value implements the Value interface.
func (LedgerKeyContractInstance) Value() any { return nil }

// Type implements the Value interface.
func (LedgerKeyContractInstance) Type() Type { return LedgerKeyContractInstanceT }

func (LedgerKeyContractInstance) String() string { return "ledger_key_contract_instance" }

// Equals implements the Value interface.
func (LedgerKeyContractInstance) Equals(o Value) bool {
	_, ok := o.(LedgerKeyContractInstance)
	return ok
}

// LedgerKeyNonce is the storage key of an authorization nonce.
type LedgerKeyNonce struct {
	Nonce int64
}

// Value implements the Value interface.
func (v LedgerKeyNonce) Value() any { return v.Nonce }

// Type implements the Value interface.
func (LedgerKeyNonce) Type() Type { return LedgerKeyNonceT }

func (v LedgerKeyNonce) String() string { return "ledger_key_nonce:" + strconv.FormatInt(v.Nonce, 10) }

// Equals implements the Value interface.
func (v LedgerKeyNonce) Equals(o Value) bool {
	x, ok := o.(LedgerKeyNonce)
	return ok && x == v
}
