package scval

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	json "github.com/nspcc-dev/go-ordered-json"
	"github.com/nspcc-dev/soroban-go/pkg/util"
)

// ErrInvalidValue is returned when the JSON value doesn't match its type.
var ErrInvalidValue = errors.New("invalid value")

type (
	rawValue struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value,omitempty"`
	}

	rawMapElement struct {
		Key   json.RawMessage `json:"key"`
		Value json.RawMessage `json:"value"`
	}

	rawError struct {
		Type string `json:"type"`
		Code uint32 `json:"code"`
	}

	rawInstance struct {
		Executable string          `json:"executable"`
		WasmHash   *util.Uint256   `json:"wasm_hash,omitempty"`
		Storage    json.RawMessage `json:"storage,omitempty"`
	}
)

func mkErrValue(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidValue, err)
}

// ToJSONWithTypes serializes any value to JSON in a lossless way. Every
// value is an object with "type" and (for non-unit types) "value" fields,
// 64-bit and wider integers are decimal strings, Bytes are hex-encoded.
func ToJSONWithTypes(v Value) ([]byte, error) {
	res, err := toJSONWithTypes(v, 0)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

func toJSONWithTypes(v Value, depth int) (any, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}
	if v == nil {
		return nil, errors.New("nil value")
	}
	var value any
	switch t := v.(type) {
	case Bool:
		value = bool(t)
	case Void, LedgerKeyContractInstance:
	case Error:
		value = json.OrderedObject{
			{Key: "type", Value: t.Type.String()},
			{Key: "code", Value: t.Code},
		}
	case U32:
		value = uint32(t)
	case I32:
		value = int32(t)
	case U64, I64, Timepoint, Duration, *U128, *I128, *U256, *I256:
		i, _ := TryBigInt(v)
		value = i.String()
	case Bytes:
		value = hex.EncodeToString(t)
	case String:
		value = string(t)
	case Symbol:
		value = string(t)
	case Vec, *Enum:
		items, _ := TryVec(v)
		arr := make([]any, 0, len(items))
		for i := range items {
			s, err := toJSONWithTypes(items[i], depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, s)
		}
		value = arr
	case *Map:
		arr, err := mapToJSON(t, depth)
		if err != nil {
			return nil, err
		}
		value = arr
	case *Address:
		value = t.String()
	case *ContractInstance:
		obj := json.OrderedObject{{Key: "executable", Value: t.Executable.Kind.String()}}
		if t.Executable.Kind == ExecutableWasm {
			obj = append(obj, json.Member{Key: "wasm_hash", Value: t.Executable.WasmHash})
		}
		if t.Storage != nil {
			arr, err := mapToJSON(t.Storage, depth)
			if err != nil {
				return nil, err
			}
			obj = append(obj, json.Member{Key: "storage", Value: arr})
		}
		value = obj
	case LedgerKeyNonce:
		value = strconv.FormatInt(t.Nonce, 10)
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidConversion, v)
	}
	res := json.OrderedObject{{Key: "type", Value: v.Type().String()}}
	if value != nil {
		res = append(res, json.Member{Key: "value", Value: value})
	}
	return res, nil
}

func mapToJSON(m *Map, depth int) ([]any, error) {
	arr := make([]any, 0, len(m.value))
	for i := range m.value {
		key, err := toJSONWithTypes(m.value[i].Key, depth+1)
		if err != nil {
			return nil, err
		}
		val, err := toJSONWithTypes(m.value[i].Value, depth+1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, json.OrderedObject{
			{Key: "key", Value: key},
			{Key: "value", Value: val},
		})
	}
	return arr, nil
}

// FromJSONWithTypes deserializes a value from typed-json representation
// produced by ToJSONWithTypes.
func FromJSONWithTypes(data []byte) (Value, error) {
	return fromJSONWithTypes(data, 0)
}

func fromJSONWithTypes(data []byte, depth int) (Value, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}
	raw := new(rawValue)
	if err := json.Unmarshal(data, raw); err != nil {
		return nil, err
	}
	typ, err := FromString(raw.Type)
	if err != nil {
		return nil, err
	}
	switch typ {
	case VoidT:
		return Void{}, nil
	case LedgerKeyContractInstanceT:
		return LedgerKeyContractInstance{}, nil
	case BoolT:
		var b bool
		if err := json.Unmarshal(raw.Value, &b); err != nil {
			return nil, mkErrValue(err)
		}
		return Bool(b), nil
	case ErrorT:
		var e rawError
		if err := json.Unmarshal(raw.Value, &e); err != nil {
			return nil, mkErrValue(err)
		}
		for i, name := range errorTypeNames {
			if name == e.Type {
				return Error{Type: ErrorType(i), Code: e.Code}, nil
			}
		}
		return nil, mkErrValue(fmt.Errorf("unknown error type %q", e.Type))
	case U32T:
		var u uint32
		if err := json.Unmarshal(raw.Value, &u); err != nil {
			return nil, mkErrValue(err)
		}
		return U32(u), nil
	case I32T:
		var i int32
		if err := json.Unmarshal(raw.Value, &i); err != nil {
			return nil, mkErrValue(err)
		}
		return I32(i), nil
	case U64T, I64T, TimepointT, DurationT, U128T, I128T, U256T, I256T, LedgerKeyNonceT:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return nil, mkErrValue(err)
		}
		i, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, mkErrValue(errors.New("not an integer"))
		}
		return NewInteger(typ, i)
	case BytesT:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return nil, mkErrValue(err)
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, mkErrValue(err)
		}
		return Bytes(b), nil
	case StringT, SymbolT, AddressT:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return nil, mkErrValue(err)
		}
		switch typ {
		case StringT:
			return String(s), nil
		case SymbolT:
			sym, err := NewSymbol(s)
			if err != nil {
				return nil, mkErrValue(err)
			}
			return sym, nil
		default:
			a, err := NewAddress(s)
			if err != nil {
				return nil, mkErrValue(err)
			}
			return a, nil
		}
	case VecT:
		var arr []json.RawMessage
		if err := json.Unmarshal(raw.Value, &arr); err != nil {
			return nil, mkErrValue(err)
		}
		vec := make(Vec, len(arr))
		for i := range arr {
			it, err := fromJSONWithTypes(arr[i], depth+1)
			if err != nil {
				return nil, err
			}
			vec[i] = it
		}
		return vec, nil
	case MapT:
		m, err := mapFromJSON(raw.Value, depth)
		if err != nil {
			return nil, err
		}
		return m, nil
	case ContractInstanceT:
		var ri rawInstance
		if err := json.Unmarshal(raw.Value, &ri); err != nil {
			return nil, mkErrValue(err)
		}
		c := new(ContractInstance)
		switch ri.Executable {
		case ExecutableWasm.String():
			if ri.WasmHash == nil {
				return nil, mkErrValue(errors.New("missing wasm hash"))
			}
			c.Executable = Executable{Kind: ExecutableWasm, WasmHash: *ri.WasmHash}
		case ExecutableStellarAsset.String():
			c.Executable.Kind = ExecutableStellarAsset
		default:
			return nil, mkErrValue(fmt.Errorf("unknown executable %q", ri.Executable))
		}
		if len(ri.Storage) != 0 {
			m, err := mapFromJSON(ri.Storage, depth)
			if err != nil {
				return nil, err
			}
			c.Storage = m
		}
		return c, nil
	default:
		return nil, mkErrValue(fmt.Errorf("unsupported type %s", typ))
	}
}

func mapFromJSON(data json.RawMessage, depth int) (*Map, error) {
	var arr []rawMapElement
	if err := json.Unmarshal(data, &arr); err != nil {
		return nil, mkErrValue(err)
	}
	m := NewMap()
	for i := range arr {
		key, err := fromJSONWithTypes(arr[i].Key, depth+1)
		if err != nil {
			return nil, err
		}
		val, err := fromJSONWithTypes(arr[i].Value, depth+1)
		if err != nil {
			return nil, err
		}
		m.Add(key, val)
	}
	return m, nil
}

// NewInteger makes an integer value of the given type checking its range.
func NewInteger(t Type, i *big.Int) (Value, error) {
	switch t {
	case U32T, I32T, U64T, I64T, TimepointT, DurationT, LedgerKeyNonceT:
		var lo, hi *big.Int
		switch t {
		case U32T:
			lo, hi = new(big.Int), new(big.Int).SetUint64(1<<32-1)
		case I32T:
			lo, hi = big.NewInt(-1<<31), big.NewInt(1<<31-1)
		case I64T, LedgerKeyNonceT:
			lo, hi = big.NewInt(-1<<63), big.NewInt(1<<63-1)
		default:
			lo, hi = new(big.Int), new(big.Int).SetUint64(1<<64-1)
		}
		if i.Cmp(lo) < 0 || i.Cmp(hi) > 0 {
			return nil, fmt.Errorf("%w: %s doesn't fit into %s", ErrTooBig, i, t)
		}
		switch t {
		case U32T:
			return U32(i.Uint64()), nil
		case I32T:
			return I32(i.Int64()), nil
		case I64T:
			return I64(i.Int64()), nil
		case LedgerKeyNonceT:
			return LedgerKeyNonce{Nonce: i.Int64()}, nil
		case U64T:
			return U64(i.Uint64()), nil
		case TimepointT:
			return Timepoint(i.Uint64()), nil
		default:
			return Duration(i.Uint64()), nil
		}
	case U128T, I128T, U256T, I256T:
		if err := checkRange(i, t); err != nil {
			return nil, err
		}
		i = new(big.Int).Set(i)
		switch t {
		case U128T:
			return (*U128)(i), nil
		case I128T:
			return (*I128)(i), nil
		case U256T:
			return (*U256)(i), nil
		default:
			return (*I256)(i), nil
		}
	default:
		return nil, fmt.Errorf("%w: %s is not an integer type", ErrInvalidConversion, t)
	}
}

// MaxSafeInteger is the maximum integer that is rendered as a JSON number
// by ToJSON, wider values are rendered as decimal strings.
const MaxSafeInteger = 1<<53 - 1

// ToJSON renders the value as a native JSON tree:
//
//	Bool -> bool
//	Void, LedgerKeyContractInstance -> null
//	integers -> number (or decimal string if it doesn't fit into 53 bits)
//	Bytes -> hex string
//	String, Symbol, Address -> string
//	Vec -> array
//	Map with String/Symbol keys -> ordered object
//	other Maps -> array of {"key": ..., "value": ...}
//	Error -> {"type": ..., "code": ...}
func ToJSON(v Value) ([]byte, error) {
	res, err := toJSON(v, 0)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

func toJSON(v Value, depth int) (any, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}
	switch t := v.(type) {
	case nil:
		return nil, errors.New("nil value")
	case Bool:
		return bool(t), nil
	case Void, LedgerKeyContractInstance:
		return nil, nil
	case Error:
		return json.OrderedObject{
			{Key: "type", Value: t.Type.String()},
			{Key: "code", Value: t.Code},
		}, nil
	case U32, I32, U64, I64, Timepoint, Duration, *U128, *I128, *U256, *I256, LedgerKeyNonce:
		var i *big.Int
		if n, ok := t.(LedgerKeyNonce); ok {
			i = big.NewInt(n.Nonce)
		} else {
			i, _ = TryBigInt(t)
		}
		if i.IsInt64() && i.Int64() <= MaxSafeInteger && i.Int64() >= -MaxSafeInteger {
			return i.Int64(), nil
		}
		return i.String(), nil
	case Bytes:
		return hex.EncodeToString(t), nil
	case String:
		return string(t), nil
	case Symbol:
		return string(t), nil
	case *Address:
		return t.String(), nil
	case Vec, *Enum:
		items, _ := TryVec(t)
		arr := make([]any, 0, len(items))
		for i := range items {
			s, err := toJSON(items[i], depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, s)
		}
		return arr, nil
	case *Map:
		return mapToNativeJSON(t, depth)
	case *ContractInstance:
		obj := json.OrderedObject{{Key: "executable", Value: t.Executable.Kind.String()}}
		if t.Executable.Kind == ExecutableWasm {
			obj = append(obj, json.Member{Key: "wasm_hash", Value: t.Executable.WasmHash})
		}
		if t.Storage != nil {
			s, err := mapToNativeJSON(t.Storage, depth)
			if err != nil {
				return nil, err
			}
			obj = append(obj, json.Member{Key: "storage", Value: s})
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidConversion, v)
	}
}

func mapToNativeJSON(m *Map, depth int) (any, error) {
	var record = true
	for i := range m.value {
		switch m.value[i].Key.(type) {
		case String, Symbol:
		default:
			record = false
		}
	}
	if record {
		obj := make(json.OrderedObject, 0, len(m.value))
		for i := range m.value {
			k, _ := TryString(m.value[i].Key)
			val, err := toJSON(m.value[i].Value, depth+1)
			if err != nil {
				return nil, err
			}
			obj = append(obj, json.Member{Key: k, Value: val})
		}
		return obj, nil
	}
	arr := make([]any, 0, len(m.value))
	for i := range m.value {
		key, err := toJSON(m.value[i].Key, depth+1)
		if err != nil {
			return nil, err
		}
		val, err := toJSON(m.value[i].Value, depth+1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, json.OrderedObject{
			{Key: "key", Value: key},
			{Key: "value", Value: val},
		})
	}
	return arr, nil
}
