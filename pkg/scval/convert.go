package scval

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

func decodeString(s string, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "hex":
		return hex.DecodeString(strings.TrimPrefix(s, "0x"))
	case "base64":
		return base64.StdEncoding.DecodeString(s)
	case "utf8", "utf-8", "":
		return []byte(s), nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", encoding)
	}
}

// TryBool returns the boolean contained in v.
func TryBool(v Value) (bool, error) {
	b, ok := v.(Bool)
	if !ok {
		return false, mkInvConversion(v, BoolT)
	}
	return bool(b), nil
}

// TryBigInt returns any integer value as big.Int.
func TryBigInt(v Value) (*big.Int, error) {
	switch x := v.(type) {
	case U32:
		return new(big.Int).SetUint64(uint64(x)), nil
	case I32:
		return big.NewInt(int64(x)), nil
	case U64:
		return new(big.Int).SetUint64(uint64(x)), nil
	case I64:
		return big.NewInt(int64(x)), nil
	case Timepoint:
		return new(big.Int).SetUint64(uint64(x)), nil
	case Duration:
		return new(big.Int).SetUint64(uint64(x)), nil
	case *U128:
		return new(big.Int).Set(x.Big()), nil
	case *I128:
		return new(big.Int).Set(x.Big()), nil
	case *U256:
		return new(big.Int).Set(x.Big()), nil
	case *I256:
		return new(big.Int).Set(x.Big()), nil
	default:
		return nil, mkInvConversion(v, I128T)
	}
}

// TryInt64 returns any integer value that fits into int64.
func TryInt64(v Value) (int64, error) {
	i, err := TryBigInt(v)
	if err != nil {
		return 0, err
	}
	if !i.IsInt64() {
		return 0, fmt.Errorf("%w: %s doesn't fit into int64", ErrTooBig, i)
	}
	return i.Int64(), nil
}

// TryUint64 returns any non-negative integer value that fits into uint64.
func TryUint64(v Value) (uint64, error) {
	i, err := TryBigInt(v)
	if err != nil {
		return 0, err
	}
	if !i.IsUint64() {
		return 0, fmt.Errorf("%w: %s doesn't fit into uint64", ErrTooBig, i)
	}
	return i.Uint64(), nil
}

// TryBytes returns the contents of Bytes, String or Symbol value.
func TryBytes(v Value) ([]byte, error) {
	switch x := v.(type) {
	case Bytes:
		return []byte(x), nil
	case String:
		return []byte(x), nil
	case Symbol:
		return []byte(x), nil
	default:
		return nil, mkInvConversion(v, BytesT)
	}
}

// TryString returns the contents of String or Symbol value.
func TryString(v Value) (string, error) {
	switch x := v.(type) {
	case String:
		return string(x), nil
	case Symbol:
		return string(x), nil
	default:
		return "", mkInvConversion(v, StringT)
	}
}

// TryAddress returns the Address contained in v.
func TryAddress(v Value) (*Address, error) {
	a, ok := v.(*Address)
	if !ok {
		return nil, mkInvConversion(v, AddressT)
	}
	return a, nil
}

// TryVec returns the elements of Vec (or Enum in its Vec form).
func TryVec(v Value) ([]Value, error) {
	switch x := v.(type) {
	case Vec:
		return x, nil
	case *Enum:
		return x.vec(), nil
	default:
		return nil, mkInvConversion(v, VecT)
	}
}

// TryMap returns the Map contained in v.
func TryMap(v Value) (*Map, error) {
	m, ok := v.(*Map)
	if !ok {
		return nil, mkInvConversion(v, MapT)
	}
	return m, nil
}

// SymbolMap converts a record-like Map (with Symbol keys) into a Go map.
// Keys of other types are an error.
func SymbolMap(v Value) (map[string]Value, error) {
	m, err := TryMap(v)
	if err != nil {
		return nil, err
	}
	res := make(map[string]Value, len(m.value))
	for i := range m.value {
		k, ok := m.value[i].Key.(Symbol)
		if !ok {
			return nil, fmt.Errorf("%w: non-symbol key %s", ErrInvalidConversion, m.value[i].Key)
		}
		res[string(k)] = m.value[i].Value
	}
	return res, nil
}

// ToEnum interprets v as a tagged variant: a non-empty Vec with a leading
// Symbol.
func ToEnum(v Value) (*Enum, error) {
	if e, ok := v.(*Enum); ok {
		return e, nil
	}
	vec, ok := v.(Vec)
	if !ok {
		return nil, mkInvConversion(v, VecT)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: empty vec is not an enum", ErrInvalidConversion)
	}
	name, ok := vec[0].(Symbol)
	if !ok {
		return nil, fmt.Errorf("%w: enum tag is %s", ErrInvalidConversion, vec[0].Type())
	}
	return &Enum{Name: string(name), Payload: append([]Value(nil), vec[1:]...)}, nil
}

// TryMake is Make that returns an error instead of panicking.
func TryMake(v any) (res Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case error:
				err = e
			default:
				err = fmt.Errorf("%w: %v", ErrInvalidConversion, r)
			}
		}
	}()
	return Make(v), nil
}

// MakeValues converts a list of Go values into Values, see Make for the
// list of supported types.
func MakeValues(args ...any) ([]Value, error) {
	var res = make([]Value, 0, len(args))
	for i := range args {
		v, err := TryMake(args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		res = append(res, v)
	}
	return res, nil
}
