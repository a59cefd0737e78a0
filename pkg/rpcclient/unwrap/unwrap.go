/*
Package unwrap provides a set of proxy methods to process simulation results.

Functions implemented there are intended to be used as wrappers for other
functions that return (*result.SimulateTransaction, error) pair (invoker.Call
mostly). These functions will check for error, check for simulation failure,
check the number of results, decode the return value, cast it to appropriate
type (if everything is OK) and then return a result or error. They're mostly
useful for other higher-level contract-specific packages.
*/
package unwrap

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
	"github.com/nspcc-dev/soroban-go/pkg/util"
)

// BigInt expects successful simulation with a single integer value
// returned (of any width). A big.Int is extracted from this value and
// returned.
func BigInt(r *result.SimulateTransaction, err error) (*big.Int, error) {
	itm, err := Item(r, err)
	if err != nil {
		return nil, err
	}
	return scval.TryBigInt(itm)
}

// Bool expects successful simulation with a single value returned. A bool
// is extracted from this value and returned.
func Bool(r *result.SimulateTransaction, err error) (bool, error) {
	itm, err := Item(r, err)
	if err != nil {
		return false, err
	}
	return scval.TryBool(itm)
}

// U32 expects successful simulation with a single U32 value returned.
func U32(r *result.SimulateTransaction, err error) (uint32, error) {
	itm, err := Item(r, err)
	if err != nil {
		return 0, err
	}
	v, ok := itm.(scval.U32)
	if !ok {
		return 0, fmt.Errorf("%s is not u32", itm.Type())
	}
	return uint32(v), nil
}

// Int64 expects successful simulation with a single integer value returned.
// An int64 is extracted from this value and returned.
func Int64(r *result.SimulateTransaction, err error) (int64, error) {
	itm, err := Item(r, err)
	if err != nil {
		return 0, err
	}
	return scval.TryInt64(itm)
}

// LimitedInt64 is similar to Int64 except it allows to set minimum and maximum
// limits to be checked, so if it doesn't return an error the value is more than
// min and less than max.
func LimitedInt64(r *result.SimulateTransaction, err error, min int64, max int64) (int64, error) {
	i, err := Int64(r, err)
	if err != nil {
		return 0, err
	}
	if i < min {
		return 0, errors.New("too small value")
	}
	if i > max {
		return 0, errors.New("too big value")
	}
	return i, nil
}

// Bytes expects successful simulation with a single Bytes, String or Symbol
// value returned. A slice of bytes is extracted from this value and
// returned.
func Bytes(r *result.SimulateTransaction, err error) ([]byte, error) {
	itm, err := Item(r, err)
	if err != nil {
		return nil, err
	}
	return scval.TryBytes(itm)
}

// UTF8String expects successful simulation with a single value returned.
// A string is extracted from this value and checked for UTF-8
// correctness, valid strings are then returned.
func UTF8String(r *result.SimulateTransaction, err error) (string, error) {
	b, err := Bytes(r, err)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}

// Symbol expects successful simulation with a single Symbol value returned.
func Symbol(r *result.SimulateTransaction, err error) (string, error) {
	itm, err := Item(r, err)
	if err != nil {
		return "", err
	}
	s, ok := itm.(scval.Symbol)
	if !ok {
		return "", fmt.Errorf("%s is not a symbol", itm.Type())
	}
	return string(s), nil
}

// Uint256 expects successful simulation with a single 32-byte Bytes value
// returned (like a wasm hash).
func Uint256(r *result.SimulateTransaction, err error) (util.Uint256, error) {
	b, err := Bytes(r, err)
	if err != nil {
		return util.Uint256{}, err
	}
	return util.Uint256DecodeBytesBE(b)
}

// Address expects successful simulation with a single Address value
// returned.
func Address(r *result.SimulateTransaction, err error) (*scval.Address, error) {
	itm, err := Item(r, err)
	if err != nil {
		return nil, err
	}
	return scval.TryAddress(itm)
}

// Vec expects successful simulation with a single Vec value returned. Its
// elements are returned to the caller.
func Vec(r *result.SimulateTransaction, err error) ([]scval.Value, error) {
	itm, err := Item(r, err)
	if err != nil {
		return nil, err
	}
	return scval.TryVec(itm)
}

// Map expects successful simulation with a single Map value returned.
func Map(r *result.SimulateTransaction, err error) (*scval.Map, error) {
	itm, err := Item(r, err)
	if err != nil {
		return nil, err
	}
	return scval.TryMap(itm)
}

// Record decodes a single Map value returned into the given record.
func Record(r *result.SimulateTransaction, err error, rec scval.Convertible) error {
	itm, err := Item(r, err)
	if err != nil {
		return err
	}
	return rec.FromValue(itm)
}

// Enum expects successful simulation with a single enum-like Vec value
// returned (a symbol tag followed by the payload).
func Enum(r *result.SimulateTransaction, err error) (*scval.Enum, error) {
	itm, err := Item(r, err)
	if err != nil {
		return nil, err
	}
	return scval.ToEnum(itm)
}

// Void expects successful simulation with a single Void value returned.
func Void(r *result.SimulateTransaction, err error) error {
	itm, err := Item(r, err)
	if err != nil {
		return err
	}
	if itm.Type() != scval.VoidT {
		return fmt.Errorf("%s is not void", itm.Type())
	}
	return nil
}

func checkResOK(r *result.SimulateTransaction, err error) error {
	if err != nil {
		return err
	}
	if r.Failed() {
		return fmt.Errorf("simulation failed: %s", r.Error)
	}
	return nil
}

// Item returns the decoded value from the result if simulation was
// successful and if it's the only result.
func Item(r *result.SimulateTransaction, err error) (scval.Value, error) {
	err = checkResOK(r, err)
	if err != nil {
		return nil, err
	}
	if len(r.Results) == 0 {
		return nil, errors.New("no results")
	}
	if len(r.Results) > 1 {
		return nil, fmt.Errorf("too many (%d) results", len(r.Results))
	}
	return r.ReturnValue()
}
