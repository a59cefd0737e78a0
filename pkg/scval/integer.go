package scval

import (
	"math/big"

	"github.com/holiman/uint256"
)

var (
	maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxU256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	maxI256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
	minI256 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
)

// Exported limits of wide integer types.
var (
	MaxU128 = new(big.Int).Set(maxU128)
	MaxI128 = new(big.Int).Set(maxI128)
	MinI128 = new(big.Int).Set(minI128)
	MaxU256 = new(big.Int).Set(maxU256)
	MaxI256 = new(big.Int).Set(maxI256)
	MinI256 = new(big.Int).Set(minI256)
)

// U128 represents an unsigned 128-bit integer.
type U128 big.Int

// I128 represents a signed 128-bit integer.
type I128 big.Int

// U256 represents an unsigned 256-bit integer.
type U256 big.Int

// I256 represents a signed 256-bit integer.
type I256 big.Int

func checkRange(v *big.Int, t Type) error {
	var lo, hi *big.Int
	switch t {
	case U128T:
		lo, hi = new(big.Int), maxU128
	case I128T:
		lo, hi = minI128, maxI128
	case U256T:
		lo, hi = new(big.Int), maxU256
	case I256T:
		lo, hi = minI256, maxI256
	}
	if v == nil || v.Cmp(lo) < 0 || v.Cmp(hi) > 0 {
		return mkTooBig(v, t)
	}
	return nil
}

func mkTooBig(v *big.Int, t Type) error {
	return &rangeError{v: v, t: t}
}

type rangeError struct {
	v *big.Int
	t Type
}

func (e *rangeError) Error() string {
	return ErrTooBig.Error() + ": " + e.v.String() + " doesn't fit into " + e.t.String()
}

func (e *rangeError) Unwrap() error { return ErrTooBig }

// NewU128 returns a U128 value, ErrTooBig is returned if the value doesn't
// fit. The value is copied.
func NewU128(v *big.Int) (*U128, error) {
	if err := checkRange(v, U128T); err != nil {
		return nil, err
	}
	return (*U128)(new(big.Int).Set(v)), nil
}

// NewI128 returns an I128 value, ErrTooBig is returned if the value doesn't
// fit. The value is copied.
func NewI128(v *big.Int) (*I128, error) {
	if err := checkRange(v, I128T); err != nil {
		return nil, err
	}
	return (*I128)(new(big.Int).Set(v)), nil
}

// NewU256 returns a U256 value, ErrTooBig is returned if the value doesn't
// fit. The value is copied.
func NewU256(v *big.Int) (*U256, error) {
	if err := checkRange(v, U256T); err != nil {
		return nil, err
	}
	return (*U256)(new(big.Int).Set(v)), nil
}

// NewI256 returns an I256 value, ErrTooBig is returned if the value doesn't
// fit. The value is copied.
func NewI256(v *big.Int) (*I256, error) {
	if err := checkRange(v, I256T); err != nil {
		return nil, err
	}
	return (*I256)(new(big.Int).Set(v)), nil
}

// I128FromInt64 is a convenience constructor for small I128 values.
func I128FromInt64(v int64) *I128 {
	return (*I128)(big.NewInt(v))
}

// U128FromUint64 is a convenience constructor for small U128 values.
func U128FromUint64(v uint64) *U128 {
	return (*U128)(new(big.Int).SetUint64(v))
}

// Big casts v to the big.Int type.
func (v *U128) Big() *big.Int { return (*big.Int)(v) }

// Big casts v to the big.Int type.
func (v *I128) Big() *big.Int { return (*big.Int)(v) }

// Big casts v to the big.Int type.
func (v *U256) Big() *big.Int { return (*big.Int)(v) }

// Big casts v to the big.Int type.
func (v *I256) Big() *big.Int { return (*big.Int)(v) }

// Value implements the Value interface.
func (v *U128) Value() any { return v.Big() }

// Value implements the Value interface.
func (v *I128) Value() any { return v.Big() }

// Value implements the Value interface.
func (v *U256) Value() any { return v.Big() }

// Value implements the Value interface.
func (v *I256) Value() any { return v.Big() }

// Type implements the Value interface.
func (v *U128) Type() Type { return U128T }

// Type implements the Value interface.
func (v *I128) Type() Type { return I128T }

// Type implements the Value interface.
func (v *U256) Type() Type { return U256T }

// Type implements the Value interface.
func (v *I256) Type() Type { return I256T }

func (v *U128) String() string { return "u128:" + v.Big().String() }
func (v *I128) String() string { return "i128:" + v.Big().String() }
func (v *U256) String() string { return "u256:" + v.Big().String() }
func (v *I256) String() string { return "i256:" + v.Big().String() }

// Equals implements the Value interface.
func (v *U128) Equals(o Value) bool {
	x, ok := o.(*U128)
	return ok && v.Big().Cmp(x.Big()) == 0
}

// Equals implements the Value interface.
func (v *I128) Equals(o Value) bool {
	x, ok := o.(*I128)
	return ok && v.Big().Cmp(x.Big()) == 0
}

// Equals implements the Value interface.
func (v *U256) Equals(o Value) bool {
	x, ok := o.(*U256)
	return ok && v.Big().Cmp(x.Big()) == 0
}

// Equals implements the Value interface.
func (v *I256) Equals(o Value) bool {
	x, ok := o.(*I256)
	return ok && v.Big().Cmp(x.Big()) == 0
}

// toWords splits the integer into four 64-bit words (least significant
// first) using two's complement representation for negative values. The
// value must be range-checked before.
func toWords(v *big.Int) [4]uint64 {
	u, _ := uint256.FromBig(v)
	return [4]uint64(*u)
}

// fromWords reassembles an integer from the least significant words. For
// signed types the most significant bit of the top word is the sign.
func fromWords(words [4]uint64, bits int, signed bool) *big.Int {
	u := uint256.Int(words)
	if signed && bits == 128 && words[1]>>63 == 1 {
		u[2], u[3] = ^uint64(0), ^uint64(0)
	}
	if signed && u.Sign() < 0 {
		res := new(uint256.Int).Neg(&u).ToBig()
		return res.Neg(res)
	}
	return u.ToBig()
}
