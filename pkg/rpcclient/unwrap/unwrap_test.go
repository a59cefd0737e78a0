package unwrap

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
	"github.com/nspcc-dev/soroban-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func res(t *testing.T, vals ...scval.Value) *result.SimulateTransaction {
	r := new(result.SimulateTransaction)
	for _, v := range vals {
		s, err := scval.ToBase64(v)
		require.NoError(t, err)
		r.Results = append(r.Results, result.SimulateResult{XDR: s})
	}
	return r
}

type balance struct {
	amount *big.Int
}

func (b *balance) ToValue() (scval.Value, error) {
	i, err := scval.NewI128(b.amount)
	if err != nil {
		return nil, err
	}
	return scval.NewMapWithSymbols([]string{"amount"}, []scval.Value{i}), nil
}

func (b *balance) FromValue(v scval.Value) error {
	m, err := scval.TryMap(v)
	if err != nil {
		return err
	}
	f, err := m.Field("amount")
	if err != nil {
		return err
	}
	b.amount, err = scval.TryBigInt(f)
	return err
}

func TestStdErrors(t *testing.T) {
	funcs := []func(r *result.SimulateTransaction, err error) (any, error){
		func(r *result.SimulateTransaction, err error) (any, error) {
			return BigInt(r, err)
		},
		func(r *result.SimulateTransaction, err error) (any, error) {
			return Bool(r, err)
		},
		func(r *result.SimulateTransaction, err error) (any, error) {
			return U32(r, err)
		},
		func(r *result.SimulateTransaction, err error) (any, error) {
			return Int64(r, err)
		},
		func(r *result.SimulateTransaction, err error) (any, error) {
			return LimitedInt64(r, err, 0, 1)
		},
		func(r *result.SimulateTransaction, err error) (any, error) {
			return Bytes(r, err)
		},
		func(r *result.SimulateTransaction, err error) (any, error) {
			return UTF8String(r, err)
		},
		func(r *result.SimulateTransaction, err error) (any, error) {
			return Symbol(r, err)
		},
		func(r *result.SimulateTransaction, err error) (any, error) {
			return Uint256(r, err)
		},
		func(r *result.SimulateTransaction, err error) (any, error) {
			return Address(r, err)
		},
		func(r *result.SimulateTransaction, err error) (any, error) {
			return Vec(r, err)
		},
		func(r *result.SimulateTransaction, err error) (any, error) {
			return Map(r, err)
		},
		func(r *result.SimulateTransaction, err error) (any, error) {
			return Enum(r, err)
		},
		func(r *result.SimulateTransaction, err error) (any, error) {
			return nil, Record(r, err, new(balance))
		},
		func(r *result.SimulateTransaction, err error) (any, error) {
			return nil, Void(r, err)
		},
	}
	t.Run("error on input", func(t *testing.T) {
		for _, f := range funcs {
			_, err := f(res(t, scval.U32(42)), errors.New("some"))
			require.Error(t, err)
		}
	})
	t.Run("simulation failure", func(t *testing.T) {
		for _, f := range funcs {
			r := res(t, scval.U32(42))
			r.Error = "HostError: Error(WasmVm, InvalidAction)"
			_, err := f(r, nil)
			require.ErrorContains(t, err, "simulation failed")
		}
	})
	t.Run("nothing returned", func(t *testing.T) {
		for _, f := range funcs {
			_, err := f(res(t), nil)
			require.Error(t, err)
		}
	})
	t.Run("multiple return values", func(t *testing.T) {
		for _, f := range funcs {
			_, err := f(res(t, scval.U32(42), scval.U32(42)), nil)
			require.Error(t, err)
		}
	})
	t.Run("invalid XDR", func(t *testing.T) {
		for _, f := range funcs {
			r := &result.SimulateTransaction{Results: []result.SimulateResult{{XDR: "AAAAYw=="}}}
			_, err := f(r, nil)
			require.Error(t, err)
		}
	})
}

func TestBigInt(t *testing.T) {
	_, err := BigInt(res(t, scval.NewVec()), nil)
	require.Error(t, err)

	i, err := BigInt(res(t, scval.I128FromInt64(-42)), nil)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(-42), i)
}

func TestBool(t *testing.T) {
	_, err := Bool(res(t, scval.U32(1)), nil)
	require.Error(t, err)

	b, err := Bool(res(t, scval.Bool(true)), nil)
	require.NoError(t, err)
	require.True(t, b)
}

func TestU32(t *testing.T) {
	_, err := U32(res(t, scval.I32(1)), nil)
	require.Error(t, err)

	u, err := U32(res(t, scval.U32(7)), nil)
	require.NoError(t, err)
	require.Equal(t, uint32(7), u)
}

func TestInt64(t *testing.T) {
	_, err := Int64(res(t, scval.String("42")), nil)
	require.Error(t, err)

	_, err = Int64(res(t, scval.U64(math.MaxUint64)), nil)
	require.Error(t, err)

	i, err := Int64(res(t, scval.I64(42)), nil)
	require.NoError(t, err)
	require.Equal(t, int64(42), i)
}

func TestLimitedInt64(t *testing.T) {
	_, err := LimitedInt64(res(t, scval.U64(math.MaxUint64)), nil, math.MinInt64, math.MaxInt64)
	require.Error(t, err)

	_, err = LimitedInt64(res(t, scval.I64(42)), nil, 128, 256)
	require.Error(t, err)

	_, err = LimitedInt64(res(t, scval.I64(42)), nil, 0, 40)
	require.Error(t, err)

	i, err := LimitedInt64(res(t, scval.U32(42)), nil, 0, 128)
	require.NoError(t, err)
	require.Equal(t, int64(42), i)
}

func TestBytesAndStrings(t *testing.T) {
	_, err := Bytes(res(t, scval.NewVec()), nil)
	require.Error(t, err)

	b, err := Bytes(res(t, scval.Bytes{1, 2, 3}), nil)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, b)

	_, err = UTF8String(res(t, scval.Bytes{0xff}), nil)
	require.Error(t, err)

	s, err := UTF8String(res(t, scval.String("token")), nil)
	require.NoError(t, err)
	require.Equal(t, "token", s)

	_, err = Symbol(res(t, scval.String("token")), nil)
	require.Error(t, err)

	s, err = Symbol(res(t, scval.Symbol("USDC")), nil)
	require.NoError(t, err)
	require.Equal(t, "USDC", s)

	_, err = Uint256(res(t, scval.Bytes{1, 2, 3}), nil)
	require.Error(t, err)

	h := util.Uint256{1, 2, 3}
	u, err := Uint256(res(t, scval.Bytes(h.BytesBE())), nil)
	require.NoError(t, err)
	require.Equal(t, h, u)
}

func TestAddress(t *testing.T) {
	_, err := Address(res(t, scval.String("C")), nil)
	require.Error(t, err)

	a := scval.NewContractAddress(util.Uint256{5})
	actual, err := Address(res(t, a), nil)
	require.NoError(t, err)
	require.True(t, a.Equals(actual))
}

func TestCollections(t *testing.T) {
	_, err := Vec(res(t, scval.NewMap()), nil)
	require.Error(t, err)

	v, err := Vec(res(t, scval.NewVec(scval.U32(1), scval.U32(2))), nil)
	require.NoError(t, err)
	require.Equal(t, []scval.Value{scval.U32(1), scval.U32(2)}, []scval.Value(v))

	_, err = Map(res(t, scval.NewVec()), nil)
	require.Error(t, err)

	m, err := Map(res(t, scval.NewMapWithSymbols([]string{"a"}, []scval.Value{scval.U32(1)})), nil)
	require.NoError(t, err)
	require.Equal(t, 1, m.Len())

	_, err = Enum(res(t, scval.NewVec(scval.U32(1))), nil)
	require.Error(t, err)

	e, err := Enum(res(t, scval.NewEnum("Stable", scval.U32(3))), nil)
	require.NoError(t, err)
	require.True(t, e.Is("Stable"))
	require.Equal(t, []scval.Value{scval.U32(3)}, e.Payload)
}

func TestRecord(t *testing.T) {
	var b balance
	require.Error(t, Record(res(t, scval.NewVec()), nil, &b))

	src := &balance{amount: big.NewInt(1_000_000)}
	v, err := src.ToValue()
	require.NoError(t, err)
	require.NoError(t, Record(res(t, v), nil, &b))
	require.Equal(t, src.amount, b.amount)
}

func TestVoid(t *testing.T) {
	require.Error(t, Void(res(t, scval.U32(0)), nil))
	require.NoError(t, Void(res(t, scval.Void{}), nil))
}
