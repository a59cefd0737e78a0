package scval

import (
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/nspcc-dev/soroban-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func hexToBytes(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestSerializeFixtures(t *testing.T) {
	testCases := map[string]struct {
		v   Value
		hex string
	}{
		"u32":         {U32(5), "00000003" + "00000005"},
		"symbol":      {Symbol("mint"), "0000000f" + "00000004" + "6d696e74"},
		"bool true":   {Bool(true), "00000000" + "00000001"},
		"bool false":  {Bool(false), "00000000" + "00000000"},
		"void":        {Void{}, "00000001"},
		"i32 -1":      {I32(-1), "00000004" + "ffffffff"},
		"i128 -1":     {I128FromInt64(-1), "0000000a" + "ffffffffffffffff" + "ffffffffffffffff"},
		"u128 1<<64":  {(*U128)(new(big.Int).Lsh(big.NewInt(1), 64)), "00000009" + "0000000000000001" + "0000000000000000"},
		"bytes 3":     {Bytes{1, 2, 3}, "0000000d" + "00000003" + "01020300"},
		"empty bytes": {Bytes{}, "0000000d" + "00000000"},
		"string":      {String("hello"), "0000000e" + "00000005" + "68656c6c6f000000"},
		"vec":         {NewVec(U32(1)), "00000010" + "00000001" + "00000001" + "00000003" + "00000001"},
		"empty map":   {NewMap(), "00000011" + "00000001" + "00000000"},
		"enum": {NewEnum("A", U32(7)), "00000010" + "00000001" + "00000002" +
			"0000000f" + "00000001" + "41000000" + "00000003" + "00000007"},
		"error":        {Error{Type: ErrorContract, Code: 3}, "00000002" + "00000000" + "00000003"},
		"nonce":        {LedgerKeyNonce{Nonce: -2}, "00000015" + "fffffffffffffffe"},
		"instance key": {LedgerKeyContractInstance{}, "00000014"},
		"contract address": {NewContractAddress(util.Uint256{1}), "00000012" + "00000001" +
			"01" + "00000000000000000000000000000000000000000000000000000000000000"},
		"account address": {&Address{Kind: AccountAddress, Hash: util.Uint256{0xff}}, "00000012" + "00000000" + "00000000" +
			"ff" + "00000000000000000000000000000000000000000000000000000000000000"},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			expected := hexToBytes(t, tc.hex)
			actual, err := Serialize(tc.v)
			require.NoError(t, err)
			require.Equal(t, expected, actual)

			v, err := Deserialize(expected)
			require.NoError(t, err)
			require.True(t, tc.v.Equals(v), "expected %s, got %s", tc.v, v)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	mustU256, _ := NewU256(MaxU256)
	minI256, _ := NewI256(MinI256)
	maxI256, _ := NewI256(MaxI256)
	maxI128, _ := NewI128(MaxI128)
	minI128, _ := NewI128(MinI128)
	maxU128, _ := NewU128(MaxU128)

	m := NewMap()
	m.Add(Symbol("a"), U32(1))
	m.Add(String("b"), NewVec(Bool(true), Void{}))
	m.Add(U64(3), NewMap())

	values := []Value{
		Bool(true), Void{}, Error{Type: ErrorAuth, Code: 42},
		U32(0), U32(1<<32 - 1), I32(-1 << 31), I32(1<<31 - 1),
		U64(1<<64 - 1), I64(-1 << 63), I64(1<<63 - 1),
		Timepoint(1700000000), Duration(60),
		U128FromUint64(0), maxU128, maxI128, minI128, I128FromInt64(-1),
		(*U256)(big.NewInt(0)), mustU256, minI256, maxI256, (*I256)(big.NewInt(-1)),
		Bytes{}, Bytes{0, 1, 2, 3, 4}, String(""), String("привет"),
		Symbol(""), Symbol("abcdefghijklmnopqrstuvwxyz_01234"),
		Vec{}, NewVec(U32(1), NewVec(Symbol("x"))),
		NewMap(), m,
		NewEnum("None"), NewEnum("Some", I64(5), String("x"), NewVec()),
		NewContractAddress(util.Uint256{1, 2, 3}),
		&Address{Kind: AccountAddress, Hash: util.Uint256{9}},
		&ContractInstance{Executable: Executable{Kind: ExecutableWasm, WasmHash: util.Uint256{7}}},
		&ContractInstance{Executable: Executable{Kind: ExecutableStellarAsset}, Storage: m},
		LedgerKeyContractInstance{}, LedgerKeyNonce{Nonce: 123},
	}
	for _, v := range values {
		t.Run(v.String(), func(t *testing.T) {
			data, err := Serialize(v)
			require.NoError(t, err)
			actual, err := Deserialize(data)
			require.NoError(t, err)
			require.True(t, v.Equals(actual), "expected %s, got %s", v, actual)
			require.Equal(t, v.Type(), actual.Type())

			b64, err := ToBase64(v)
			require.NoError(t, err)
			actual, err = FromBase64(b64)
			require.NoError(t, err)
			require.True(t, v.Equals(actual))
		})
	}
}

func TestI128NegativeOne(t *testing.T) {
	data, err := Serialize(I128FromInt64(-1))
	require.NoError(t, err)
	v, err := Deserialize(data)
	require.NoError(t, err)
	i, err := TryBigInt(v)
	require.NoError(t, err)
	require.Equal(t, int64(-1), i.Int64())
}

func TestSerializeIntegerOverflow(t *testing.T) {
	big1 := new(big.Int).Add(MaxI128, big.NewInt(1))
	_, err := NewI128(big1)
	require.ErrorIs(t, err, ErrTooBig)

	_, err = NewU128(big.NewInt(-1))
	require.ErrorIs(t, err, ErrTooBig)

	// Bypassing the constructor is still caught by the encoder.
	_, err = Serialize((*I128)(big1))
	require.ErrorIs(t, err, ErrTooBig)
}

func TestDeserializeUnknownTag(t *testing.T) {
	_, err := Deserialize(hexToBytes(t, "00000063"))
	var ute *UnsupportedTypeError
	require.True(t, errors.As(err, &ute))
	require.Equal(t, uint32(99), ute.Tag)
	require.Contains(t, err.Error(), "99")
}

func TestDeserializeErrors(t *testing.T) {
	t.Run("truncated", func(t *testing.T) {
		_, err := Deserialize(hexToBytes(t, "0000000300"))
		require.Error(t, err)
	})
	t.Run("empty", func(t *testing.T) {
		_, err := Deserialize(nil)
		require.Error(t, err)
	})
	t.Run("trailing", func(t *testing.T) {
		_, err := Deserialize(hexToBytes(t, "00000003"+"00000005"+"00000000"))
		require.ErrorIs(t, err, ErrInvalidFormat)
	})
	t.Run("long symbol", func(t *testing.T) {
		data := hexToBytes(t, "0000000f"+"00000021"+
			"6161616161616161616161616161616161616161616161616161616161616161"+"61000000")
		_, err := Deserialize(data)
		require.ErrorIs(t, err, ErrInvalidFormat)
	})
	t.Run("bad symbol char", func(t *testing.T) {
		_, err := Deserialize(hexToBytes(t, "0000000f"+"00000001"+"2d000000"))
		require.ErrorIs(t, err, ErrInvalidFormat)
	})
	t.Run("bad bool", func(t *testing.T) {
		_, err := Deserialize(hexToBytes(t, "00000000"+"00000002"))
		require.Error(t, err)
	})
	t.Run("bad address type", func(t *testing.T) {
		_, err := Deserialize(hexToBytes(t, "00000012"+"00000005"))
		require.ErrorIs(t, err, ErrInvalidFormat)
	})
	t.Run("nonzero padding", func(t *testing.T) {
		_, err := Deserialize(hexToBytes(t, "0000000d"+"00000001"+"01010000"))
		require.Error(t, err)
	})
}

func nested(levels int) Value {
	var v Value = Void{}
	for i := 1; i < levels; i++ {
		v = NewVec(v)
	}
	return v
}

func TestMaxDepth(t *testing.T) {
	data, err := Serialize(nested(MaxDepth))
	require.NoError(t, err)
	_, err = Deserialize(data)
	require.NoError(t, err)

	_, err = Serialize(nested(MaxDepth + 1))
	require.ErrorIs(t, err, ErrTooDeep)

	// Wrap a valid encoding into one more Vec by hand.
	deep := append(hexToBytes(t, "00000010"+"00000001"+"00000001"), data...)
	_, err = Deserialize(deep)
	require.ErrorIs(t, err, ErrTooDeep)
}

func TestSerializeInvalidSymbol(t *testing.T) {
	_, err := Serialize(Symbol("not a symbol"))
	require.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Serialize(nil)
	require.Error(t, err)
}

// position is a record type used to check Convertible decoding.
type position struct {
	NPV  *big.Int
	Debt *big.Int
}

func (p *position) ToValue() (Value, error) {
	npv, err := NewI128(p.NPV)
	if err != nil {
		return nil, err
	}
	debt, err := NewI128(p.Debt)
	if err != nil {
		return nil, err
	}
	return NewMapWithSymbols([]string{"npv", "debt"}, []Value{npv, debt}), nil
}

func (p *position) FromValue(v Value) error {
	m, err := TryMap(v)
	if err != nil {
		return err
	}
	npv, err := m.Field("npv")
	if err != nil {
		return err
	}
	debt, err := m.Field("debt")
	if err != nil {
		return err
	}
	if p.NPV, err = TryBigInt(npv); err != nil {
		return err
	}
	p.Debt, err = TryBigInt(debt)
	return err
}

func TestRecordDecodingOrder(t *testing.T) {
	fwd := NewMapWithSymbols([]string{"npv", "debt"}, []Value{I128FromInt64(-3), I128FromInt64(5)})
	rev := NewMapWithSymbols([]string{"debt", "npv"}, []Value{I128FromInt64(5), I128FromInt64(-3)})
	require.True(t, fwd.Equals(rev))

	for _, m := range []*Map{fwd, rev} {
		data, err := Serialize(m)
		require.NoError(t, err)
		v, err := Deserialize(data)
		require.NoError(t, err)

		var p position
		require.NoError(t, p.FromValue(v))
		require.Equal(t, int64(-3), p.NPV.Int64())
		require.Equal(t, int64(5), p.Debt.Int64())
	}

	var p position
	require.Error(t, p.FromValue(NewMapWithSymbols([]string{"npv"}, []Value{I128FromInt64(1)})))

	v := Make(&position{NPV: big.NewInt(1), Debt: big.NewInt(2)})
	require.True(t, v.Equals(NewMapWithSymbols([]string{"debt", "npv"}, []Value{I128FromInt64(2), I128FromInt64(1)})))
}
