package util

import (
	"encoding/hex"
	"testing"

	"github.com/nspcc-dev/soroban-go/pkg/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hexHash = "f037308fa0ab18155bccfc08485468c112409ea5064595699e98c545f245f32d"

func TestUint256UnmarshalJSON(t *testing.T) {
	expected, err := Uint256DecodeStringBE(hexHash)
	require.NoError(t, err)

	var u1 Uint256
	require.NoError(t, u1.UnmarshalJSON([]byte(`"`+hexHash+`"`)))
	assert.True(t, expected.Equals(u1))

	b, err := u1.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `"`+hexHash+`"`, string(b))

	require.Error(t, u1.UnmarshalJSON([]byte(`123`)))
}

func TestUint256DecodeString(t *testing.T) {
	val, err := Uint256DecodeStringBE(hexHash)
	require.NoError(t, err)
	assert.Equal(t, hexHash, val.String())

	_, err = Uint256DecodeStringBE(hexHash[1:])
	assert.Error(t, err)

	bad := "zz" + hexHash[2:]
	_, err = Uint256DecodeStringBE(bad)
	assert.Error(t, err)
}

func TestUint256DecodeBytes(t *testing.T) {
	b, err := hex.DecodeString(hexHash)
	require.NoError(t, err)

	val, err := Uint256DecodeBytesBE(b)
	require.NoError(t, err)
	assert.Equal(t, hexHash, val.String())
	assert.Equal(t, b, val.BytesBE())

	_, err = Uint256DecodeBytesBE(b[1:])
	assert.Error(t, err)
}

func TestUint256Equals(t *testing.T) {
	a := "f037308fa0ab18155bccfc08485468c112409ea5064595699e98c545f245f32d"
	b := "e287c5b29a1b66092be6803c59c765308ac20287e1b4977fd399da5fc8f66ab5"

	ua, err := Uint256DecodeStringBE(a)
	require.NoError(t, err)

	ub, err := Uint256DecodeStringBE(b)
	require.NoError(t, err)
	assert.False(t, ua.Equals(ub), "%s and %s cannot be equal", ua, ub)
	assert.True(t, ua.Equals(ua), "%s and %s must be equal", ua, ua)
	assert.False(t, ua.IsZero())
	assert.True(t, Uint256{}.IsZero())
}

func TestUint256Serializable(t *testing.T) {
	a, err := Uint256DecodeStringBE(hexHash)
	require.NoError(t, err)

	b, err := io.ToByteArray(&a)
	require.NoError(t, err)
	require.Equal(t, a.BytesBE(), b)

	var c Uint256
	require.NoError(t, io.FromByteArray(&c, b))
	require.Equal(t, a, c)
}
