package testserdes

import (
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/soroban-go/pkg/io"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/stretchr/testify/require"
)

// MarshalUnmarshalJSON checks if expected stays the same after
// marshal/unmarshal via JSON.
func MarshalUnmarshalJSON(t *testing.T, expected, actual any) {
	data, err := json.Marshal(expected)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, expected, actual)
}

// EncodeDecodeBinary checks if expected stays the same after
// serializing/deserializing via io.Serializable methods.
func EncodeDecodeBinary(t *testing.T, expected, actual io.Serializable) {
	data, err := EncodeBinary(expected)
	require.NoError(t, err)
	require.NoError(t, DecodeBinary(data, actual))
	require.Equal(t, expected, actual)
}

// ToFromValue checks if expected stays the same after converting to/from
// ScVal.
func ToFromValue(t *testing.T, expected, actual scval.Convertible) {
	v, err := expected.ToValue()
	require.NoError(t, err)
	require.NoError(t, actual.FromValue(v))
	require.Equal(t, expected, actual)
}

// EncodeDecodeValue checks that v survives XDR encoding/decoding and returns
// the encoded form.
func EncodeDecodeValue(t *testing.T, v scval.Value) []byte {
	w := io.NewBufBinWriter()
	scval.EncodeBinary(v, w.BinWriter)
	require.NoError(t, w.Err)
	data := w.Bytes()

	r := io.NewBinReaderFromBuf(data)
	actual := scval.DecodeBinary(r)
	require.NoError(t, r.Err)
	require.True(t, r.EOF())
	require.True(t, v.Equals(actual), "expected %s, got %s", v, actual)
	return data
}

// EncodeBinary serializes a to a byte slice.
func EncodeBinary(a io.Serializable) ([]byte, error) {
	return io.ToByteArray(a)
}

// DecodeBinary deserializes a from a byte slice.
func DecodeBinary(data []byte, a io.Serializable) error {
	return io.FromByteArray(a, data)
}
