package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSha256(t *testing.T) {
	input := []byte("hello")
	data := Sha256(input)

	expected := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	actual := hex.EncodeToString(data.BytesBE())

	require.Equal(t, expected, actual)
}

func TestNetworkID(t *testing.T) {
	id := NetworkID("Test SDF Network ; September 2015")
	require.Equal(t, "cee0302d59844d32bdca915c8203dd44b33fbb7edc19051ea37abedf28ecd472", id.StringBE())
}
