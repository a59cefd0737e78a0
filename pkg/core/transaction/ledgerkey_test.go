package transaction

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/nspcc-dev/soroban-go/internal/testserdes"
	"github.com/nspcc-dev/soroban-go/pkg/io"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func mustBase64(t *testing.T, hexStr string) string {
	return base64.StdEncoding.EncodeToString(decodeHex(t, hexStr))
}

func testSorobanData() *SorobanData {
	contract := scval.NewContractAddress(util.Uint256{1})
	return &SorobanData{
		Resources: Resources{
			Footprint: Footprint{
				ReadOnly: []LedgerKey{
					NewContractInstanceKey(contract),
					NewContractCodeKey(util.Uint256{2}),
				},
				ReadWrite: []LedgerKey{
					NewContractDataKey(contract, scval.NewVec(scval.Symbol("Balance")), Persistent),
				},
			},
			Instructions: 1000000,
			ReadBytes:    2000,
			WriteBytes:   300,
		},
		ResourceFee: 12345,
	}
}

func TestLedgerKeyEncoding(t *testing.T) {
	k := NewContractCodeKey(util.Uint256{0xab})
	b, err := k.Bytes()
	require.NoError(t, err)
	require.Equal(t, "00000007"+"ab"+"00000000000000000000000000000000000000000000000000000000000000",
		hex.EncodeToString(b))

	pk := testKey(t).PublicKey()
	acc := NewAccountKey(pk)
	b, err = acc.Bytes()
	require.NoError(t, err)
	require.Equal(t, "00000000"+"00000000"+hex.EncodeToString(pk[:]), hex.EncodeToString(b))

	inst := NewContractInstanceKey(scval.NewContractAddress(util.Uint256{}))
	b, err = inst.Bytes()
	require.NoError(t, err)
	require.Equal(t, "00000006"+"00000001"+"0000000000000000000000000000000000000000000000000000000000000000"+
		"00000014"+"00000001", hex.EncodeToString(b))
}

func TestLedgerKeyRoundTrip(t *testing.T) {
	contract := scval.NewContractAddress(util.Uint256{5})
	keysToCheck := []LedgerKey{
		NewAccountKey(testKey(t).PublicKey()),
		{Type: TrustlineEntry, Value: &TrustlineKey{Account: *testKey(t).PublicKey(), Asset: []byte{0, 0, 0, 0}}},
		{Type: TrustlineEntry, Value: &TrustlineKey{Account: *testKey(t).PublicKey(),
			Asset: append([]byte{0, 0, 0, 3}, make([]byte, 32)...)}},
		NewContractDataKey(contract, scval.Symbol("counter"), Temporary),
		NewContractInstanceKey(contract),
		NewContractCodeKey(util.Uint256{7}),
		{Type: TTLEntry, Value: &TTLKey{KeyHash: util.Uint256{8}}},
	}
	for _, k := range keysToCheck {
		t.Run(k.String(), func(t *testing.T) {
			s, err := k.Base64()
			require.NoError(t, err)
			actual, err := LedgerKeyFromBase64(s)
			require.NoError(t, err)
			require.Equal(t, k.Type, actual.Type)
			require.Equal(t, k.String(), actual.String())

			s2, err := actual.Base64()
			require.NoError(t, err)
			require.Equal(t, s, s2)
		})
	}
}

func TestLedgerKeyErrors(t *testing.T) {
	// Offer keys are not supported.
	_, err := LedgerKeyFromBase64(mustBase64(t, "00000002"))
	require.ErrorIs(t, err, ErrUnsupportedLedgerKey)

	_, err = (&LedgerKey{Type: AccountEntry}).Bytes()
	require.ErrorIs(t, err, ErrUnsupportedLedgerKey)

	// Invalid durability.
	_, err = LedgerKeyFromBase64(mustBase64(t, "00000006"+"00000001"+
		"0000000000000000000000000000000000000000000000000000000000000000"+"00000014"+"00000002"))
	require.Error(t, err)
}

func TestSorobanData(t *testing.T) {
	d := testSorobanData()
	s, err := d.Base64()
	require.NoError(t, err)
	actual, err := SorobanDataFromBase64(s)
	require.NoError(t, err)
	require.Equal(t, d.Resources.Instructions, actual.Resources.Instructions)
	require.Equal(t, d.Resources.ReadBytes, actual.Resources.ReadBytes)
	require.Equal(t, d.Resources.WriteBytes, actual.Resources.WriteBytes)
	require.Equal(t, d.ResourceFee, actual.ResourceFee)
	require.Len(t, actual.Resources.Footprint.ReadOnly, 2)
	require.Len(t, actual.Resources.Footprint.ReadWrite, 1)
	require.Nil(t, actual.ArchivedEntries)

	fp, err := io.ToByteArray(&d.Resources.Footprint)
	require.NoError(t, err)
	require.Equal(t, len(fp), d.FootprintSize())

	d.ArchivedEntries = []uint32{0}
	s, err = d.Base64()
	require.NoError(t, err)
	actual, err = SorobanDataFromBase64(s)
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, actual.ArchivedEntries)

	_, err = SorobanDataFromBase64(mustBase64(t, "00000005"))
	require.Error(t, err)
	_, err = SorobanDataFromBase64("!!!")
	require.Error(t, err)
}

func TestFixedSizeSerialization(t *testing.T) {
	testserdes.EncodeDecodeBinary(t, &AccountKey{Account: *testKey(t).PublicKey()}, new(AccountKey))
	testserdes.EncodeDecodeBinary(t, &ContractCodeKey{Hash: util.Uint256{1, 2, 3}}, new(ContractCodeKey))
	testserdes.EncodeDecodeBinary(t, &TTLKey{KeyHash: util.Uint256{0xff}}, new(TTLKey))
	testserdes.EncodeDecodeBinary(t, &DecoratedSignature{
		Hint:      [4]byte{1, 2, 3, 4},
		Signature: make([]byte, SignatureSize),
	}, new(DecoratedSignature))

	_, err := testserdes.EncodeBinary(&LedgerKey{Type: TTLEntry})
	require.Error(t, err)
}
