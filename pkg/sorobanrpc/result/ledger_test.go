package result

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestDecodeAccount(t *testing.T) {
	k, err := keys.NewPrivateKey()
	require.NoError(t, err)
	acc := &Account{ID: *k.PublicKey(), Balance: 100_0000000, Sequence: 42}
	xdr, err := acc.EntryXDR()
	require.NoError(t, err)

	actual, err := DecodeAccount(xdr)
	require.NoError(t, err)
	require.Equal(t, acc, actual)

	b, err := json.Marshal(actual)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"`+k.Address()+`","balance":1000000000,"sequence":42}`, string(b))

	_, err = DecodeAccount("!!")
	require.Error(t, err)
	_, err = DecodeAccount(base64.StdEncoding.EncodeToString([]byte{0, 0, 0, 0, 0, 0}))
	require.Error(t, err)

	inst := &ContractInstance{Contract: *scval.NewContractAddress(util.Uint256{1})}
	other, err := inst.EntryXDR()
	require.NoError(t, err)
	_, err = DecodeAccount(other)
	require.ErrorIs(t, err, ErrUnexpectedEntry)
}

func TestDecodeContractInstance(t *testing.T) {
	storage := scval.NewMapWithSymbols([]string{"admin", "count"},
		[]scval.Value{scval.Bool(true), scval.U32(3)})
	inst := &ContractInstance{
		Contract:   *scval.NewContractAddress(util.Uint256{1, 2, 3}),
		Executable: scval.Executable{Kind: scval.ExecutableWasm, WasmHash: util.Uint256{0xaa}},
		Storage:    storage,
	}
	xdr, err := inst.EntryXDR()
	require.NoError(t, err)

	live := uint32(1000)
	actual, err := DecodeContractInstance(&LedgerEntry{XDR: xdr, LiveUntilLedger: &live})
	require.NoError(t, err)
	require.Equal(t, inst.Contract, actual.Contract)
	require.Equal(t, inst.Executable, actual.Executable)
	require.True(t, storage.Equals(actual.Storage))
	require.Equal(t, live, actual.LiveUntilLedger)

	b, err := json.Marshal(actual)
	require.NoError(t, err)
	require.JSONEq(t, `{"contract":"`+inst.Contract.String()+`","executable":"wasm",`+
		`"wasm_hash":"`+inst.Executable.WasmHash.StringBE()+`",`+
		`"storage":{"admin":true,"count":3},"live_until_ledger":1000}`, string(b))

	asset := &ContractInstance{
		Contract:   *scval.NewContractAddress(util.Uint256{7}),
		Executable: scval.Executable{Kind: scval.ExecutableStellarAsset},
	}
	xdr, err = asset.EntryXDR()
	require.NoError(t, err)
	actual, err = DecodeContractInstance(&LedgerEntry{XDR: xdr})
	require.NoError(t, err)
	require.Nil(t, actual.Storage)
	require.Equal(t, scval.ExecutableStellarAsset, actual.Executable.Kind)

	k, err := keys.NewPrivateKey()
	require.NoError(t, err)
	accXDR, err := (&Account{ID: *k.PublicKey()}).EntryXDR()
	require.NoError(t, err)
	_, err = DecodeContractInstance(&LedgerEntry{XDR: accXDR})
	require.ErrorIs(t, err, ErrUnexpectedEntry)
}
