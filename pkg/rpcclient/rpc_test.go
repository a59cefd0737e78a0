package rpcclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nspcc-dev/soroban-go/pkg/core/transaction"
	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
	"github.com/nspcc-dev/soroban-go/pkg/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func testMintTx(t *testing.T) (*transaction.Transaction, *keys.PrivateKey) {
	k, err := keys.NewPrivateKey()
	require.NoError(t, err)
	tx := transaction.New(k.PublicKey(), scval.NewContractAddress(util.Uint256{1}), "mint",
		[]scval.Value{scval.NewAccountAddress(k.PublicKey()), scval.I128FromInt64(100_000_000_000)})
	tx.Fee = 100
	tx.Sequence = 2
	return tx, k
}

func TestSimpleMethods(t *testing.T) {
	h := newMethodHandler(map[string]any{
		"getHealth":       map[string]any{"status": "healthy", "latestLedger": 50, "oldestLedger": 1, "ledgerRetentionWindow": 17280},
		"getNetwork":      map[string]any{"passphrase": testPassphrase, "protocolVersion": 21},
		"getLatestLedger": map[string]any{"id": "ab01", "protocolVersion": 21, "sequence": 77},
	})
	c := newTestClient(t, initTestServer(t, h.handle), Options{})
	ctx := context.Background()

	health, err := c.GetHealth(ctx)
	require.NoError(t, err)
	require.Equal(t, &result.Health{Status: "healthy", LatestLedger: 50, OldestLedger: 1, LedgerRetentionWindow: 17280}, health)

	network, err := c.GetNetwork(ctx)
	require.NoError(t, err)
	require.Equal(t, &result.Network{Passphrase: testPassphrase, ProtocolVersion: 21}, network)

	latest, err := c.GetLatestLedger(ctx)
	require.NoError(t, err)
	require.Equal(t, &result.LatestLedger{ID: "ab01", ProtocolVersion: 21, Sequence: 77}, latest)

	// Parameterless methods don't send params.
	require.Nil(t, h.params["getHealth"][0])
}

func TestTransactionMethods(t *testing.T) {
	ret, err := scval.ToBase64(scval.Void{})
	require.NoError(t, err)
	h := newMethodHandler(map[string]any{
		"simulateTransaction": map[string]any{
			"minResourceFee": "1000",
			"results":        []any{map[string]any{"xdr": ret, "auth": []string{}}},
			"cost":           map[string]any{"cpuInsns": "100", "memBytes": "200"},
			"latestLedger":   10,
		},
		"sendTransaction": map[string]any{
			"status":                "PENDING",
			"hash":                  "0f",
			"latestLedger":          10,
			"latestLedgerCloseTime": "1700000000",
		},
		"getTransaction": map[string]any{
			"status":                "NOT_FOUND",
			"latestLedger":          11,
			"latestLedgerCloseTime": "1700000005",
		},
	})
	c := newTestClient(t, initTestServer(t, h.handle), Options{})
	ctx := context.Background()
	tx, k := testMintTx(t)

	sim, err := c.SimulateTransaction(ctx, tx)
	require.NoError(t, err)
	require.Equal(t, int64(1000), sim.MinResourceFee)
	v, err := sim.ReturnValue()
	require.NoError(t, err)
	require.Equal(t, scval.VoidT, v.Type())

	var params sorobanrpc.TransactionParams
	require.NoError(t, json.Unmarshal(h.params["simulateTransaction"][0], &params))
	env, err := transaction.EnvelopeFromBase64(params.Transaction)
	require.NoError(t, err)
	require.Empty(t, env.Signatures)
	require.Equal(t, "mint", env.Tx.Operation.Function)

	netID := transaction.NetworkID(testPassphrase)
	signed, err := transaction.Sign(tx, k, netID)
	require.NoError(t, err)
	sent, err := c.SendTransaction(ctx, signed)
	require.NoError(t, err)
	require.Equal(t, sorobanrpc.SendStatusPending, sent.Status)
	require.NoError(t, json.Unmarshal(h.params["sendTransaction"][0], &params))
	env, err = transaction.EnvelopeFromBase64(params.Transaction)
	require.NoError(t, err)
	require.True(t, env.Verify(k.PublicKey(), netID))

	hash, err := tx.Hash(netID)
	require.NoError(t, err)
	got, err := c.GetTransaction(ctx, hash)
	require.NoError(t, err)
	require.Equal(t, sorobanrpc.TxStatusNotFound, got.Status)
	var hp sorobanrpc.HashParams
	require.NoError(t, json.Unmarshal(h.params["getTransaction"][0], &hp))
	require.Equal(t, hash.StringBE(), hp.Hash)

	_, err = c.SendTransaction(ctx, &transaction.Envelope{})
	require.Error(t, err)
	require.Equal(t, 1, h.count("sendTransaction"))
}

func TestGetAccount(t *testing.T) {
	k, err := keys.NewPrivateKey()
	require.NoError(t, err)
	acc := &result.Account{ID: *k.PublicKey(), Balance: 10_000_0000000, Sequence: 8589934592}
	xdr, err := acc.EntryXDR()
	require.NoError(t, err)
	expectedKeyLK := transaction.NewAccountKey(k.PublicKey())
	expectedKey, err := expectedKeyLK.Base64()
	require.NoError(t, err)

	var exists = true
	h := newMethodHandler(map[string]any{
		"getLedgerEntries": func() any {
			if !exists {
				return map[string]any{"entries": []any{}, "latestLedger": 5}
			}
			return map[string]any{
				"entries":      []any{map[string]any{"key": expectedKey, "xdr": xdr, "lastModifiedLedgerSeq": 3}},
				"latestLedger": 5,
			}
		},
	})
	c := newTestClient(t, initTestServer(t, h.handle), Options{})
	ctx := context.Background()

	actual, err := c.GetAccount(ctx, k.Address())
	require.NoError(t, err)
	require.Equal(t, acc, actual)

	var params sorobanrpc.LedgerEntriesParams
	require.NoError(t, json.Unmarshal(h.params["getLedgerEntries"][0], &params))
	require.Equal(t, []string{expectedKey}, params.Keys)

	exists = false
	_, err = c.GetAccount(ctx, k.Address())
	require.ErrorIs(t, err, ErrAccountNotFound)

	_, err = c.GetAccount(ctx, "GABC")
	require.Error(t, err)
	require.Equal(t, 2, h.count("getLedgerEntries"))
}

func TestGetContractInstance(t *testing.T) {
	contract := scval.NewContractAddress(util.Uint256{0xc0})
	inst := &result.ContractInstance{
		Contract:   *contract,
		Executable: scval.Executable{Kind: scval.ExecutableWasm, WasmHash: util.Uint256{0xee}},
	}
	xdr, err := inst.EntryXDR()
	require.NoError(t, err)
	asset := scval.NewContractAddress(util.Uint256{0xa5})
	assetXDR, err := (&result.ContractInstance{
		Contract:   *asset,
		Executable: scval.Executable{Kind: scval.ExecutableStellarAsset},
	}).EntryXDR()
	require.NoError(t, err)
	assetKeyLK := transaction.NewContractInstanceKey(asset)
	assetKey, err := assetKeyLK.Base64()
	require.NoError(t, err)
	missingKeyLK := transaction.NewContractInstanceKey(scval.NewContractAddress(util.Uint256{}))
	missingKey, err := missingKeyLK.Base64()
	require.NoError(t, err)

	srv := initTestServer(t, func(r *testRequest) (any, *sorobanrpc.Error) {
		var p sorobanrpc.LedgerEntriesParams
		if err := json.Unmarshal(r.Params, &p); err != nil || len(p.Keys) != 1 {
			return nil, sorobanrpc.ErrInvalidParams
		}
		switch p.Keys[0] {
		case assetKey:
			return map[string]any{"entries": []any{map[string]any{"key": p.Keys[0], "xdr": assetXDR}}}, nil
		case missingKey:
			return map[string]any{"entries": []any{}}, nil
		default:
			return map[string]any{"entries": []any{map[string]any{"key": p.Keys[0], "xdr": xdr, "liveUntilLedgerSeq": 500}}}, nil
		}
	})
	var calls int
	c := newTestClient(t, srv, Options{CacheSize: 2})
	next := c.requestF
	c.requestF = func(ctx context.Context, r *sorobanrpc.Request) (*sorobanrpc.Response, error) {
		calls++
		return next(ctx, r)
	}
	ctx := context.Background()

	actual, err := c.GetContractInstance(ctx, contract)
	require.NoError(t, err)
	require.Equal(t, inst.Executable, actual.Executable)
	require.Equal(t, uint32(500), actual.LiveUntilLedger)
	require.Equal(t, 1, calls)

	h, err := c.GetContractWasmHash(ctx, contract)
	require.NoError(t, err)
	require.Equal(t, util.Uint256{0xee}, h)
	require.Equal(t, 1, calls) // Cached.

	_, err = c.GetContractWasmHash(ctx, asset)
	require.ErrorContains(t, err, "stellar_asset")
	require.Equal(t, 2, calls)

	_, err = c.GetContractInstance(ctx, scval.NewContractAddress(util.Uint256{}))
	require.ErrorIs(t, err, ErrContractNotFound)

	k, err := keys.NewPrivateKey()
	require.NoError(t, err)
	_, err = c.GetContractInstance(ctx, scval.NewAccountAddress(k.PublicKey()))
	require.Error(t, err)
	require.Equal(t, 3, calls)
}

func TestRequestAirdrop(t *testing.T) {
	var lastAddr = atomic.NewString("")
	fb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		addr := req.URL.Query().Get("addr")
		lastAddr.Store(addr)
		switch {
		case strings.HasPrefix(addr, "GEXIST"):
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"op_already_exists","extras":{"result_codes":{"operations":["createAccountAlreadyExist"]}}}`))
		case strings.HasPrefix(addr, "GBAD"):
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"invalid address"}`))
		case strings.HasPrefix(addr, "GDOWN"):
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`{"hash":"00"}`))
		}
	}))
	t.Cleanup(fb.Close)
	rpc := initTestServer(t, func(r *testRequest) (any, *sorobanrpc.Error) { return nil, nil })
	ctx := context.Background()

	c := newTestClient(t, rpc, Options{})
	require.ErrorIs(t, c.RequestAirdrop(ctx, "GNEW"), ErrNoFriendbot)

	c = newTestClient(t, rpc, Options{FriendbotURL: fb.URL + "/friendbot"})
	require.NoError(t, c.RequestAirdrop(ctx, "GNEW"))
	require.Equal(t, "GNEW", lastAddr.Load())
	require.NoError(t, c.RequestAirdrop(ctx, "GEXIST"))
	require.Error(t, c.RequestAirdrop(ctx, "GBAD"))
	require.ErrorContains(t, c.RequestAirdrop(ctx, "GDOWN"), "HTTP 500")
}
