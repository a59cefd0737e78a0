package invoker

import (
	"context"
	"errors"
	"testing"

	"github.com/nspcc-dev/soroban-go/pkg/core/transaction"
	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
	"github.com/nspcc-dev/soroban-go/pkg/util"
	"github.com/stretchr/testify/require"
)

type rpcInv struct {
	res *result.SimulateTransaction
	err error
	txs []*transaction.Transaction
}

func (r *rpcInv) SimulateTransaction(ctx context.Context, tx *transaction.Transaction) (*result.SimulateTransaction, error) {
	r.txs = append(r.txs, tx)
	return r.res, r.err
}

func TestInvoker(t *testing.T) {
	resExp := &result.SimulateTransaction{LatestLedger: 5}
	ri := &rpcInv{res: resExp}
	k, err := keys.NewPrivateKey()
	require.NoError(t, err)
	contract := scval.NewContractAddress(util.Uint256{1})
	inv := New(ri, k.PublicKey())
	require.Equal(t, k.PublicKey(), inv.Source())

	res, err := inv.Call(context.Background(), contract, "balance", scval.NewAccountAddress(k.PublicKey()), uint32(7))
	require.NoError(t, err)
	require.Equal(t, resExp, res)
	require.Len(t, ri.txs, 1)
	tx := ri.txs[0]
	require.Equal(t, *k.PublicKey(), tx.Source)
	require.Equal(t, int64(0), tx.Sequence)
	require.Nil(t, tx.SorobanData)
	require.Equal(t, "balance", tx.Operation.Function)
	require.True(t, contract.Equals(&tx.Operation.Contract))
	require.Equal(t, []scval.Value{scval.NewAccountAddress(k.PublicKey()), scval.U32(7)}, tx.Operation.Args)

	res, err = inv.Simulate(context.Background(), tx)
	require.NoError(t, err)
	require.Equal(t, resExp, res)

	_, err = inv.Call(context.Background(), contract, "balance", 1.5)
	require.ErrorIs(t, err, scval.ErrInvalidConversion)
	require.Len(t, ri.txs, 1)

	ri.err = errors.New("connection refused")
	_, err = inv.Call(context.Background(), contract, "balance")
	require.Error(t, err)
	require.Len(t, ri.txs, 2)

	inv = New(ri, nil)
	require.Equal(t, keys.PublicKey{}, *inv.Source())
}

func TestInvokerQuery(t *testing.T) {
	contract := scval.NewContractAddress(util.Uint256{2})
	xdr, err := scval.ToBase64(scval.I128FromInt64(1000))
	require.NoError(t, err)
	ri := &rpcInv{res: &result.SimulateTransaction{Results: []result.SimulateResult{{XDR: xdr}}}}
	inv := New(ri, nil)

	v, err := inv.Query(context.Background(), contract, "decimals")
	require.NoError(t, err)
	require.True(t, scval.I128FromInt64(1000).Equals(v))

	ri.res = &result.SimulateTransaction{Error: "HostError: Error(Contract, #1)"}
	_, err = inv.Query(context.Background(), contract, "decimals")
	require.ErrorContains(t, err, "Error(Contract, #1)")
}
