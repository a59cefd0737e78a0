/*
Package invoker provides a convenient wrapper to perform read-only contract
invocations via transaction simulation.

Invoker builds an unsigned transaction for the given contract call and
simulates it, nothing is ever signed or submitted, so the network state is
never changed. It doesn't do anything with the result of the simulation,
that's left for upper layers (unwrap package or contract bindings) to deal
with.
*/
package invoker

import (
	"context"

	"github.com/nspcc-dev/soroban-go/pkg/core/transaction"
	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
)

// RPCInvoke is a set of RPC methods needed to simulate contract calls.
type RPCInvoke interface {
	SimulateTransaction(ctx context.Context, tx *transaction.Transaction) (*result.SimulateTransaction, error)
}

// Invoker allows to simulate contract calls using RPC client. Its API
// simplifies reusing the same source account for a series of invocations
// and at the same time uses regular Go types for call parameters.
type Invoker struct {
	client RPCInvoke
	source keys.PublicKey
}

// New creates an Invoker simulating calls on behalf of the given source
// account. Simulation doesn't require the account to exist unless the
// contract checks authorization of it.
func New(client RPCInvoke, source *keys.PublicKey) *Invoker {
	var inv = &Invoker{client: client}
	if source != nil {
		inv.source = *source
	}
	return inv
}

// Source returns the source account used for simulations.
func (v *Invoker) Source() *keys.PublicKey {
	pk := v.source
	return &pk
}

// Simulate simulates the given transaction and returns the result as is.
// Simulation failures are returned in the result Error field.
func (v *Invoker) Simulate(ctx context.Context, tx *transaction.Transaction) (*result.SimulateTransaction, error) {
	return v.client.SimulateTransaction(ctx, tx)
}

// Call simulates the method of the contract with the given parameters and
// returns the result as is. Parameters are converted with scval.Make.
func (v *Invoker) Call(ctx context.Context, contract *scval.Address, method string, params ...any) (*result.SimulateTransaction, error) {
	args, err := scval.MakeValues(params...)
	if err != nil {
		return nil, err
	}
	return v.Simulate(ctx, v.MakeCall(contract, method, args...))
}

// Query simulates the method of the contract and returns the decoded
// value it returns. Simulation failures are returned as errors.
func (v *Invoker) Query(ctx context.Context, contract *scval.Address, method string, params ...any) (scval.Value, error) {
	return unwrap.Item(v.Call(ctx, contract, method, params...))
}

// MakeCall returns an unsigned transaction with zero fee and sequence that
// calls the method of the contract, it's suitable for simulation only.
func (v *Invoker) MakeCall(contract *scval.Address, method string, args ...scval.Value) *transaction.Transaction {
	return transaction.New(v.Source(), contract, method, args)
}
