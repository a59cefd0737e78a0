/*
Package token provides a convenience wrapper for SEP-41 token contracts.

SEP-41 is the standard Soroban token interface implemented by Stellar asset
contracts and by custom token contracts. TokenReader provides read-only
methods (they're simulated, so they don't cost anything) while Token adds
state-changing ones performed via actor.
*/
package token

import (
	"context"
	"math/big"

	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
)

// MaxValidDecimals is the maximum value 'decimals' contract method can
// return to be considered as valid. It's log10(2^127), higher values don't
// make any sense for i128 amounts.
const MaxValidDecimals = 38

// Invoker is used by TokenReader to call various safe methods.
type Invoker interface {
	Call(ctx context.Context, contract *scval.Address, method string, params ...any) (*result.SimulateTransaction, error)
}

// Actor is used by Token to call state-changing methods.
type Actor interface {
	Call(ctx context.Context, contract *scval.Address, method string, params ...any) (*actor.SubmissionResult, error)
}

// TokenReader represents safe (read-only) methods of SEP-41 token. It can be
// used to query various data.
type TokenReader struct {
	invoker  Invoker
	contract *scval.Address
}

// Token provides full SEP-41 interface, both safe and state-changing
// methods, including admin ones implemented by Stellar asset contracts.
type Token struct {
	TokenReader

	actor Actor
}

// NewReader creates an instance of TokenReader for the contract with the
// given address using the given Invoker.
func NewReader(invoker Invoker, contract *scval.Address) *TokenReader {
	return &TokenReader{invoker, contract}
}

// New creates an instance of Token for the contract with the given address.
// Reads are simulated with the invoker, everything else is sent with the
// actor (which usually share the source account, like actor.Actor and its
// Invoker).
func New(invoker Invoker, act Actor, contract *scval.Address) *Token {
	return &Token{TokenReader{invoker, contract}, act}
}

// Contract returns the token contract address.
func (t *TokenReader) Contract() *scval.Address {
	return t.contract
}

// Decimals returns the number of decimals used by the token. Values more
// than MaxValidDecimals are considered to be invalid.
func (t *TokenReader) Decimals(ctx context.Context) (int, error) {
	r, err := t.invoker.Call(ctx, t.contract, "decimals")
	dec, err := unwrap.LimitedInt64(r, err, 0, MaxValidDecimals)
	return int(dec), err
}

// Name returns the token name.
func (t *TokenReader) Name(ctx context.Context) (string, error) {
	return unwrap.UTF8String(t.invoker.Call(ctx, t.contract, "name"))
}

// Symbol returns the token symbol (like "USDC").
func (t *TokenReader) Symbol(ctx context.Context) (string, error) {
	return unwrap.UTF8String(t.invoker.Call(ctx, t.contract, "symbol"))
}

// Balance returns the token balance of the given address (with decimals).
func (t *TokenReader) Balance(ctx context.Context, id *scval.Address) (*big.Int, error) {
	return unwrap.BigInt(t.invoker.Call(ctx, t.contract, "balance", id))
}

// Allowance returns the amount spender is allowed to transfer from the
// given address.
func (t *TokenReader) Allowance(ctx context.Context, from *scval.Address, spender *scval.Address) (*big.Int, error) {
	return unwrap.BigInt(t.invoker.Call(ctx, t.contract, "allowance", from, spender))
}

// Admin returns the token administrator, it's only implemented by admin
// enabled tokens like Stellar asset contracts.
func (t *TokenReader) Admin(ctx context.Context) (*scval.Address, error) {
	return unwrap.Address(t.invoker.Call(ctx, t.contract, "admin"))
}

// Transfer transfers amount of tokens from one address to another, from
// must authorize the call.
func (t *Token) Transfer(ctx context.Context, from *scval.Address, to *scval.Address, amount *big.Int) (*actor.SubmissionResult, error) {
	return t.actor.Call(ctx, t.contract, "transfer", from, to, amount)
}

// TransferFrom transfers amount of tokens from one address to another using
// spender allowance.
func (t *Token) TransferFrom(ctx context.Context, spender *scval.Address, from *scval.Address, to *scval.Address, amount *big.Int) (*actor.SubmissionResult, error) {
	return t.actor.Call(ctx, t.contract, "transfer_from", spender, from, to, amount)
}

// Approve sets the amount spender is allowed to transfer from the given
// address until expirationLedger.
func (t *Token) Approve(ctx context.Context, from *scval.Address, spender *scval.Address, amount *big.Int, expirationLedger uint32) (*actor.SubmissionResult, error) {
	return t.actor.Call(ctx, t.contract, "approve", from, spender, amount, expirationLedger)
}

// Burn destroys amount of tokens owned by from.
func (t *Token) Burn(ctx context.Context, from *scval.Address, amount *big.Int) (*actor.SubmissionResult, error) {
	return t.actor.Call(ctx, t.contract, "burn", from, amount)
}

// BurnFrom destroys amount of tokens owned by from using spender allowance.
func (t *Token) BurnFrom(ctx context.Context, spender *scval.Address, from *scval.Address, amount *big.Int) (*actor.SubmissionResult, error) {
	return t.actor.Call(ctx, t.contract, "burn_from", spender, from, amount)
}

// Mint creates amount of new tokens for the given address, it requires
// administrator authorization.
func (t *Token) Mint(ctx context.Context, to *scval.Address, amount *big.Int) (*actor.SubmissionResult, error) {
	return t.actor.Call(ctx, t.contract, "mint", to, amount)
}

// SetAdmin changes the token administrator.
func (t *Token) SetAdmin(ctx context.Context, admin *scval.Address) (*actor.SubmissionResult, error) {
	return t.actor.Call(ctx, t.contract, "set_admin", admin)
}
