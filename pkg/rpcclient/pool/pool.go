/*
Package pool provides a wrapper for lending pool contracts.

The pool keeps reserves of assets that accounts deposit (getting s-tokens
in return) and borrow against their collateral (getting debt tokens). Its
most frequently needed read method is account_position returning the
AccountPosition record.
*/
package pool

import (
	"context"
	"math/big"

	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
)

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(ctx context.Context, contract *scval.Address, method string, params ...any) (*result.SimulateTransaction, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Call(ctx context.Context, contract *scval.Address, method string, params ...any) (*actor.SubmissionResult, error)
}

// AccountPosition is the aggregated position of an account in the pool,
// all values are denominated in the pool base asset. Negative NPV means
// the account can be liquidated.
type AccountPosition struct {
	DiscountedCollateral *big.Int
	Debt                 *big.Int
	NPV                  *big.Int
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker  Invoker
	contract *scval.Address
}

// Contract provides both safe and state-changing pool methods.
type Contract struct {
	ContractReader

	actor Actor
}

var positionFields = []string{"discounted_collateral", "debt", "npv"}

// ToValue implements scval.Convertible interface.
func (p *AccountPosition) ToValue() (scval.Value, error) {
	var vals = make([]scval.Value, 0, len(positionFields))
	for _, n := range []*big.Int{p.DiscountedCollateral, p.Debt, p.NPV} {
		if n == nil {
			n = new(big.Int)
		}
		v, err := scval.NewI128(n)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return scval.NewMapWithSymbols(positionFields, vals), nil
}

// FromValue implements scval.Convertible interface. Fields are matched by
// name, so their order in the map doesn't matter.
func (p *AccountPosition) FromValue(v scval.Value) error {
	m, err := scval.TryMap(v)
	if err != nil {
		return err
	}
	var res = make([]*big.Int, len(positionFields))
	for i, name := range positionFields {
		f, err := m.Field(name)
		if err != nil {
			return err
		}
		res[i], err = scval.TryBigInt(f)
		if err != nil {
			return err
		}
	}
	p.DiscountedCollateral, p.Debt, p.NPV = res[0], res[1], res[2]
	return nil
}

// NewReader creates an instance of ContractReader for the pool with the
// given address using the given Invoker.
func NewReader(invoker Invoker, contract *scval.Address) *ContractReader {
	return &ContractReader{invoker, contract}
}

// New creates an instance of Contract for the pool with the given address.
func New(invoker Invoker, act Actor, contract *scval.Address) *Contract {
	return &Contract{ContractReader{invoker, contract}, act}
}

// AccountPosition invokes `account_position` method of the contract.
func (c *ContractReader) AccountPosition(ctx context.Context, who *scval.Address) (*AccountPosition, error) {
	var p = new(AccountPosition)
	r, err := c.invoker.Call(ctx, c.contract, "account_position", who)
	err = unwrap.Record(r, err, p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Version invokes `version` method of the contract.
func (c *ContractReader) Version(ctx context.Context) (uint32, error) {
	return unwrap.U32(c.invoker.Call(ctx, c.contract, "version"))
}

// Paused invokes `paused` method of the contract.
func (c *ContractReader) Paused(ctx context.Context) (bool, error) {
	return unwrap.Bool(c.invoker.Call(ctx, c.contract, "paused"))
}

// Treasury invokes `treasury` method of the contract.
func (c *ContractReader) Treasury(ctx context.Context) (*scval.Address, error) {
	return unwrap.Address(c.invoker.Call(ctx, c.contract, "treasury"))
}

// CollatCoeff invokes `collat_coeff` method of the contract.
func (c *ContractReader) CollatCoeff(ctx context.Context, asset *scval.Address) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(ctx, c.contract, "collat_coeff", asset))
}

// DebtCoeff invokes `debt_coeff` method of the contract.
func (c *ContractReader) DebtCoeff(ctx context.Context, asset *scval.Address) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(ctx, c.contract, "debt_coeff", asset))
}

// STokenUnderlyingBalance invokes `stoken_underlying_balance` method of the
// contract.
func (c *ContractReader) STokenUnderlyingBalance(ctx context.Context, stoken *scval.Address) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(ctx, c.contract, "stoken_underlying_balance", stoken))
}

// Deposit invokes `deposit` method of the contract.
func (c *Contract) Deposit(ctx context.Context, who *scval.Address, asset *scval.Address, amount *big.Int) (*actor.SubmissionResult, error) {
	return c.actor.Call(ctx, c.contract, "deposit", who, asset, amount)
}

// Withdraw invokes `withdraw` method of the contract.
func (c *Contract) Withdraw(ctx context.Context, who *scval.Address, asset *scval.Address, amount *big.Int, to *scval.Address) (*actor.SubmissionResult, error) {
	return c.actor.Call(ctx, c.contract, "withdraw", who, asset, amount, to)
}

// Borrow invokes `borrow` method of the contract.
func (c *Contract) Borrow(ctx context.Context, who *scval.Address, asset *scval.Address, amount *big.Int) (*actor.SubmissionResult, error) {
	return c.actor.Call(ctx, c.contract, "borrow", who, asset, amount)
}

// Repay invokes `repay` method of the contract.
func (c *Contract) Repay(ctx context.Context, who *scval.Address, asset *scval.Address, amount *big.Int) (*actor.SubmissionResult, error) {
	return c.actor.Call(ctx, c.contract, "repay", who, asset, amount)
}

// Liquidate invokes `liquidate` method of the contract.
func (c *Contract) Liquidate(ctx context.Context, liquidator *scval.Address, who *scval.Address, receiveSToken bool) (*actor.SubmissionResult, error) {
	return c.actor.Call(ctx, c.contract, "liquidate", liquidator, who, receiveSToken)
}

// SetPause invokes `set_pause` method of the contract.
func (c *Contract) SetPause(ctx context.Context, value bool) (*actor.SubmissionResult, error) {
	return c.actor.Call(ctx, c.contract, "set_pause", value)
}
