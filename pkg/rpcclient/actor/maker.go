package actor

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/nspcc-dev/soroban-go/pkg/core/transaction"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
)

// ErrRestoreRequired is returned (wrapped into SimulationError) when the
// simulation reports archived ledger entries that need to be restored
// before the call can be made.
var ErrRestoreRequired = errors.New("archived entries must be restored")

// TransactionModifier is a callback that receives the transaction after
// simulation results were applied to it and before it's signed. It can check
// fees and other fields of the transaction and return an error if there is
// anything wrong there which will abort the creation process. It also can
// modify Fee, TimeBounds and SorobanData taking full responsibility on the
// effects of these modifications (too small resource limits make the
// transaction fail on chain).
type TransactionModifier func(t *transaction.Transaction) error

// DefaultModifier is the default modifier, it does nothing.
func DefaultModifier(t *transaction.Transaction) error {
	return nil
}

// SimulationError is returned when the call simulation fails, nothing is
// submitted in this case.
type SimulationError struct {
	Contract string
	Method   string
	// Diagnostic is the error reported by the simulation.
	Diagnostic string
	// Events are base64-encoded diagnostic events.
	Events []string

	err error
}

// Error implements the error interface.
func (e *SimulationError) Error() string {
	return fmt.Sprintf("simulation of %s.%s failed: %s", e.Contract, e.Method, e.Diagnostic)
}

// Unwrap returns the underlying error if any.
func (e *SimulationError) Unwrap() error {
	return e.err
}

// FeeLimitError is returned when the transaction fee required exceeds the
// configured limit.
type FeeLimitError struct {
	Fee   int64
	Limit int64
}

// Error implements the error interface.
func (e *FeeLimitError) Error() string {
	return fmt.Sprintf("transaction fee %d exceeds the limit of %d", e.Fee, e.Limit)
}

// MakeUnsignedCall creates an unsigned transaction that calls the given
// method of the given contract with the given parameters (see scval.Make for
// the list of supported types). The transaction uses the next sequence
// number of the source account and the base fee, it's not simulated, so it
// can't be accepted by the network as is (see Prepare). Account fetch errors
// are returned unchanged.
func (a *Actor) MakeUnsignedCall(ctx context.Context, contract *scval.Address, method string, params ...any) (*transaction.Transaction, error) {
	args, err := scval.MakeValues(params...)
	if err != nil {
		return nil, err
	}
	return a.makeUnsigned(ctx, contract, method, args)
}

func (a *Actor) makeUnsigned(ctx context.Context, contract *scval.Address, method string, args []scval.Value) (*transaction.Transaction, error) {
	acc, err := a.client.GetAccount(ctx, a.Sender())
	if err != nil {
		return nil, err
	}
	tx := a.Invoker.MakeCall(contract, method, args...)
	tx.Sequence = acc.Sequence + 1
	tx.Fee = uint32(a.opts.BaseFee)
	tx.TimeBounds = transaction.NewTimeBounds(a.opts.Timeout)
	return tx, nil
}

// Prepare simulates the transaction and returns a copy of it with resources,
// authorization entries and fee values set from the simulation results. The
// original transaction is not changed. SimulationError is returned for
// failed simulations and FeeLimitError if the fee exceeds Options.MaxFee.
func (a *Actor) Prepare(ctx context.Context, tx *transaction.Transaction) (*transaction.Transaction, *result.SimulateTransaction, error) {
	sim, err := a.Simulate(ctx, tx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to simulate: %w", err)
	}
	var c, m = tx.Operation.Contract.String(), tx.Operation.Function
	if sim.Failed() {
		return nil, sim, &SimulationError{Contract: c, Method: m, Diagnostic: sim.Error, Events: sim.Events}
	}
	if sim.RestorePreamble != nil {
		return nil, sim, &SimulationError{Contract: c, Method: m, Diagnostic: ErrRestoreRequired.Error(), Events: sim.Events, err: ErrRestoreRequired}
	}
	sd, err := sim.SorobanData()
	if err != nil {
		return nil, sim, fmt.Errorf("bad simulation transaction data: %w", err)
	}
	auth, err := sim.AuthEntries()
	if err != nil {
		return nil, sim, fmt.Errorf("bad simulation auth: %w", err)
	}

	fee := a.opts.BaseFee + sim.MinResourceFee
	if a.opts.MaxFee > 0 && fee > a.opts.MaxFee {
		return nil, sim, &FeeLimitError{Fee: fee, Limit: a.opts.MaxFee}
	}
	if fee > math.MaxUint32 {
		return nil, sim, &FeeLimitError{Fee: fee, Limit: math.MaxUint32}
	}

	res := tx.Copy()
	res.SorobanData = sd
	if len(res.Operation.Auth) == 0 {
		res.Operation.Auth = auth
	}
	res.Fee = uint32(fee)
	return res, sim, nil
}

// MakeCall creates a signed transaction that calls the given method of the
// given contract with the given parameters. It's simulated (see Prepare),
// filtered through the Actor-configured TransactionModifier and signed. The
// simulation result is returned along with the envelope.
func (a *Actor) MakeCall(ctx context.Context, contract *scval.Address, method string, params ...any) (*transaction.Envelope, *result.SimulateTransaction, error) {
	args, err := scval.MakeValues(params...)
	if err != nil {
		return nil, nil, err
	}
	return a.makeSigned(ctx, contract, method, args)
}

func (a *Actor) makeSigned(ctx context.Context, contract *scval.Address, method string, args []scval.Value) (*transaction.Envelope, *result.SimulateTransaction, error) {
	tx, err := a.makeUnsigned(ctx, contract, method, args)
	if err != nil {
		return nil, nil, err
	}
	tx, sim, err := a.Prepare(ctx, tx)
	if err != nil {
		return nil, sim, err
	}
	err = a.opts.Modifier(tx)
	if err != nil {
		return nil, sim, err
	}
	env, err := a.Sign(tx)
	if err != nil {
		return nil, sim, err
	}
	return env, sim, nil
}
