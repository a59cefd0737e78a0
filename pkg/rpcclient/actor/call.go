package actor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nspcc-dev/soroban-go/pkg/core/transaction"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
	"github.com/nspcc-dev/soroban-go/pkg/util"
	"go.uber.org/zap"
)

// Status is the final status of a state-changing call.
type Status string

// Call statuses.
const (
	StatusSuccess  Status = "SUCCESS"
	StatusFailed   Status = "FAILED"
	StatusTimedOut Status = "TIMED_OUT"
)

// registerRetries is the number of airdrop retries made by Register.
const registerRetries = 2

// SubmissionResult is the outcome of a state-changing call that reached the
// network. Failed status covers both transactions rejected on submission
// and transactions executed unsuccessfully. TimedOut means the final status
// is unknown, the transaction still might be executed later.
type SubmissionResult struct {
	Status Status
	Hash   util.Uint256
	// ReturnValue is the decoded value returned by the contract, it's only
	// set for successful calls.
	ReturnValue scval.Value
	// Raw is the last getTransaction record, it's nil if the transaction
	// was rejected on submission or timed out.
	Raw *result.GetTransaction
	// Send is the sendTransaction result of the last attempt.
	Send *result.SendTransaction
	// Simulation is the simulation result of the last attempt.
	Simulation *result.SimulateTransaction
	// Reason is a human-readable failure description.
	Reason     string
	Code       transaction.ResultCode
	InvokeCode transaction.InvokeResultCode
	// Attempts is the number of submission cycles made.
	Attempts int
	Contract string
	Method   string
}

// Classifier decides whether the failed submission can be retried.
type Classifier func(*SubmissionResult) bool

// RetryState tracks the number of submission cycles left for a call.
type RetryState struct {
	AttemptsRemaining int
	// Attempt is the number of the current cycle, starting from 1.
	Attempt int
}

// NewRetryState returns RetryState allowing the given number of cycles.
func NewRetryState(attempts int) *RetryState {
	return &RetryState{AttemptsRemaining: attempts}
}

// Next starts the next cycle if there are any left.
func (s *RetryState) Next() bool {
	if s.AttemptsRemaining <= 0 {
		return false
	}
	s.AttemptsRemaining--
	s.Attempt++
	return true
}

// IsTransient is the default Classifier. Submissions rejected with
// TRY_AGAIN_LATER status or with txBAD_SEQ, txINSUFFICIENT_FEE or txTOO_LATE
// codes are transient, as well as transactions that failed because of
// outdated resource estimations. Timed out transactions are never retried
// since they still might be executed.
func IsTransient(r *SubmissionResult) bool {
	if r == nil || r.Status != StatusFailed {
		return false
	}
	if r.Send != nil {
		switch r.Send.Status {
		case sorobanrpc.SendStatusTryAgainLater:
			return true
		case sorobanrpc.SendStatusError:
			switch r.Code {
			case transaction.BadSeq, transaction.InsufficientFee, transaction.TooLate:
				return true
			}
			return false
		}
	}
	if r.Raw != nil && r.Raw.Status == sorobanrpc.TxStatusFailed {
		switch r.InvokeCode {
		case transaction.InvokeResourceLimitExceeded, transaction.InvokeInsufficientRefundableFee:
			return true
		}
	}
	return false
}

// Call performs a state-changing call of the method of the contract with
// the given parameters (see scval.Make for the list of supported types). The
// whole account fetch, simulation, signing, submission and polling cycle is
// repeated while the Classifier treats the outcome as transient and
// Options.Attempts allow. Conversion, simulation, fee limit and account
// errors are returned as errors, while any outcome of a submitted
// transaction is returned as SubmissionResult. ErrContextDone is returned
// if the context is done.
func (a *Actor) Call(ctx context.Context, contract *scval.Address, method string, params ...any) (*SubmissionResult, error) {
	args, err := scval.MakeValues(params...)
	if err != nil {
		return nil, err
	}
	var (
		res *SubmissionResult
		rs  = NewRetryState(a.opts.Attempts)
		log = a.log.With(zap.Stringer("contract", contract), zap.String("method", method))
	)
	for rs.Next() {
		if ctx.Err() != nil {
			return nil, contextDone(ctx)
		}
		addAttemptMetric()
		log.Debug("starting submission cycle",
			zap.Int("attempt", rs.Attempt),
			zap.Int("remaining", rs.AttemptsRemaining))

		res, err = a.submit(ctx, contract, method, args, log)
		if err != nil {
			if !errors.Is(err, ErrContextDone) && ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %w", contextDone(ctx), err)
			}
			return nil, err
		}
		res.Attempts = rs.Attempt
		if res.Status == StatusSuccess || rs.AttemptsRemaining == 0 || !a.opts.Classifier(res) {
			break
		}
		log.Warn("transient failure, retrying",
			zap.Stringer("hash", res.Hash),
			zap.String("reason", res.Reason),
			zap.Int("attempt", rs.Attempt))
		if err := a.pause(ctx); err != nil {
			return nil, err
		}
	}
	addResultMetric(res.Status)
	log.Info("call finished",
		zap.String("status", string(res.Status)),
		zap.Stringer("hash", res.Hash),
		zap.String("reason", res.Reason),
		zap.Int("attempts", res.Attempts))
	return res, nil
}

// submit performs a single submission cycle.
func (a *Actor) submit(ctx context.Context, contract *scval.Address, method string, args []scval.Value, log *zap.Logger) (*SubmissionResult, error) {
	env, sim, err := a.makeSigned(ctx, contract, method, args)
	if err != nil {
		return nil, err
	}
	h, err := env.Hash(a.networkID)
	if err != nil {
		return nil, err
	}
	res := &SubmissionResult{
		Hash:       h,
		Simulation: sim,
		Contract:   contract.String(),
		Method:     method,
	}
	send, err := a.Send(ctx, env)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	res.Send = send
	switch send.Status {
	case sorobanrpc.SendStatusPending, sorobanrpc.SendStatusDuplicate:
	case sorobanrpc.SendStatusError:
		res.Status = StatusFailed
		res.Reason = "rejected"
		r, err := send.Result()
		if err != nil {
			log.Debug("bad error result", zap.Error(err))
		} else if r != nil {
			res.setCodes(r)
		}
		return res, nil
	case sorobanrpc.SendStatusTryAgainLater:
		res.Status = StatusFailed
		res.Reason = sorobanrpc.SendStatusTryAgainLater
		return res, nil
	default:
		res.Status = StatusFailed
		res.Reason = fmt.Sprintf("unexpected send status %q", send.Status)
		return res, nil
	}

	start := time.Now()
	g, err := a.Wait(ctx, h)
	addPollTimeMetric(time.Since(start))
	switch {
	case errors.Is(err, ErrContextDone):
		return nil, err
	case err != nil:
		res.Status = StatusTimedOut
		res.Reason = err.Error()
		return res, nil
	}
	res.Raw = g
	r, err := g.Result()
	if err != nil {
		log.Debug("bad transaction result", zap.Error(err))
	} else if r != nil {
		res.setCodes(r)
	}
	if g.Status != sorobanrpc.TxStatusSuccess {
		res.Status = StatusFailed
		if res.Reason == "" {
			res.Reason = "transaction failed"
		}
		return res, nil
	}

	res.Status = StatusSuccess
	res.Reason = ""
	v, ok, err := g.Value()
	if err != nil {
		log.Warn("bad return value", zap.Error(err))
	}
	if !ok || err != nil {
		log.Debug("using simulated return value", zap.Stringer("hash", h))
		v, err = sim.ReturnValue()
		if err != nil {
			log.Debug("no simulated return value", zap.Error(err))
		}
	}
	res.ReturnValue = v
	return res, nil
}

func (r *SubmissionResult) setCodes(tr *transaction.Result) {
	r.Code = tr.Code
	if tr.HasInvoke {
		r.InvokeCode = tr.InvokeCode
	}
	r.Reason = tr.Reason()
}

// pause waits for the retry interval.
func (a *Actor) pause(ctx context.Context) error {
	t := time.NewTimer(a.retryDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return contextDone(ctx)
	}
}

func contextDone(ctx context.Context) error {
	return fmt.Errorf("%w: %w", ErrContextDone, ctx.Err())
}

// Register creates the Actor account via friendbot if the RPC client
// supports it. It's a best effort operation, failures are only logged.
func (a *Actor) Register(ctx context.Context) {
	log := a.log.With(zap.String("account", a.Sender()))
	r, ok := a.client.(RPCRegistrar)
	if !ok {
		log.Warn("account registration is not supported")
		return
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), registerRetries), ctx)
	err := backoff.Retry(func() error {
		return r.RequestAirdrop(ctx, a.Sender())
	}, b)
	if err != nil {
		log.Warn("account registration failed", zap.Error(err))
		return
	}
	log.Info("account registered")
}
