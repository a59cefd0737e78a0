/*
Package waiter provides a way to await transaction results.

Soroban RPC has no subscriptions, so the only real Waiter here is polling
based: it periodically asks getTransaction for the transaction status until
the node reports some final one or the attempt budget is exhausted.
*/
package waiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
	"github.com/nspcc-dev/soroban-go/pkg/util"
)

const (
	// DefaultPollAttempts is the default number of getTransaction queries
	// made for a single transaction.
	DefaultPollAttempts = 15
	// DefaultPollInterval is the default time between subsequent
	// getTransaction queries.
	DefaultPollInterval = time.Second
	// DefaultPollRetryCount is a threshold for a number of subsequent failed
	// attempts to get transaction status from the RPC server for PollingBased.
	// If it fails DefaultPollRetryCount times in a row then transaction
	// awaiting attempt is considered to be failed and an error is returned.
	DefaultPollRetryCount = 3
)

var (
	// ErrTxNotAccepted is returned when transaction wasn't reported as
	// executed by the node even after all poll attempts were made.
	ErrTxNotAccepted = errors.New("transaction was not accepted to chain")
	// ErrContextDone is returned when Waiter context has been done in the middle
	// of transaction awaiting process and no result was received yet.
	ErrContextDone = errors.New("waiter context done")
	// ErrAwaitingNotSupported is returned from Wait method if Waiter instance
	// doesn't support transaction awaiting. It's compatible with [errors.ErrUnsupported].
	ErrAwaitingNotSupported = fmt.Errorf("%w: awaiting", errors.ErrUnsupported)
)

type (
	// Waiter is an interface providing transaction awaiting functionality.
	Waiter interface {
		// Wait allows to wait until transaction will be executed by the
		// network. It returns the final (SUCCESS or FAILED) getTransaction
		// record or an error if no final status was obtained.
		Wait(ctx context.Context, h util.Uint256) (*result.GetTransaction, error)
	}
	// RPCPollingBased is an interface that enables transaction awaiting
	// functionality based on periodical getTransaction polls.
	RPCPollingBased interface {
		GetTransaction(ctx context.Context, hash util.Uint256) (*result.GetTransaction, error)
	}
)

// Null is a Waiter stub that doesn't support transaction awaiting functionality.
type Null struct{}

// PollingBased is a polling-based Waiter.
type PollingBased struct {
	polling RPCPollingBased
	config  PollConfig
}

// PollConfig is a configuration for PollingBased waiter.
type PollConfig struct {
	// Attempts is the number of getTransaction queries made before giving
	// up with ErrTxNotAccepted, DefaultPollAttempts if not set.
	Attempts int `yaml:"Attempts"`
	// PollInterval is a time interval between subsequent polls,
	// DefaultPollInterval if not set.
	PollInterval time.Duration `yaml:"PollInterval"`
	// RetryCount is the number of subsequent failed queries tolerated
	// before an error is returned from Wait.
	RetryCount int `yaml:"RetryCount"`
}

// New creates Waiter instance. It's polling-based if base implements
// RPCPollingBased and a stub otherwise.
func New(base any, config PollConfig) Waiter {
	if pollW, ok := base.(RPCPollingBased); ok {
		return NewPollingBased(pollW, config)
	}
	return NewNull()
}

// NewNull creates an instance of Waiter stub.
func NewNull() Null {
	return Null{}
}

// Wait implements Waiter interface.
func (Null) Wait(context.Context, util.Uint256) (*result.GetTransaction, error) {
	return nil, ErrAwaitingNotSupported
}

// NewPollingBased creates an instance of Waiter supporting poll-based
// transaction awaiting. Unset config fields get their default values.
func NewPollingBased(waiter RPCPollingBased, config PollConfig) *PollingBased {
	return &PollingBased{
		polling: waiter,
		config:  config.withDefaults(),
	}
}

func (c PollConfig) withDefaults() PollConfig {
	if c.Attempts <= 0 {
		c.Attempts = DefaultPollAttempts
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.RetryCount <= 0 {
		c.RetryCount = DefaultPollRetryCount
	}
	return c
}

// Config returns the effective waiter configuration.
func (w *PollingBased) Config() PollConfig {
	return w.config
}

// Wait implements Waiter interface. It makes at most Attempts queries
// separated by PollInterval. NOT_FOUND status means the transaction is not
// yet executed, so polling continues. Failed queries count as attempts too.
func (w *PollingBased) Wait(ctx context.Context, h util.Uint256) (*result.GetTransaction, error) {
	var failedAttempt int

	timer := time.NewTicker(w.config.PollInterval)
	defer timer.Stop()
	for attempt := 1; ; attempt++ {
		res, err := w.polling.GetTransaction(ctx, h)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %w", ErrContextDone, ctx.Err())
			}
			failedAttempt++
			if failedAttempt > w.config.RetryCount {
				return nil, fmt.Errorf("failed to retrieve transaction status: %w", err)
			}
		case res.Status == sorobanrpc.TxStatusSuccess, res.Status == sorobanrpc.TxStatusFailed:
			return res, nil
		default:
			failedAttempt = 0
		}
		if attempt >= w.config.Attempts {
			return nil, ErrTxNotAccepted
		}
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrContextDone, ctx.Err())
		}
	}
}
