/*
Package actor provides a way to change contract state via RPC client.

This layer builds on top of the basic RPC client, [invoker] and [waiter]
packages, it simplifies creating, signing and sending transactions to the
network (since that's the only way contract state is changed). Every state
changing call goes through the same cycle: the source account sequence is
fetched, the call is simulated to get resource footprint and authorization
entries, the transaction is assembled, signed, submitted and then its status
is polled until it's final. Transient failures restart the cycle from the
account fetch for a limited number of times.

It's generic enough to be used for any contract and contract-specific
bindings can build on top of it.
*/
package actor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nspcc-dev/soroban-go/pkg/core/transaction"
	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/waiter"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
	"github.com/nspcc-dev/soroban-go/pkg/util"
	"go.uber.org/zap"
)

const (
	// DefaultBaseFee is the inclusion fee in stroops added to the resource
	// fee of every transaction.
	DefaultBaseFee int64 = 100000
	// DefaultAttempts is the default number of submission cycles made for a
	// single call.
	DefaultAttempts = 3
)

// RPCActor is an interface required from the RPC client to successfully
// create and send transactions.
type RPCActor interface {
	invoker.RPCInvoke
	waiter.RPCPollingBased

	// NetworkID returns the identifier of the network transactions are
	// signed for.
	NetworkID() (util.Uint256, error)
	GetAccount(ctx context.Context, address string) (*result.Account, error)
	SendTransaction(ctx context.Context, env *transaction.Envelope) (*result.SendTransaction, error)
}

// RPCRegistrar is an optional RPCActor extension that allows to create
// accounts on test networks.
type RPCRegistrar interface {
	RequestAirdrop(ctx context.Context, address string) error
}

// Actor keeps a connection to the RPC endpoint and allows to perform
// state-changing contract calls on behalf of a single signing identity. It
// also provides an Invoker interface to perform read-only calls (queries)
// with the same source account.
//
// Actor-specific APIs follow a simple naming scheme: "Make" prefix is used
// for methods that create transactions, while "Send" and "Call" are used by
// methods that transmit them to the RPC server. Notice that Call of the Actor performs a real
// state-changing call, the simulation-only variant is available via
// Invoker.Call.
//
// Actor also provides a Waiter interface to wait until transaction is
// executed. ErrContextDone is returned if the context is done before that.
type Actor struct {
	invoker.Invoker
	waiter.Waiter

	client    RPCActor
	key       *keys.PrivateKey
	networkID util.Uint256
	opts      Options
	log       *zap.Logger
	// retryDelay is the pause between submission cycles.
	retryDelay time.Duration
}

// Options are used to create Actor with non-standard fees, retry and
// polling settings.
type Options struct {
	// BaseFee is the inclusion fee, DefaultBaseFee if not set.
	BaseFee int64
	// MaxFee limits the total transaction fee, zero means no limit.
	MaxFee int64
	// Timeout sets the transaction deadline relative to its creation, zero
	// means no deadline.
	Timeout time.Duration
	// Attempts is the number of submission cycles, DefaultAttempts if not
	// set.
	Attempts int
	// PollConfig configures transaction status polling.
	PollConfig waiter.PollConfig
	// Modifier is applied to every simulated transaction before it's
	// signed.
	Modifier TransactionModifier
	// Classifier decides whether a failed submission is to be retried,
	// IsTransient if not set.
	Classifier Classifier
	// Logger is used for submission events, nop logger if not set.
	Logger *zap.Logger
}

// ErrContextDone is returned when the context is done at a retry or poll
// boundary.
var ErrContextDone = waiter.ErrContextDone

// NewDefaultOptions returns Options with default fees, retry and polling
// configuration.
func NewDefaultOptions() Options {
	return Options{
		BaseFee:    DefaultBaseFee,
		Attempts:   DefaultAttempts,
		Modifier:   DefaultModifier,
		Classifier: IsTransient,
		Logger:     zap.NewNop(),
	}
}

// New creates an Actor instance using the specified RPC interface and the
// signing key. The network identifier is requested from the RPC client
// once, so it must be initialized already. Zero values in opts are replaced
// with the defaults.
func New(ra RPCActor, key *keys.PrivateKey, opts Options) (*Actor, error) {
	if key == nil {
		return nil, errors.New("signing key is required")
	}
	netID, err := ra.NetworkID()
	if err != nil {
		return nil, fmt.Errorf("failed to get network ID: %w", err)
	}
	def := NewDefaultOptions()
	if opts.BaseFee <= 0 {
		opts.BaseFee = def.BaseFee
	}
	if opts.MaxFee < 0 {
		return nil, errors.New("negative fee limit")
	}
	if opts.Attempts <= 0 {
		opts.Attempts = def.Attempts
	}
	if opts.Modifier == nil {
		opts.Modifier = def.Modifier
	}
	if opts.Classifier == nil {
		opts.Classifier = def.Classifier
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}
	w := waiter.NewPollingBased(ra, opts.PollConfig)
	opts.PollConfig = w.Config()
	return &Actor{
		Invoker:    *invoker.New(ra, key.PublicKey()),
		Waiter:     w,
		client:     ra,
		key:        key,
		networkID:  netID,
		opts:       opts,
		log:        opts.Logger,
		retryDelay: opts.PollConfig.PollInterval,
	}, nil
}

// NewSimple creates an Actor with default Options.
func NewSimple(ra RPCActor, key *keys.PrivateKey) (*Actor, error) {
	return New(ra, key, Options{})
}

// NetworkID returns the identifier of the network transactions are signed
// for.
func (a *Actor) NetworkID() util.Uint256 {
	return a.networkID
}

// Options returns the effective Actor options.
func (a *Actor) Options() Options {
	return a.opts
}

// Sender returns the address of the source account used in transactions
// created by Actor.
func (a *Actor) Sender() string {
	return a.key.Address()
}

// Sign signs the transaction with the Actor key. The transaction must have
// the Actor account as a source.
func (a *Actor) Sign(tx *transaction.Transaction) (*transaction.Envelope, error) {
	if !tx.Source.Equal(a.key.PublicKey()) {
		return nil, fmt.Errorf("transaction source %s doesn't match signer %s", tx.Source.Address(), a.Sender())
	}
	return transaction.Sign(tx, a.key, a.networkID)
}

// Send sends the signed transaction to the network as is. Rejections are
// reported in the returned status, the error is only returned for failed
// requests.
func (a *Actor) Send(ctx context.Context, env *transaction.Envelope) (*result.SendTransaction, error) {
	return a.client.SendTransaction(ctx, env)
}
