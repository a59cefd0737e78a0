package actor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nspcc-dev/soroban-go/pkg/core/transaction"
	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/waiter"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
	"github.com/nspcc-dev/soroban-go/pkg/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testNetID = transaction.NetworkID("Test SDF Network ; September 2015")

type RPCClient struct {
	lock sync.Mutex

	netErr  error
	account *result.Account
	accErr  error
	sim     *result.SimulateTransaction
	simErr  error
	send    *result.SendTransaction
	sendErr error
	// get returns getTransaction result for the n-th (from 0) call.
	get     func(n int) *result.GetTransaction
	getErr  error
	dropErr error

	simTxs   []*transaction.Transaction
	sent     []*transaction.Envelope
	getCalls int
	drops    int
}

func (r *RPCClient) NetworkID() (util.Uint256, error) {
	return testNetID, r.netErr
}

func (r *RPCClient) GetAccount(ctx context.Context, address string) (*result.Account, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.accErr != nil {
		return nil, r.accErr
	}
	acc := *r.account
	return &acc, nil
}

func (r *RPCClient) SimulateTransaction(ctx context.Context, tx *transaction.Transaction) (*result.SimulateTransaction, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.simTxs = append(r.simTxs, tx)
	return r.sim, r.simErr
}

func (r *RPCClient) SendTransaction(ctx context.Context, env *transaction.Envelope) (*result.SendTransaction, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.sent = append(r.sent, env)
	if r.sendErr != nil {
		return nil, r.sendErr
	}
	s := *r.send
	return &s, nil
}

func (r *RPCClient) GetTransaction(ctx context.Context, hash util.Uint256) (*result.GetTransaction, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	n := r.getCalls
	r.getCalls++
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.get == nil {
		return &result.GetTransaction{Status: sorobanrpc.TxStatusNotFound}, nil
	}
	return r.get(n), nil
}

type registrarClient struct {
	*RPCClient
}

func (r registrarClient) RequestAirdrop(ctx context.Context, address string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.drops++
	return r.dropErr
}

func b64(t *testing.T, v scval.Value) string {
	s, err := scval.ToBase64(v)
	require.NoError(t, err)
	return s
}

func resultB64(t *testing.T, r *transaction.Result) string {
	s, err := r.Base64()
	require.NoError(t, err)
	return s
}

func testRPCAndKey(t *testing.T) (*RPCClient, *keys.PrivateKey) {
	key, err := keys.NewPrivateKey()
	require.NoError(t, err)
	sd := &transaction.SorobanData{
		Resources: transaction.Resources{
			Instructions: 1000000,
			ReadBytes:    2048,
			WriteBytes:   512,
		},
		ResourceFee: 50000,
	}
	txData, err := sd.Base64()
	require.NoError(t, err)
	client := &RPCClient{
		account: &result.Account{ID: *key.PublicKey(), Balance: 100_0000000, Sequence: 41},
		sim: &result.SimulateTransaction{
			TransactionData: txData,
			MinResourceFee:  50000,
			Results:         []result.SimulateResult{{XDR: b64(t, scval.U32(5))}},
			Cost:            &result.SimulateCost{CPUInsns: 900000, MemBytes: 1500},
			LatestLedger:    100,
		},
		send: &result.SendTransaction{Status: sorobanrpc.SendStatusPending, LatestLedger: 100},
	}
	return client, key
}

func fastOptions() Options {
	return Options{PollConfig: waiter.PollConfig{Attempts: 3, PollInterval: time.Millisecond}}
}

func testContract() *scval.Address {
	return scval.NewContractAddress(util.Uint256{1, 2, 3})
}

func TestNew(t *testing.T) {
	client, key := testRPCAndKey(t)

	_, err := New(client, nil, Options{})
	require.Error(t, err)

	client.netErr = errors.New("not initialized")
	_, err = NewSimple(client, key)
	require.ErrorIs(t, err, client.netErr)
	client.netErr = nil

	_, err = New(client, key, Options{MaxFee: -1})
	require.Error(t, err)

	a, err := NewSimple(client, key)
	require.NoError(t, err)
	require.Equal(t, testNetID, a.NetworkID())
	require.Equal(t, key.Address(), a.Sender())
	require.Equal(t, key.PublicKey(), a.Source())
	opts := a.Options()
	require.Equal(t, DefaultBaseFee, opts.BaseFee)
	require.Equal(t, DefaultAttempts, opts.Attempts)
	require.Equal(t, waiter.DefaultPollAttempts, opts.PollConfig.Attempts)
	require.Equal(t, waiter.DefaultPollInterval, opts.PollConfig.PollInterval)
	require.NotNil(t, opts.Modifier)
	require.NotNil(t, opts.Classifier)
	require.NotNil(t, opts.Logger)
}

func TestMakeUnsignedCall(t *testing.T) {
	client, key := testRPCAndKey(t)
	a, err := New(client, key, Options{BaseFee: 200, Timeout: time.Minute})
	require.NoError(t, err)

	tx, err := a.MakeUnsignedCall(context.Background(), testContract(), "mint", scval.NewAccountAddress(key.PublicKey()), int64(1000))
	require.NoError(t, err)
	require.Equal(t, int64(42), tx.Sequence)
	require.Equal(t, uint32(200), tx.Fee)
	require.Equal(t, "mint", tx.Operation.Function)
	require.Nil(t, tx.SorobanData)
	require.NotNil(t, tx.TimeBounds)
	require.NotZero(t, tx.TimeBounds.MaxTime)

	_, err = a.MakeUnsignedCall(context.Background(), testContract(), "mint", 1.5)
	require.ErrorIs(t, err, scval.ErrInvalidConversion)

	client.accErr = errors.New("account not found")
	_, err = a.MakeUnsignedCall(context.Background(), testContract(), "mint")
	require.Equal(t, client.accErr, err)
}

func TestPrepare(t *testing.T) {
	client, key := testRPCAndKey(t)
	a, err := NewSimple(client, key)
	require.NoError(t, err)
	tx, err := a.MakeUnsignedCall(context.Background(), testContract(), "mint")
	require.NoError(t, err)

	ptx, sim, err := a.Prepare(context.Background(), tx)
	require.NoError(t, err)
	require.Equal(t, client.sim, sim)
	require.Nil(t, tx.SorobanData)
	require.NotNil(t, ptx.SorobanData)
	require.Equal(t, int64(50000), ptx.SorobanData.ResourceFee)
	require.Equal(t, uint32(DefaultBaseFee+50000), ptx.Fee)
	require.Equal(t, uint32(DefaultBaseFee), tx.Fee)

	t.Run("fee limit", func(t *testing.T) {
		a, err := New(client, key, Options{MaxFee: 120000})
		require.NoError(t, err)
		_, _, err = a.Prepare(context.Background(), tx)
		var fe *FeeLimitError
		require.ErrorAs(t, err, &fe)
		require.Equal(t, int64(150000), fe.Fee)
		require.Equal(t, int64(120000), fe.Limit)
	})
	t.Run("simulation error", func(t *testing.T) {
		client.sim = &result.SimulateTransaction{Error: "HostError: Error(Contract, #3)", Events: []string{"AAAA"}}
		_, _, err := a.Prepare(context.Background(), tx)
		var se *SimulationError
		require.ErrorAs(t, err, &se)
		require.Equal(t, "mint", se.Method)
		require.Equal(t, testContract().String(), se.Contract)
		require.Equal(t, "HostError: Error(Contract, #3)", se.Diagnostic)
		require.Equal(t, []string{"AAAA"}, se.Events)
	})
	t.Run("restore required", func(t *testing.T) {
		c, _ := testRPCAndKey(t)
		client.sim = c.sim
		client.sim.RestorePreamble = &result.RestorePreamble{MinResourceFee: 10}
		_, _, err := a.Prepare(context.Background(), tx)
		require.ErrorIs(t, err, ErrRestoreRequired)
	})
	t.Run("transport error", func(t *testing.T) {
		client.simErr = errors.New("connection refused")
		_, _, err := a.Prepare(context.Background(), tx)
		require.ErrorIs(t, err, client.simErr)
	})
}

func TestMakeCallAndSign(t *testing.T) {
	client, key := testRPCAndKey(t)
	var modified bool
	a, err := New(client, key, Options{Modifier: func(tx *transaction.Transaction) error {
		modified = true
		tx.Fee += 10
		return nil
	}})
	require.NoError(t, err)

	env, sim, err := a.MakeCall(context.Background(), testContract(), "mint", uint32(1))
	require.NoError(t, err)
	require.True(t, modified)
	require.Equal(t, client.sim, sim)
	require.Equal(t, uint32(DefaultBaseFee+50000+10), env.Tx.Fee)
	require.True(t, env.Verify(key.PublicKey(), testNetID))

	other, err := keys.NewPrivateKey()
	require.NoError(t, err)
	env.Tx.Source = *other.PublicKey()
	_, err = a.Sign(env.Tx)
	require.Error(t, err)

	a.opts.Modifier = func(tx *transaction.Transaction) error { return errors.New("too expensive") }
	_, _, err = a.MakeCall(context.Background(), testContract(), "mint")
	require.EqualError(t, err, "too expensive")
}

func TestCallSuccess(t *testing.T) {
	client, key := testRPCAndKey(t)
	client.get = func(n int) *result.GetTransaction {
		if n < 2 {
			return &result.GetTransaction{Status: sorobanrpc.TxStatusNotFound}
		}
		return &result.GetTransaction{
			Status:      sorobanrpc.TxStatusSuccess,
			ReturnValue: b64(t, scval.I64(-7)),
			ResultXDR: resultB64(t, &transaction.Result{
				FeeCharged:   120000,
				Code:         transaction.Success,
				HasOperation: true,
				HasInvoke:    true,
			}),
			Ledger: 102,
		}
	}
	a, err := New(client, key, fastOptions())
	require.NoError(t, err)

	res, err := a.Call(context.Background(), testContract(), "mint", int64(5))
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, res.Status)
	require.Equal(t, scval.I64(-7), res.ReturnValue)
	require.Equal(t, 1, res.Attempts)
	require.Equal(t, "mint", res.Method)
	require.Equal(t, "", res.Reason)
	require.Equal(t, 3, client.getCalls)
	require.Len(t, client.sent, 1)
	h, err := client.sent[0].Hash(testNetID)
	require.NoError(t, err)
	require.Equal(t, h, res.Hash)
	require.Equal(t, client.sim, res.Simulation)

	t.Run("simulated return value", func(t *testing.T) {
		client.getCalls = 0
		client.get = func(int) *result.GetTransaction {
			return &result.GetTransaction{Status: sorobanrpc.TxStatusSuccess}
		}
		res, err := a.Call(context.Background(), testContract(), "mint")
		require.NoError(t, err)
		require.Equal(t, StatusSuccess, res.Status)
		require.Equal(t, scval.U32(5), res.ReturnValue)
	})
	t.Run("duplicate", func(t *testing.T) {
		client.send = &result.SendTransaction{Status: sorobanrpc.SendStatusDuplicate}
		res, err := a.Call(context.Background(), testContract(), "mint")
		require.NoError(t, err)
		require.Equal(t, StatusSuccess, res.Status)
	})
}

func TestCallSimulationFailureNeverSends(t *testing.T) {
	client, key := testRPCAndKey(t)
	client.sim = &result.SimulateTransaction{Error: "HostError: Error(Auth, InvalidAction)"}
	a, err := New(client, key, fastOptions())
	require.NoError(t, err)

	res, err := a.Call(context.Background(), testContract(), "mint")
	var se *SimulationError
	require.ErrorAs(t, err, &se)
	require.Nil(t, res)
	require.Len(t, client.simTxs, 1)
	require.Empty(t, client.sent)
	require.Zero(t, client.getCalls)
}

func TestCallPollBudget(t *testing.T) {
	for _, n := range []int{1, 5, 15} {
		client, key := testRPCAndKey(t)
		opts := fastOptions()
		opts.PollConfig.Attempts = n
		a, err := New(client, key, opts)
		require.NoError(t, err)

		res, err := a.Call(context.Background(), testContract(), "mint")
		require.NoError(t, err)
		require.Equal(t, StatusTimedOut, res.Status)
		require.Equal(t, n, client.getCalls)
		require.Len(t, client.sent, 1)
		require.Equal(t, 1, res.Attempts)
		require.False(t, IsTransient(res))
	}
}

func TestCallRetryBudget(t *testing.T) {
	for _, k := range []int{1, 3, 5} {
		client, key := testRPCAndKey(t)
		client.send = &result.SendTransaction{Status: sorobanrpc.SendStatusTryAgainLater}
		opts := fastOptions()
		opts.Attempts = k
		a, err := New(client, key, opts)
		require.NoError(t, err)

		res, err := a.Call(context.Background(), testContract(), "mint")
		require.NoError(t, err)
		require.Equal(t, StatusFailed, res.Status)
		require.Equal(t, sorobanrpc.SendStatusTryAgainLater, res.Reason)
		require.Equal(t, k, res.Attempts)
		require.Len(t, client.simTxs, k)
		require.Len(t, client.sent, k)
		require.Zero(t, client.getCalls)
	}
}

func TestCallRetryRecovers(t *testing.T) {
	client, key := testRPCAndKey(t)
	client.get = func(n int) *result.GetTransaction {
		if n == 0 {
			return &result.GetTransaction{
				Status: sorobanrpc.TxStatusFailed,
				ResultXDR: resultB64(t, &transaction.Result{
					Code:         transaction.Failed,
					HasOperation: true,
					HasInvoke:    true,
					InvokeCode:   transaction.InvokeResourceLimitExceeded,
				}),
			}
		}
		return &result.GetTransaction{Status: sorobanrpc.TxStatusSuccess, ReturnValue: b64(t, scval.Void{})}
	}
	a, err := New(client, key, fastOptions())
	require.NoError(t, err)

	res, err := a.Call(context.Background(), testContract(), "mint")
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, res.Status)
	require.Equal(t, 2, res.Attempts)
	require.Len(t, client.sent, 2)
	require.Equal(t, scval.Void{}, res.ReturnValue)
}

func TestCallTerminalFailure(t *testing.T) {
	client, key := testRPCAndKey(t)
	client.get = func(int) *result.GetTransaction {
		return &result.GetTransaction{
			Status: sorobanrpc.TxStatusFailed,
			ResultXDR: resultB64(t, &transaction.Result{
				Code:         transaction.Failed,
				HasOperation: true,
				HasInvoke:    true,
				InvokeCode:   transaction.InvokeTrapped,
			}),
		}
	}
	a, err := New(client, key, fastOptions())
	require.NoError(t, err)

	res, err := a.Call(context.Background(), testContract(), "mint")
	require.NoError(t, err)
	require.Equal(t, StatusFailed, res.Status)
	require.Equal(t, 1, res.Attempts)
	require.Equal(t, transaction.Failed, res.Code)
	require.Equal(t, transaction.InvokeTrapped, res.InvokeCode)
	require.Contains(t, res.Reason, "INVOKE_HOST_FUNCTION_TRAPPED")
	require.Nil(t, res.ReturnValue)

	t.Run("custom classifier", func(t *testing.T) {
		client.sent = nil
		opts := fastOptions()
		opts.Attempts = 2
		opts.Classifier = func(*SubmissionResult) bool { return true }
		a, err := New(client, key, opts)
		require.NoError(t, err)
		res, err := a.Call(context.Background(), testContract(), "mint")
		require.NoError(t, err)
		require.Equal(t, StatusFailed, res.Status)
		require.Equal(t, 2, res.Attempts)
		require.Len(t, client.sent, 2)
	})
}

func TestCallRejected(t *testing.T) {
	client, key := testRPCAndKey(t)
	client.send = &result.SendTransaction{
		Status:         sorobanrpc.SendStatusError,
		ErrorResultXDR: resultB64(t, &transaction.Result{Code: transaction.InsufficientBalance}),
	}
	a, err := New(client, key, fastOptions())
	require.NoError(t, err)

	res, err := a.Call(context.Background(), testContract(), "mint")
	require.NoError(t, err)
	require.Equal(t, StatusFailed, res.Status)
	require.Equal(t, transaction.InsufficientBalance, res.Code)
	require.Equal(t, "txINSUFFICIENT_BALANCE", res.Reason)
	require.Equal(t, 1, res.Attempts)
	require.Zero(t, client.getCalls)
}

func TestCallErrors(t *testing.T) {
	t.Run("conversion", func(t *testing.T) {
		client, key := testRPCAndKey(t)
		a, err := New(client, key, fastOptions())
		require.NoError(t, err)
		_, err = a.Call(context.Background(), testContract(), "mint", struct{}{})
		require.ErrorIs(t, err, scval.ErrInvalidConversion)
		require.Empty(t, client.simTxs)
	})
	t.Run("account", func(t *testing.T) {
		client, key := testRPCAndKey(t)
		client.accErr = errors.New("account not found")
		a, err := New(client, key, fastOptions())
		require.NoError(t, err)
		_, err = a.Call(context.Background(), testContract(), "mint")
		require.ErrorIs(t, err, client.accErr)
	})
	t.Run("send", func(t *testing.T) {
		client, key := testRPCAndKey(t)
		client.sendErr = errors.New("connection reset")
		a, err := New(client, key, fastOptions())
		require.NoError(t, err)
		_, err = a.Call(context.Background(), testContract(), "mint")
		require.ErrorIs(t, err, client.sendErr)
	})
	t.Run("cancelled", func(t *testing.T) {
		client, key := testRPCAndKey(t)
		a, err := New(client, key, fastOptions())
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = a.Call(ctx, testContract(), "mint")
		require.ErrorIs(t, err, ErrContextDone)
		require.ErrorIs(t, err, context.Canceled)
		require.Empty(t, client.sent)
	})
	t.Run("cancelled while polling", func(t *testing.T) {
		client, key := testRPCAndKey(t)
		ctx, cancel := context.WithCancel(context.Background())
		client.get = func(n int) *result.GetTransaction {
			if n == 1 {
				cancel()
			}
			return &result.GetTransaction{Status: sorobanrpc.TxStatusNotFound}
		}
		opts := fastOptions()
		opts.PollConfig.Attempts = 100
		a, err := New(client, key, opts)
		require.NoError(t, err)
		_, err = a.Call(ctx, testContract(), "mint")
		require.ErrorIs(t, err, ErrContextDone)
		require.Len(t, client.sent, 1)
	})
}

func TestIsTransient(t *testing.T) {
	send := func(status string, code transaction.ResultCode) *SubmissionResult {
		return &SubmissionResult{
			Status: StatusFailed,
			Send:   &result.SendTransaction{Status: status},
			Code:   code,
		}
	}
	failed := func(code transaction.InvokeResultCode) *SubmissionResult {
		return &SubmissionResult{
			Status:     StatusFailed,
			Send:       &result.SendTransaction{Status: sorobanrpc.SendStatusPending},
			Raw:        &result.GetTransaction{Status: sorobanrpc.TxStatusFailed},
			Code:       transaction.Failed,
			InvokeCode: code,
		}
	}
	testCases := []struct {
		name      string
		res       *SubmissionResult
		transient bool
	}{
		{"nil", nil, false},
		{"success", &SubmissionResult{Status: StatusSuccess}, false},
		{"timed out", &SubmissionResult{Status: StatusTimedOut, Send: &result.SendTransaction{Status: sorobanrpc.SendStatusPending}}, false},
		{"try again later", send(sorobanrpc.SendStatusTryAgainLater, 0), true},
		{"bad seq", send(sorobanrpc.SendStatusError, transaction.BadSeq), true},
		{"insufficient fee", send(sorobanrpc.SendStatusError, transaction.InsufficientFee), true},
		{"too late", send(sorobanrpc.SendStatusError, transaction.TooLate), true},
		{"bad auth", send(sorobanrpc.SendStatusError, transaction.BadAuth), false},
		{"insufficient balance", send(sorobanrpc.SendStatusError, transaction.InsufficientBalance), false},
		{"malformed", send(sorobanrpc.SendStatusError, transaction.Malformed), false},
		{"resource limit", failed(transaction.InvokeResourceLimitExceeded), true},
		{"refundable fee", failed(transaction.InvokeInsufficientRefundableFee), true},
		{"trapped", failed(transaction.InvokeTrapped), false},
		{"archived", failed(transaction.InvokeEntryArchived), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.transient, IsTransient(tc.res))
		})
	}
}

func TestRetryState(t *testing.T) {
	rs := NewRetryState(2)
	require.True(t, rs.Next())
	require.Equal(t, 1, rs.Attempt)
	require.Equal(t, 1, rs.AttemptsRemaining)
	require.True(t, rs.Next())
	require.Equal(t, 2, rs.Attempt)
	require.False(t, rs.Next())
	require.Equal(t, 2, rs.Attempt)
	require.Equal(t, 0, rs.AttemptsRemaining)
}

func TestRegister(t *testing.T) {
	client, key := testRPCAndKey(t)
	core, logs := observer.New(zapcore.DebugLevel)
	opts := fastOptions()
	opts.Logger = zap.New(core)

	a, err := New(client, key, opts)
	require.NoError(t, err)
	a.Register(context.Background())
	require.Equal(t, 1, logs.FilterMessage("account registration is not supported").Len())

	a, err = New(registrarClient{client}, key, opts)
	require.NoError(t, err)
	a.Register(context.Background())
	require.Equal(t, 1, client.drops)
	require.Equal(t, 1, logs.FilterMessage("account registered").Len())

	client.dropErr = errors.New("friendbot is down")
	client.drops = 0
	a.Register(context.Background())
	require.Equal(t, registerRetries+1, client.drops)
	warns := logs.FilterMessage("account registration failed").All()
	require.Len(t, warns, 1)
	require.Equal(t, zapcore.WarnLevel, warns[0].Level)
}
