package rpcclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nspcc-dev/soroban-go/pkg/core/transaction"
	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
	"github.com/nspcc-dev/soroban-go/pkg/util"
)

var (
	// ErrAccountNotFound is returned by GetAccount when there is no such
	// account on the ledger.
	ErrAccountNotFound = errors.New("account not found")
	// ErrContractNotFound is returned by GetContractInstance when there is
	// no instance entry for the contract.
	ErrContractNotFound = errors.New("contract not found")
	// ErrNoFriendbot is returned by RequestAirdrop when friendbot URL is
	// not known.
	ErrNoFriendbot = errors.New("friendbot URL is not configured")
)

// alreadyFundedMarker is the friendbot error for accounts that exist already.
const alreadyFundedMarker = "createAccountAlreadyExist"

// GetHealth returns the node health status.
func (c *Client) GetHealth(ctx context.Context) (*result.Health, error) {
	var resp = new(result.Health)
	if err := c.performRequest(ctx, "getHealth", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetNetwork returns the network passphrase and protocol version.
func (c *Client) GetNetwork(ctx context.Context) (*result.Network, error) {
	var resp = new(result.Network)
	if err := c.performRequest(ctx, "getNetwork", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetLatestLedger returns the latest ledger known to the node.
func (c *Client) GetLatestLedger(ctx context.Context) (*result.LatestLedger, error) {
	var resp = new(result.LatestLedger)
	if err := c.performRequest(ctx, "getLatestLedger", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetLedgerEntries returns the current values of the given ledger entries,
// missing entries are not included in the result.
func (c *Client) GetLedgerEntries(ctx context.Context, ks ...transaction.LedgerKey) (*result.LedgerEntries, error) {
	var (
		params = sorobanrpc.LedgerEntriesParams{Keys: make([]string, 0, len(ks))}
		resp   = new(result.LedgerEntries)
	)
	for i := range ks {
		k, err := ks[i].Base64()
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		params.Keys = append(params.Keys, k)
	}
	if err := c.performRequest(ctx, "getLedgerEntries", params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SimulateTransaction runs the transaction without committing its results,
// the transaction doesn't need to be signed. Simulation failures are
// returned in the Error field of the result, not as an error.
func (c *Client) SimulateTransaction(ctx context.Context, tx *transaction.Transaction) (*result.SimulateTransaction, error) {
	// Simulation requires an envelope, signatures are ignored.
	b64, err := (&transaction.Envelope{Tx: tx}).Base64()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	var resp = new(result.SimulateTransaction)
	if err := c.performRequest(ctx, "simulateTransaction", sorobanrpc.TransactionParams{Transaction: b64}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SendTransaction submits the signed transaction to the network. The
// transaction is not yet accepted when this call returns, its status
// should be checked with GetTransaction.
func (c *Client) SendTransaction(ctx context.Context, env *transaction.Envelope) (*result.SendTransaction, error) {
	b64, err := env.Base64()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	var resp = new(result.SendTransaction)
	if err := c.performRequest(ctx, "sendTransaction", sorobanrpc.TransactionParams{Transaction: b64}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetTransaction returns the status of the transaction with the given hash.
func (c *Client) GetTransaction(ctx context.Context, hash util.Uint256) (*result.GetTransaction, error) {
	var resp = new(result.GetTransaction)
	if err := c.performRequest(ctx, "getTransaction", sorobanrpc.HashParams{Hash: hash.StringBE()}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetAccount returns the current balance and sequence number of the
// account.
func (c *Client) GetAccount(ctx context.Context, address string) (*result.Account, error) {
	pk, err := keys.NewPublicKeyFromAddress(address)
	if err != nil {
		return nil, err
	}
	resp, err := c.GetLedgerEntries(ctx, transaction.NewAccountKey(pk))
	if err != nil {
		return nil, err
	}
	if len(resp.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
	}
	return result.DecodeAccount(resp.Entries[0].XDR)
}

// GetContractInstance returns the instance of the contract. Results are
// cached, so executable changes made after the first call are not seen by
// the client.
func (c *Client) GetContractInstance(ctx context.Context, contract *scval.Address) (*result.ContractInstance, error) {
	if !contract.IsContract() {
		return nil, fmt.Errorf("%s is not a contract", contract)
	}
	var key = contract.String()
	if v, ok := c.instances.Get(key); ok {
		return v.(*result.ContractInstance), nil
	}
	resp, err := c.GetLedgerEntries(ctx, transaction.NewContractInstanceKey(contract))
	if err != nil {
		return nil, err
	}
	if len(resp.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, key)
	}
	inst, err := result.DecodeContractInstance(&resp.Entries[0])
	if err != nil {
		return nil, err
	}
	c.instances.Add(key, inst)
	return inst, nil
}

// GetContractWasmHash returns the hash of the contract code, it fails for
// stellar asset contracts.
func (c *Client) GetContractWasmHash(ctx context.Context, contract *scval.Address) (util.Uint256, error) {
	inst, err := c.GetContractInstance(ctx, contract)
	if err != nil {
		return util.Uint256{}, err
	}
	if inst.Executable.Kind != scval.ExecutableWasm {
		return util.Uint256{}, fmt.Errorf("contract %s has %s executable", contract, inst.Executable.Kind)
	}
	return inst.Executable.WasmHash, nil
}

// RequestAirdrop asks friendbot to create and fund the account. Accounts
// that exist already are not an error.
func (c *Client) RequestAirdrop(ctx context.Context, address string) error {
	c.cacheLock.RLock()
	fb := c.cache.friendbotURL
	c.cacheLock.RUnlock()
	if fb == "" {
		fb = c.opts.FriendbotURL
	}
	if fb == "" {
		return ErrNoFriendbot
	}
	u, err := url.Parse(fb)
	if err != nil {
		return fmt.Errorf("invalid friendbot URL: %w", err)
	}
	q := u.Query()
	q.Set("addr", address)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	if c.limiter != nil {
		c.limiter.Take()
	}
	resp, err := c.cli.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode == http.StatusBadRequest && strings.Contains(string(body), alreadyFundedMarker) {
		return nil
	}
	return fmt.Errorf("friendbot: HTTP %d/%s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
