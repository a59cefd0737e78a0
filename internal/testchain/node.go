package testchain

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/nspcc-dev/soroban-go/pkg/core/transaction"
	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc/result"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const (
	// DefaultBalance is the balance of accounts created by friendbot.
	DefaultBalance = 10000_0000000
	// DefaultResourceFee is the resource fee of the default simulation.
	DefaultResourceFee = 91234
	// DefaultInstructions is the number of instructions consumed by the
	// default simulation.
	DefaultInstructions = 1500000

	startLedger = 100
)

// Node is a fake Soroban RPC node. It keeps accounts and contract instances,
// simulates every invocation with the preconfigured result and accepts all
// transactions reporting them as applied after the configured number of
// polls.
type Node struct {
	*httptest.Server

	t   testing.TB
	log *zap.Logger

	lock       sync.Mutex
	ledger     uint32
	entries    map[string]result.LedgerEntry
	simulation *result.SimulateTransaction
	sendStatus string
	pending    int
	final      result.GetTransaction
	txs        map[string]*nodeTx
	sent       []*transaction.Envelope
	calls      map[string]int
}

type nodeTx struct {
	env   *transaction.Envelope
	polls int
}

type rpcRequest struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	ID     uint64          `json:"id"`
}

type rpcResponse struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      uint64            `json:"id"`
	Result  any               `json:"result,omitempty"`
	Error   *sorobanrpc.Error `json:"error,omitempty"`
}

// NewNode starts a new node, it's stopped when the test ends. The node
// serves JSON-RPC on its root URL and friendbot on /friendbot.
func NewNode(t testing.TB) *Node {
	n := &Node{
		t:          t,
		log:        zaptest.NewLogger(t),
		ledger:     startLedger,
		entries:    make(map[string]result.LedgerEntry),
		sendStatus: sorobanrpc.SendStatusPending,
		final:      result.GetTransaction{Status: sorobanrpc.TxStatusSuccess},
		txs:        make(map[string]*nodeTx),
		calls:      make(map[string]int),
	}
	n.simulation = n.DefaultSimulation(scval.Void{})

	mux := http.NewServeMux()
	mux.HandleFunc("/", n.serveRPC)
	mux.HandleFunc("/friendbot", n.serveFriendbot)
	n.Server = httptest.NewServer(mux)
	t.Cleanup(n.Close)
	return n
}

// FriendbotURL returns the friendbot endpoint of the node.
func (n *Node) FriendbotURL() string {
	return n.URL + "/friendbot"
}

// AddAccount adds (or replaces) the account.
func (n *Node) AddAccount(acc *result.Account) {
	n.lock.Lock()
	defer n.lock.Unlock()
	require.NoError(n.t, n.putAccount(acc))
}

// Account returns the current state of the account or nil.
func (n *Node) Account(pub *keys.PublicKey) *result.Account {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.getAccount(pub)
}

// AddContract adds (or replaces) the contract instance.
func (n *Node) AddContract(inst *result.ContractInstance) {
	xdr, err := inst.EntryXDR()
	require.NoError(n.t, err)
	kLK := transaction.NewContractInstanceKey(&inst.Contract)
	k, err := kLK.Base64()
	require.NoError(n.t, err)

	n.lock.Lock()
	defer n.lock.Unlock()
	n.entries[k] = result.LedgerEntry{Key: k, XDR: xdr, LastModifiedLedger: n.ledger}
}

// DefaultSimulation returns a successful simulation result with the given
// return value.
func (n *Node) DefaultSimulation(ret scval.Value) *result.SimulateTransaction {
	sd := &transaction.SorobanData{
		Resources:   transaction.Resources{Instructions: DefaultInstructions, ReadBytes: 1024, WriteBytes: 256},
		ResourceFee: DefaultResourceFee,
	}
	data, err := sd.Base64()
	require.NoError(n.t, err)
	retXDR, err := scval.ToBase64(ret)
	require.NoError(n.t, err)
	return &result.SimulateTransaction{
		TransactionData: data,
		MinResourceFee:  DefaultResourceFee,
		Results:         []result.SimulateResult{{XDR: retXDR, Auth: []string{}}},
		Cost:            &result.SimulateCost{CPUInsns: 1200000, MemBytes: 4096},
	}
}

// SetSimulation sets the result returned for all simulations.
func (n *Node) SetSimulation(res *result.SimulateTransaction) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.simulation = res
}

// SetSendStatus sets the status returned by sendTransaction.
func (n *Node) SetSendStatus(status string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.sendStatus = status
}

// SetPending sets the number of NOT_FOUND responses returned for every
// transaction before the final one.
func (n *Node) SetPending(polls int) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.pending = polls
}

// SetFinal sets the final getTransaction result, ledger information is
// filled by the node.
func (n *Node) SetFinal(res result.GetTransaction) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.final = res
}

// Calls returns the number of requests made to the method.
func (n *Node) Calls(method string) int {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.calls[method]
}

// Sent returns all the transactions received by the node.
func (n *Node) Sent() []*transaction.Envelope {
	n.lock.Lock()
	defer n.lock.Unlock()
	return append([]*transaction.Envelope(nil), n.sent...)
}

func (n *Node) putAccount(acc *result.Account) error {
	xdr, err := acc.EntryXDR()
	if err != nil {
		return err
	}
	kLK := transaction.NewAccountKey(&acc.ID)
	k, err := kLK.Base64()
	if err != nil {
		return err
	}
	n.entries[k] = result.LedgerEntry{Key: k, XDR: xdr, LastModifiedLedger: n.ledger}
	return nil
}

func (n *Node) getAccount(pub *keys.PublicKey) *result.Account {
	kLK := transaction.NewAccountKey(pub)
	k, err := kLK.Base64()
	if err != nil {
		return nil
	}
	e, ok := n.entries[k]
	if !ok {
		return nil
	}
	acc, err := result.DecodeAccount(e.XDR)
	if err != nil {
		return nil
	}
	return acc
}

func (n *Node) serveRPC(w http.ResponseWriter, req *http.Request) {
	var r rpcRequest
	if err := json.NewDecoder(req.Body).Decode(&r); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	n.log.Debug("request", zap.String("method", r.Method), zap.Uint64("id", r.ID))

	res, rpcErr := n.handle(r.Method, r.Params)
	resp := rpcResponse{JSONRPC: sorobanrpc.JSONRPCVersion, ID: r.ID}
	if rpcErr != nil {
		resp.Error = rpcErr
	} else {
		resp.Result = res
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (n *Node) handle(method string, params json.RawMessage) (any, *sorobanrpc.Error) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.calls[method]++

	switch method {
	case "getHealth":
		return result.Health{Status: sorobanrpc.HealthStatusHealthy, LatestLedger: n.ledger}, nil
	case "getNetwork":
		return result.Network{FriendbotURL: n.FriendbotURL(), Passphrase: Passphrase(), ProtocolVersion: 21}, nil
	case "getLatestLedger":
		return result.LatestLedger{ID: strconv.FormatUint(uint64(n.ledger), 16), ProtocolVersion: 21, Sequence: n.ledger}, nil
	case "getLedgerEntries":
		var p sorobanrpc.LedgerEntriesParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, sorobanrpc.NewInvalidParamsError(err.Error())
		}
		res := result.LedgerEntries{Entries: []result.LedgerEntry{}, LatestLedger: n.ledger}
		for _, k := range p.Keys {
			if e, ok := n.entries[k]; ok {
				res.Entries = append(res.Entries, e)
			}
		}
		return res, nil
	case "simulateTransaction":
		if _, err := n.decodeTx(params); err != nil {
			return nil, err
		}
		res := *n.simulation
		res.LatestLedger = n.ledger
		return res, nil
	case "sendTransaction":
		return n.sendTransaction(params)
	case "getTransaction":
		return n.getTransaction(params)
	}
	return nil, sorobanrpc.ErrMethodNotFound
}

func (n *Node) decodeTx(params json.RawMessage) (*transaction.Envelope, *sorobanrpc.Error) {
	var p sorobanrpc.TransactionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, sorobanrpc.NewInvalidParamsError(err.Error())
	}
	env, err := transaction.EnvelopeFromBase64(p.Transaction)
	if err != nil {
		return nil, sorobanrpc.NewInvalidParamsError(err.Error())
	}
	return env, nil
}

func (n *Node) sendTransaction(params json.RawMessage) (any, *sorobanrpc.Error) {
	env, rpcErr := n.decodeTx(params)
	if rpcErr != nil {
		return nil, rpcErr
	}
	h, err := env.Hash(NetworkID())
	if err != nil {
		return nil, sorobanrpc.NewInvalidParamsError(err.Error())
	}
	n.sent = append(n.sent, env)
	res := result.SendTransaction{
		Status:                n.sendStatus,
		Hash:                  h.StringBE(),
		LatestLedger:          n.ledger,
		LatestLedgerCloseTime: 1700000000,
	}
	if n.sendStatus != sorobanrpc.SendStatusPending {
		return res, nil
	}
	n.txs[res.Hash] = &nodeTx{env: env}
	if acc := n.getAccount(&env.Tx.Source); acc != nil && acc.Sequence+1 == env.Tx.Sequence {
		acc.Sequence = env.Tx.Sequence
		if err := n.putAccount(acc); err != nil {
			return nil, sorobanrpc.NewInternalServerError(err.Error())
		}
	}
	return res, nil
}

func (n *Node) getTransaction(params json.RawMessage) (any, *sorobanrpc.Error) {
	var p sorobanrpc.HashParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, sorobanrpc.NewInvalidParamsError(err.Error())
	}
	notFound := result.GetTransaction{Status: sorobanrpc.TxStatusNotFound, LatestLedger: n.ledger}
	tx, ok := n.txs[p.Hash]
	if !ok {
		return notFound, nil
	}
	tx.polls++
	if tx.polls <= n.pending {
		return notFound, nil
	}
	n.ledger++
	res := n.final
	res.LatestLedger = n.ledger
	res.Ledger = n.ledger
	res.CreatedAt = 1700000005
	if b64, err := tx.env.Base64(); err == nil {
		res.EnvelopeXDR = b64
	}
	return res, nil
}

func (n *Node) serveFriendbot(w http.ResponseWriter, req *http.Request) {
	pub, err := keys.NewPublicKeyFromAddress(req.URL.Query().Get("addr"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n.lock.Lock()
	defer n.lock.Unlock()
	n.calls["friendbot"]++
	if n.getAccount(pub) != nil {
		http.Error(w, `{"detail": "op_already_exists", "extras": {"result_codes": "createAccountAlreadyExist"}}`, http.StatusBadRequest)
		return
	}
	err = n.putAccount(&result.Account{ID: *pub, Balance: DefaultBalance, Sequence: int64(n.ledger) << 32})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
