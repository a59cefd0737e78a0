package transaction

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/nspcc-dev/soroban-go/pkg/crypto/hash"
	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/nspcc-dev/soroban-go/pkg/io"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/util"
)

const (
	// MaxArgs is the maximum number of contract call arguments.
	MaxArgs = 1024
	// MaxAuthEntries is the maximum number of authorization entries of a
	// single invocation.
	MaxAuthEntries = 64

	// EnvelopeTypeTx is the envelope type of V1 transactions, it's also a
	// part of the signature payload.
	EnvelopeTypeTx uint32 = 2

	keyTypeEd25519         uint32 = 0
	preconditionNone       uint32 = 0
	preconditionTime       uint32 = 1
	memoNone               uint32 = 0
	opInvokeHostFunction   uint32 = 24
	hostFunctionInvokeCall uint32 = 0
)

// ErrUnsupported is returned when decoding a transaction that can't be
// represented by Transaction (like one having multiple operations).
var ErrUnsupported = errors.New("unsupported transaction")

// TimeBounds restrict the time a transaction can be included into a ledger.
// MaxTime equal to 0 means no upper bound.
type TimeBounds struct {
	MinTime uint64
	MaxTime uint64
}

// TimeoutInfinite is the timeout value meaning that the transaction has no
// deadline.
const TimeoutInfinite = 0

// NewTimeBounds returns TimeBounds valid from now to now+timeout. Zero
// timeout means no deadline.
func NewTimeBounds(timeout time.Duration) *TimeBounds {
	tb := new(TimeBounds)
	if timeout != TimeoutInfinite {
		tb.MaxTime = uint64(time.Now().Add(timeout).Unix())
	}
	return tb
}

// InvokeContract is the contract call performed by the transaction.
type InvokeContract struct {
	Contract scval.Address
	Function string
	Args     []scval.Value
	Auth     []AuthEntry
}

// Transaction is a single contract invocation transaction.
type Transaction struct {
	// Source is the account paying fees and providing the sequence number.
	Source keys.PublicKey
	// Fee is the maximum total fee (inclusion + resources) in stroops.
	Fee uint32
	// Sequence is the transaction sequence number, it must be exactly the
	// account sequence + 1.
	Sequence int64
	// TimeBounds is optional.
	TimeBounds  *TimeBounds
	Operation   InvokeContract
	SorobanData *SorobanData
}

// New creates a new transaction invoking the method of the contract with the
// given args. Fee, Sequence and TimeBounds are to be set by the caller.
func New(source *keys.PublicKey, contract *scval.Address, method string, args []scval.Value) *Transaction {
	return &Transaction{
		Source: *source,
		Operation: InvokeContract{
			Contract: *contract,
			Function: method,
			Args:     args,
		},
	}
}

// EncodeBinary implements the io.Serializable interface.
func (t *Transaction) EncodeBinary(w *io.BinWriter) {
	w.WriteU32BE(keyTypeEd25519)
	w.WriteBytes(t.Source[:])
	w.WriteU32BE(t.Fee)
	w.WriteI64BE(t.Sequence)
	if t.TimeBounds == nil {
		w.WriteU32BE(preconditionNone)
	} else {
		w.WriteU32BE(preconditionTime)
		w.WriteU64BE(t.TimeBounds.MinTime)
		w.WriteU64BE(t.TimeBounds.MaxTime)
	}
	w.WriteU32BE(memoNone)
	w.WriteU32BE(1) // Single operation.
	t.Operation.EncodeBinary(w)
	if t.SorobanData == nil {
		w.WriteU32BE(0)
	} else {
		w.WriteU32BE(1)
		t.SorobanData.EncodeBinary(w)
	}
}

// DecodeBinary implements the io.Serializable interface.
func (t *Transaction) DecodeBinary(r *io.BinReader) {
	if kt := r.ReadU32BE(); r.Err == nil && kt != keyTypeEd25519 {
		r.Err = fmt.Errorf("%w: source account type %d", ErrUnsupported, kt)
		return
	}
	r.ReadBytes(t.Source[:])
	t.Fee = r.ReadU32BE()
	t.Sequence = r.ReadI64BE()
	switch cond := r.ReadU32BE(); cond {
	case preconditionNone:
		t.TimeBounds = nil
	case preconditionTime:
		t.TimeBounds = &TimeBounds{MinTime: r.ReadU64BE(), MaxTime: r.ReadU64BE()}
	default:
		if r.Err == nil {
			r.Err = fmt.Errorf("%w: preconditions type %d", ErrUnsupported, cond)
		}
		return
	}
	if memo := r.ReadU32BE(); r.Err == nil && memo != memoNone {
		r.Err = fmt.Errorf("%w: memo type %d", ErrUnsupported, memo)
		return
	}
	if n := r.ReadU32BE(); r.Err == nil && n != 1 {
		r.Err = fmt.Errorf("%w: %d operations", ErrUnsupported, n)
		return
	}
	t.Operation.DecodeBinary(r)
	switch ext := r.ReadU32BE(); ext {
	case 0:
		t.SorobanData = nil
	case 1:
		t.SorobanData = new(SorobanData)
		t.SorobanData.DecodeBinary(r)
	default:
		if r.Err == nil {
			r.Err = fmt.Errorf("%w: extension %d", ErrUnsupported, ext)
		}
	}
}

// EncodeBinary implements the io.Serializable interface (Operation with
// INVOKE_HOST_FUNCTION body).
func (op *InvokeContract) EncodeBinary(w *io.BinWriter) {
	w.WriteOptional(false)
	w.WriteU32BE(opInvokeHostFunction)
	w.WriteU32BE(hostFunctionInvokeCall)
	op.Contract.EncodeBinary(w)
	if err := checkFunction(op.Function); err != nil {
		w.Err = err
		return
	}
	w.WriteString(op.Function)
	w.WriteU32BE(uint32(len(op.Args)))
	for _, arg := range op.Args {
		scval.EncodeBinary(arg, w)
	}
	io.WriteArray(w, op.Auth)
}

// DecodeBinary implements the io.Serializable interface.
func (op *InvokeContract) DecodeBinary(r *io.BinReader) {
	if r.ReadOptional() {
		if r.Err == nil {
			r.Err = fmt.Errorf("%w: operation source account", ErrUnsupported)
		}
		return
	}
	if typ := r.ReadU32BE(); r.Err == nil && typ != opInvokeHostFunction {
		r.Err = fmt.Errorf("%w: operation type %d", ErrUnsupported, typ)
		return
	}
	if typ := r.ReadU32BE(); r.Err == nil && typ != hostFunctionInvokeCall {
		r.Err = fmt.Errorf("%w: host function type %d", ErrUnsupported, typ)
		return
	}
	op.Contract.DecodeBinary(r)
	op.Function = r.ReadString(scval.MaxSymbolLen)
	if r.Err == nil {
		r.Err = checkFunction(op.Function)
	}
	n := r.ReadArrayLen(MaxArgs)
	op.Args = make([]scval.Value, 0, n)
	for i := 0; i < n && r.Err == nil; i++ {
		op.Args = append(op.Args, scval.DecodeBinary(r))
	}
	op.Auth = io.ReadArray[AuthEntry](r, MaxAuthEntries)
}

func checkFunction(name string) error {
	if _, err := scval.NewSymbol(name); err != nil {
		return fmt.Errorf("invalid function name %q: %w", name, err)
	}
	return nil
}

// Bytes returns the XDR of the transaction.
func (t *Transaction) Bytes() ([]byte, error) {
	return io.ToByteArray(t)
}

// Base64 returns base64-encoded XDR of the transaction.
func (t *Transaction) Base64() (string, error) {
	b, err := t.Bytes()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// NewTransactionFromBytes decodes a transaction from its XDR.
func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	t := new(Transaction)
	if err := io.FromByteArray(t, b); err != nil {
		return nil, err
	}
	return t, nil
}

// SignaturePayload returns the data that is hashed and signed for the
// given network.
func (t *Transaction) SignaturePayload(networkID util.Uint256) ([]byte, error) {
	w := io.NewBufBinWriter()
	w.WriteBytes(networkID[:])
	w.WriteU32BE(EnvelopeTypeTx)
	t.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// Hash returns the transaction hash for the given network, it's the
// identifier used by RPC and the digest being signed.
func (t *Transaction) Hash(networkID util.Uint256) (util.Uint256, error) {
	p, err := t.SignaturePayload(networkID)
	if err != nil {
		return util.Uint256{}, err
	}
	return hash.Sha256(p), nil
}

// Copy returns a deep copy of the transaction, contract values are immutable
// and shared.
func (t *Transaction) Copy() *Transaction {
	res := *t
	if t.TimeBounds != nil {
		tb := *t.TimeBounds
		res.TimeBounds = &tb
	}
	res.Operation.Args = append([]scval.Value(nil), t.Operation.Args...)
	if t.Operation.Auth != nil {
		res.Operation.Auth = make([]AuthEntry, len(t.Operation.Auth))
		for i := range t.Operation.Auth {
			res.Operation.Auth[i] = append(AuthEntry(nil), t.Operation.Auth[i]...)
		}
	}
	if t.SorobanData != nil {
		res.SorobanData = t.SorobanData.Copy()
	}
	return &res
}

// NetworkID returns the network identifier for the given passphrase.
func NetworkID(passphrase string) util.Uint256 {
	return hash.NetworkID(passphrase)
}
