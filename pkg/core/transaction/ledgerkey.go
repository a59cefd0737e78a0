package transaction

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/nspcc-dev/soroban-go/pkg/io"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/util"
)

// LedgerEntryType is the type of ledger entry (and its key).
type LedgerEntryType uint32

// Ledger entry types supported by LedgerKey.
const (
	AccountEntry      LedgerEntryType = 0
	TrustlineEntry    LedgerEntryType = 1
	ContractDataEntry LedgerEntryType = 6
	ContractCodeEntry LedgerEntryType = 7
	TTLEntry          LedgerEntryType = 9
)

// ErrUnsupportedLedgerKey is returned when decoding ledger key of the type not
// supported by LedgerKey.
var ErrUnsupportedLedgerKey = errors.New("unsupported ledger key")

func (t LedgerEntryType) String() string {
	switch t {
	case AccountEntry:
		return "account"
	case TrustlineEntry:
		return "trustline"
	case ContractDataEntry:
		return "contract_data"
	case ContractCodeEntry:
		return "contract_code"
	case TTLEntry:
		return "ttl"
	default:
		return fmt.Sprintf("LedgerEntryType(%d)", uint32(t))
	}
}

// Durability is the storage durability of contract data.
type Durability uint32

// Contract data durabilities.
const (
	Temporary  Durability = 0
	Persistent Durability = 1
)

func (d Durability) String() string {
	if d == Temporary {
		return "temporary"
	}
	return "persistent"
}

// LedgerKey identifies a ledger entry. Value is one of *AccountKey,
// *TrustlineKey, *ContractDataKey, *ContractCodeKey or *TTLKey, it must
// match the Type.
type LedgerKey struct {
	Type  LedgerEntryType
	Value interface {
		io.Serializable
		toString() string
	}
}

// AccountKey is the key of account entry.
type AccountKey struct {
	Account keys.PublicKey
}

// TrustlineKey is the key of trustline entry. Asset is the raw XDR of
// TrustLineAsset.
type TrustlineKey struct {
	Account keys.PublicKey
	Asset   []byte
}

// ContractDataKey is the key of contract data entry.
type ContractDataKey struct {
	Contract   scval.Address
	Key        scval.Value
	Durability Durability
}

// ContractCodeKey is the key of contract code entry.
type ContractCodeKey struct {
	Hash util.Uint256
}

// TTLKey is the key of TTL entry, KeyHash is the hash of the data or code
// ledger key it's related to.
type TTLKey struct {
	KeyHash util.Uint256
}

// NewAccountKey returns the ledger key of the given account.
func NewAccountKey(pk *keys.PublicKey) LedgerKey {
	return LedgerKey{Type: AccountEntry, Value: &AccountKey{Account: *pk}}
}

// NewContractDataKey returns the ledger key of contract data entry.
func NewContractDataKey(contract *scval.Address, key scval.Value, d Durability) LedgerKey {
	return LedgerKey{Type: ContractDataEntry, Value: &ContractDataKey{Contract: *contract, Key: key, Durability: d}}
}

// NewContractInstanceKey returns the ledger key of the contract instance entry.
func NewContractInstanceKey(contract *scval.Address) LedgerKey {
	return NewContractDataKey(contract, scval.LedgerKeyContractInstance{}, Persistent)
}

// NewContractCodeKey returns the ledger key of contract code with the given
// wasm hash.
func NewContractCodeKey(hash util.Uint256) LedgerKey {
	return LedgerKey{Type: ContractCodeEntry, Value: &ContractCodeKey{Hash: hash}}
}

// EncodeBinary implements the io.Serializable interface.
func (k *LedgerKey) EncodeBinary(w *io.BinWriter) {
	if k.Value == nil {
		w.Err = fmt.Errorf("%w: empty %s key", ErrUnsupportedLedgerKey, k.Type)
		return
	}
	w.WriteU32BE(uint32(k.Type))
	k.Value.EncodeBinary(w)
}

// DecodeBinary implements the io.Serializable interface.
func (k *LedgerKey) DecodeBinary(r *io.BinReader) {
	k.Type = LedgerEntryType(r.ReadU32BE())
	if r.Err != nil {
		return
	}
	switch k.Type {
	case AccountEntry:
		k.Value = new(AccountKey)
	case TrustlineEntry:
		k.Value = new(TrustlineKey)
	case ContractDataEntry:
		k.Value = new(ContractDataKey)
	case ContractCodeEntry:
		k.Value = new(ContractCodeKey)
	case TTLEntry:
		k.Value = new(TTLKey)
	default:
		r.Err = fmt.Errorf("%w: %s", ErrUnsupportedLedgerKey, k.Type)
		return
	}
	k.Value.DecodeBinary(r)
}

// Bytes returns the XDR of the key.
func (k *LedgerKey) Bytes() ([]byte, error) {
	return io.ToByteArray(k)
}

// Base64 returns base64-encoded XDR of the key, the form used by RPC.
func (k *LedgerKey) Base64() (string, error) {
	b, err := k.Bytes()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// LedgerKeyFromBase64 decodes a key from its base64-encoded XDR.
func LedgerKeyFromBase64(s string) (LedgerKey, error) {
	var k LedgerKey
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return k, err
	}
	err = io.FromByteArray(&k, b)
	return k, err
}

func (k LedgerKey) String() string {
	if k.Value == nil {
		return k.Type.String()
	}
	return k.Type.String() + ":" + k.Value.toString()
}

// EncodeBinary implements the io.Serializable interface.
func (a *AccountKey) EncodeBinary(w *io.BinWriter) { a.Account.EncodeBinary(w) }

// DecodeBinary implements the io.Serializable interface.
func (a *AccountKey) DecodeBinary(r *io.BinReader) { a.Account.DecodeBinary(r) }

func (a *AccountKey) toString() string { return a.Account.Address() }

// EncodeBinary implements the io.Serializable interface.
func (t *TrustlineKey) EncodeBinary(w *io.BinWriter) {
	t.Account.EncodeBinary(w)
	w.WriteBytes(t.Asset)
}

// DecodeBinary implements the io.Serializable interface.
func (t *TrustlineKey) DecodeBinary(r *io.BinReader) {
	t.Account.DecodeBinary(r)
	typ := r.ReadU32BE()
	if r.Err != nil {
		return
	}
	var n int
	switch typ {
	case 0: // native
	case 1: // alphanum4: code + issuer
		n = 4 + 36
	case 2: // alphanum12: code + issuer
		n = 12 + 36
	case 3: // pool share
		n = 32
	default:
		r.Err = fmt.Errorf("%w: trustline asset type %d", ErrUnsupportedLedgerKey, typ)
		return
	}
	t.Asset = make([]byte, 4+n)
	t.Asset[0], t.Asset[1], t.Asset[2], t.Asset[3] = byte(typ>>24), byte(typ>>16), byte(typ>>8), byte(typ)
	r.ReadBytes(t.Asset[4:])
}

func (t *TrustlineKey) toString() string { return fmt.Sprintf("%s/%x", t.Account.Address(), t.Asset) }

// EncodeBinary implements the io.Serializable interface.
func (c *ContractDataKey) EncodeBinary(w *io.BinWriter) {
	c.Contract.EncodeBinary(w)
	scval.EncodeBinary(c.Key, w)
	w.WriteU32BE(uint32(c.Durability))
}

// DecodeBinary implements the io.Serializable interface.
func (c *ContractDataKey) DecodeBinary(r *io.BinReader) {
	c.Contract.DecodeBinary(r)
	c.Key = scval.DecodeBinary(r)
	c.Durability = Durability(r.ReadU32BE())
	if r.Err == nil && c.Durability > Persistent {
		r.Err = fmt.Errorf("invalid durability %d", c.Durability)
	}
}

func (c *ContractDataKey) toString() string {
	return c.Contract.String() + "/" + c.Key.String() + "/" + c.Durability.String()
}

// EncodeBinary implements the io.Serializable interface.
func (c *ContractCodeKey) EncodeBinary(w *io.BinWriter) { w.WriteBytes(c.Hash[:]) }

// DecodeBinary implements the io.Serializable interface.
func (c *ContractCodeKey) DecodeBinary(r *io.BinReader) { r.ReadBytes(c.Hash[:]) }

func (c *ContractCodeKey) toString() string { return c.Hash.StringBE() }

// EncodeBinary implements the io.Serializable interface.
func (t *TTLKey) EncodeBinary(w *io.BinWriter) { w.WriteBytes(t.KeyHash[:]) }

// DecodeBinary implements the io.Serializable interface.
func (t *TTLKey) DecodeBinary(r *io.BinReader) { r.ReadBytes(t.KeyHash[:]) }

func (t *TTLKey) toString() string { return t.KeyHash.StringBE() }

// Footprint is the set of ledger entries a contract invocation reads or
// writes.
type Footprint struct {
	ReadOnly  []LedgerKey
	ReadWrite []LedgerKey
}

// maxFootprintKeys limits the number of footprint entries of either kind.
const maxFootprintKeys = 1024

// EncodeBinary implements the io.Serializable interface.
func (f *Footprint) EncodeBinary(w *io.BinWriter) {
	io.WriteArray(w, f.ReadOnly)
	io.WriteArray(w, f.ReadWrite)
}

// DecodeBinary implements the io.Serializable interface.
func (f *Footprint) DecodeBinary(r *io.BinReader) {
	f.ReadOnly = io.ReadArray[LedgerKey](r, maxFootprintKeys)
	f.ReadWrite = io.ReadArray[LedgerKey](r, maxFootprintKeys)
}
