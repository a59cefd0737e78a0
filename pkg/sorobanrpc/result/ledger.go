package result

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/nspcc-dev/soroban-go/pkg/io"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
)

// Ledger entry data types this package can decode.
const (
	accountEntryType      uint32 = 0
	contractDataEntryType uint32 = 6
)

// ErrUnexpectedEntry is returned when ledger entry data has a type different
// from the requested one.
var ErrUnexpectedEntry = errors.New("unexpected ledger entry type")

type (
	// LedgerEntries is a getLedgerEntries result.
	LedgerEntries struct {
		Entries      []LedgerEntry `json:"entries"`
		LatestLedger uint32        `json:"latestLedger"`
	}

	// LedgerEntry is a single entry of getLedgerEntries result, Key is
	// base64-encoded LedgerKey and XDR is base64-encoded LedgerEntryData.
	LedgerEntry struct {
		Key                string  `json:"key"`
		XDR                string  `json:"xdr"`
		LastModifiedLedger uint32  `json:"lastModifiedLedgerSeq"`
		LiveUntilLedger    *uint32 `json:"liveUntilLedgerSeq,omitempty"`
	}

	// Account is the part of AccountEntry needed to build transactions.
	Account struct {
		ID       keys.PublicKey `json:"id"`
		Balance  int64          `json:"balance"`
		Sequence int64          `json:"sequence"`
	}

	// ContractInstance is a decoded contract instance entry.
	ContractInstance struct {
		Contract   scval.Address
		Executable scval.Executable
		// Storage is the instance storage, it may be nil.
		Storage         *scval.Map
		LiveUntilLedger uint32
	}
)

func entryReader(xdr string, expected uint32) (*io.BinReader, error) {
	b, err := base64.StdEncoding.DecodeString(xdr)
	if err != nil {
		return nil, fmt.Errorf("invalid ledger entry: %w", err)
	}
	r := io.NewBinReaderFromBuf(b)
	typ := r.ReadU32BE()
	if r.Err != nil {
		return nil, fmt.Errorf("invalid ledger entry: %w", r.Err)
	}
	if typ != expected {
		return nil, fmt.Errorf("%w: %d instead of %d", ErrUnexpectedEntry, typ, expected)
	}
	return r, nil
}

// DecodeAccount decodes account id, balance and sequence number from
// the LedgerEntryData of an account. The rest of the entry is ignored.
func DecodeAccount(xdr string) (*Account, error) {
	r, err := entryReader(xdr, accountEntryType)
	if err != nil {
		return nil, err
	}
	acc := new(Account)
	acc.ID.DecodeBinary(r)
	acc.Balance = r.ReadI64BE()
	acc.Sequence = r.ReadI64BE()
	if r.Err != nil {
		return nil, fmt.Errorf("invalid account entry: %w", r.Err)
	}
	return acc, nil
}

// DecodeContractInstance decodes the LedgerEntryData of a contract data
// entry holding the contract instance.
func DecodeContractInstance(e *LedgerEntry) (*ContractInstance, error) {
	r, err := entryReader(e.XDR, contractDataEntryType)
	if err != nil {
		return nil, err
	}
	res := new(ContractInstance)
	if ext := r.ReadU32BE(); r.Err == nil && ext != 0 {
		return nil, fmt.Errorf("invalid contract data entry: extension %d", ext)
	}
	res.Contract.DecodeBinary(r)
	key := scval.DecodeBinary(r)
	r.ReadU32BE() // durability
	val := scval.DecodeBinary(r)
	if r.Err != nil {
		return nil, fmt.Errorf("invalid contract data entry: %w", r.Err)
	}
	if key.Type() != scval.LedgerKeyContractInstanceT {
		return nil, fmt.Errorf("%w: contract data key is %s", ErrUnexpectedEntry, key.Type())
	}
	inst, ok := val.(*scval.ContractInstance)
	if !ok {
		return nil, fmt.Errorf("%w: contract data value is %s", ErrUnexpectedEntry, val.Type())
	}
	res.Executable = inst.Executable
	res.Storage = inst.Storage
	if e.LiveUntilLedger != nil {
		res.LiveUntilLedger = *e.LiveUntilLedger
	}
	return res, nil
}

type contractInstanceAux struct {
	Contract        string          `json:"contract"`
	Executable      string          `json:"executable"`
	WasmHash        string          `json:"wasm_hash,omitempty"`
	Storage         json.RawMessage `json:"storage,omitempty"`
	LiveUntilLedger uint32          `json:"live_until_ledger,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ContractInstance) MarshalJSON() ([]byte, error) {
	aux := contractInstanceAux{
		Contract:        c.Contract.String(),
		Executable:      c.Executable.Kind.String(),
		LiveUntilLedger: c.LiveUntilLedger,
	}
	if c.Executable.Kind == scval.ExecutableWasm {
		aux.WasmHash = c.Executable.WasmHash.StringBE()
	}
	if c.Storage != nil {
		st, err := scval.ToJSON(c.Storage)
		if err != nil {
			return nil, err
		}
		aux.Storage = st
	}
	return json.Marshal(aux)
}

// EntryXDR returns base64-encoded LedgerEntryData of the account with
// default thresholds and no signers.
func (a *Account) EntryXDR() (string, error) {
	w := io.NewBufBinWriter()
	w.WriteU32BE(accountEntryType)
	a.ID.EncodeBinary(w.BinWriter)
	w.WriteI64BE(a.Balance)
	w.WriteI64BE(a.Sequence)
	w.WriteU32BE(0)                  // numSubEntries
	w.WriteOptional(false)           // inflationDest
	w.WriteU32BE(0)                  // flags
	w.WriteString("")                // homeDomain
	w.WriteBytes([]byte{1, 0, 0, 0}) // thresholds
	w.WriteU32BE(0)                  // signers
	w.WriteU32BE(0)                  // ext
	if w.Err != nil {
		return "", w.Err
	}
	return base64.StdEncoding.EncodeToString(w.Bytes()), nil
}

// EntryXDR returns base64-encoded persistent LedgerEntryData of the
// contract instance.
func (c *ContractInstance) EntryXDR() (string, error) {
	w := io.NewBufBinWriter()
	w.WriteU32BE(contractDataEntryType)
	w.WriteU32BE(0) // ext
	c.Contract.EncodeBinary(w.BinWriter)
	scval.EncodeBinary(scval.LedgerKeyContractInstance{}, w.BinWriter)
	w.WriteU32BE(1) // persistent
	scval.EncodeBinary(&scval.ContractInstance{Executable: c.Executable, Storage: c.Storage}, w.BinWriter)
	if w.Err != nil {
		return "", w.Err
	}
	return base64.StdEncoding.EncodeToString(w.Bytes()), nil
}
