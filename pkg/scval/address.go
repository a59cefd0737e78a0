package scval

import (
	"fmt"

	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/nspcc-dev/soroban-go/pkg/encoding/strkey"
	"github.com/nspcc-dev/soroban-go/pkg/io"
	"github.com/nspcc-dev/soroban-go/pkg/util"
)

// AddressKind is the kind of Address.
type AddressKind uint32

// Address kinds.
const (
	AccountAddress  AddressKind = 0
	ContractAddress AddressKind = 1
)

// Address references either an account (by its ed25519 public key) or
// a contract (by its id). The human-readable form is a strkey ("G..." or
// "C...").
type Address struct {
	Kind AddressKind
	Hash util.Uint256
}

// NewAddress parses the strkey representation of account or contract.
func NewAddress(s string) (*Address, error) {
	v, payload, err := strkey.DecodeAny(s)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", s, err)
	}
	var a = new(Address)
	switch v {
	case strkey.VersionAccount:
		a.Kind = AccountAddress
	case strkey.VersionContract:
		a.Kind = ContractAddress
	default:
		return nil, fmt.Errorf("invalid address %q: %s is not an address", s, v)
	}
	copy(a.Hash[:], payload)
	return a, nil
}

// MustAddress is NewAddress that panics on error.
func MustAddress(s string) *Address {
	a, err := NewAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// NewAccountAddress returns the Address of the account with the given key.
func NewAccountAddress(pk *keys.PublicKey) *Address {
	return &Address{Kind: AccountAddress, Hash: util.Uint256(*pk)}
}

// NewContractAddress returns the Address of the contract with the given id.
func NewContractAddress(id util.Uint256) *Address {
	return &Address{Kind: ContractAddress, Hash: id}
}

// Value implements the Value interface.
func (a *Address) Value() any { return a.String() }

// Type implements the Value interface.
func (a *Address) Type() Type { return AddressT }

// String returns the strkey of the address.
func (a *Address) String() string {
	if a.Kind == ContractAddress {
		return strkey.MustEncode(strkey.VersionContract, a.Hash[:])
	}
	return strkey.MustEncode(strkey.VersionAccount, a.Hash[:])
}

// Equals implements the Value interface.
func (a *Address) Equals(o Value) bool {
	x, ok := o.(*Address)
	return ok && *a == *x
}

// IsContract checks whether the address references a contract.
func (a *Address) IsContract() bool {
	return a.Kind == ContractAddress
}

// EncodeBinary implements the io.Serializable interface (SCAddress).
func (a *Address) EncodeBinary(w *io.BinWriter) {
	w.WriteU32BE(uint32(a.Kind))
	if a.Kind == AccountAddress {
		w.WriteU32BE(0) // PUBLIC_KEY_TYPE_ED25519
	}
	w.WriteBytes(a.Hash[:])
}

// DecodeBinary implements the io.Serializable interface (SCAddress).
func (a *Address) DecodeBinary(r *io.BinReader) {
	a.Kind = AddressKind(r.ReadU32BE())
	if r.Err != nil {
		return
	}
	switch a.Kind {
	case AccountAddress:
		if t := r.ReadU32BE(); r.Err == nil && t != 0 {
			r.Err = fmt.Errorf("%w: public key type %d", ErrInvalidFormat, t)
			return
		}
	case ContractAddress:
	default:
		r.Err = fmt.Errorf("%w: address type %d", ErrInvalidFormat, a.Kind)
		return
	}
	r.ReadBytes(a.Hash[:])
}

// ExecutableKind is the type of contract executable.
type ExecutableKind uint32

// Executable kinds.
const (
	ExecutableWasm         ExecutableKind = 0
	ExecutableStellarAsset ExecutableKind = 1
)

func (k ExecutableKind) String() string {
	switch k {
	case ExecutableWasm:
		return "wasm"
	case ExecutableStellarAsset:
		return "stellar_asset"
	default:
		return fmt.Sprintf("ExecutableKind(%d)", uint32(k))
	}
}

// Executable is the contract code reference, WasmHash is only meaningful
// for ExecutableWasm kind.
type Executable struct {
	Kind     ExecutableKind
	WasmHash util.Uint256
}

// ContractInstance is the value stored under LedgerKeyContractInstance, it
// references the contract code and holds the instance storage.
type ContractInstance struct {
	Executable Executable
	// Storage is optional.
	Storage *Map
}

// Value implements the Value interface.
func (c *ContractInstance) Value() any { return c }

// Type implements the Value interface.
func (c *ContractInstance) Type() Type { return ContractInstanceT }

func (c *ContractInstance) String() string {
	var s = "contract_instance:" + c.Executable.Kind.String()
	if c.Executable.Kind == ExecutableWasm {
		s += ":" + c.Executable.WasmHash.StringBE()
	}
	if c.Storage != nil {
		s += c.Storage.String()
	}
	return s
}

// Equals implements the Value interface.
func (c *ContractInstance) Equals(o Value) bool {
	x, ok := o.(*ContractInstance)
	if !ok || c.Executable != x.Executable || (c.Storage == nil) != (x.Storage == nil) {
		return false
	}
	return c.Storage == nil || c.Storage.Equals(x.Storage)
}
