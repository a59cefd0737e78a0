package transaction

import (
	"encoding/base64"
	"fmt"

	"github.com/nspcc-dev/soroban-go/pkg/io"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
)

// Authorization credential types.
const (
	CredentialsSourceAccount uint32 = 0
	CredentialsAddress       uint32 = 1
)

const (
	authFunctionContract         uint32 = 0
	authFunctionCreateContract   uint32 = 1
	authFunctionCreateContractV2 uint32 = 2

	// maxInvocationDepth limits the nesting of authorized sub-invocations.
	maxInvocationDepth = 32
)

// AuthEntry is a raw SorobanAuthorizationEntry as returned by simulation,
// it's attached to the transaction as is. Decoding checks the structure
// of the entry but only keeps its bytes.
type AuthEntry []byte

// AuthEntryFromBase64 decodes and checks base64-encoded entry.
func AuthEntryFromBase64(s string) (AuthEntry, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	var e AuthEntry
	if err := io.FromByteArray(&e, b); err != nil {
		return nil, fmt.Errorf("invalid auth entry: %w", err)
	}
	return e, nil
}

// EncodeBinary implements the io.Serializable interface.
func (e *AuthEntry) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(*e)
}

// DecodeBinary implements the io.Serializable interface.
func (e *AuthEntry) DecodeBinary(r *io.BinReader) {
	*e = r.ReadCaptured(func() {
		skipAuthEntry(r)
	})
}

// Credentials returns the credentials type of the entry.
func (e AuthEntry) Credentials() uint32 {
	if len(e) < 4 {
		return 0
	}
	return uint32(e[0])<<24 | uint32(e[1])<<16 | uint32(e[2])<<8 | uint32(e[3])
}

func skipAuthEntry(r *io.BinReader) {
	switch typ := r.ReadU32BE(); typ {
	case CredentialsSourceAccount:
	case CredentialsAddress:
		var a scval.Address
		a.DecodeBinary(r)
		r.ReadI64BE() // nonce
		r.ReadU32BE() // signature expiration ledger
		scval.DecodeBinary(r)
	default:
		if r.Err == nil {
			r.Err = fmt.Errorf("unknown credentials type %d", typ)
		}
		return
	}
	skipInvocation(r, 0)
}

func skipInvocation(r *io.BinReader, depth int) {
	if depth > maxInvocationDepth {
		if r.Err == nil {
			r.Err = fmt.Errorf("authorized invocation is too deep")
		}
		return
	}
	switch typ := r.ReadU32BE(); typ {
	case authFunctionContract:
		var a scval.Address
		a.DecodeBinary(r)
		r.ReadString(scval.MaxSymbolLen)
		skipValues(r)
	case authFunctionCreateContract, authFunctionCreateContractV2:
		skipPreimage(r)
		switch exec := r.ReadU32BE(); exec {
		case 0:
			r.ReadFixedOpaque(32)
		case 1:
		default:
			if r.Err == nil {
				r.Err = fmt.Errorf("unknown executable type %d", exec)
			}
			return
		}
		if typ == authFunctionCreateContractV2 {
			skipValues(r)
		}
	default:
		if r.Err == nil {
			r.Err = fmt.Errorf("unknown authorized function type %d", typ)
		}
		return
	}
	n := r.ReadArrayLen(MaxAuthEntries)
	for i := 0; i < n && r.Err == nil; i++ {
		skipInvocation(r, depth+1)
	}
}

func skipValues(r *io.BinReader) {
	n := r.ReadArrayLen(MaxArgs)
	for i := 0; i < n && r.Err == nil; i++ {
		scval.DecodeBinary(r)
	}
}

func skipPreimage(r *io.BinReader) {
	switch typ := r.ReadU32BE(); typ {
	case 0: // address + salt
		var a scval.Address
		a.DecodeBinary(r)
		r.ReadFixedOpaque(32)
	case 1: // asset
		switch asset := r.ReadU32BE(); asset {
		case 0:
		case 1:
			r.ReadFixedOpaque(4 + 36)
		case 2:
			r.ReadFixedOpaque(12 + 36)
		default:
			if r.Err == nil {
				r.Err = fmt.Errorf("unknown asset type %d", asset)
			}
		}
	default:
		if r.Err == nil {
			r.Err = fmt.Errorf("unknown contract id preimage type %d", typ)
		}
	}
}
