/*
Package keys wraps ed25519 keys used to sign transactions and their
strkey representations.
*/
package keys

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/soroban-go/pkg/encoding/strkey"
	"github.com/nspcc-dev/soroban-go/pkg/io"
	"github.com/nspcc-dev/soroban-go/pkg/util"
)

// PublicKeySize is the size of ed25519 public key.
const PublicKeySize = ed25519.PublicKeySize

// PublicKey is an ed25519 public key, it also serves as an account id.
type PublicKey [PublicKeySize]byte

// NewPublicKeyFromAddress decodes the strkey account address ("G...").
func NewPublicKeyFromAddress(addr string) (*PublicKey, error) {
	b, err := strkey.Decode(strkey.VersionAccount, addr)
	if err != nil {
		return nil, fmt.Errorf("invalid account address: %w", err)
	}
	return NewPublicKeyFromBytes(b)
}

// NewPublicKeyFromBytes returns a public key created from b.
func NewPublicKeyFromBytes(b []byte) (*PublicKey, error) {
	if len(b) != PublicKeySize {
		return nil, fmt.Errorf("invalid public key length %d", len(b))
	}
	var pk PublicKey
	copy(pk[:], b)
	return &pk, nil
}

// Bytes returns the raw key.
func (p *PublicKey) Bytes() []byte {
	return p[:]
}

// Address returns the strkey account address ("G...").
func (p *PublicKey) Address() string {
	return strkey.MustEncode(strkey.VersionAccount, p[:])
}

// String implements the fmt.Stringer interface.
func (p *PublicKey) String() string {
	return p.Address()
}

// Hint returns the signature hint, the last four bytes of the key.
func (p *PublicKey) Hint() [4]byte {
	var h [4]byte
	copy(h[:], p[PublicKeySize-4:])
	return h
}

// Verify returns true if the signature is valid for the given hash and this
// public key.
func (p *PublicKey) Verify(signature []byte, digest util.Uint256) bool {
	return ed25519.Verify(p[:], digest[:], signature)
}

// Equal returns true in case public keys are equal.
func (p *PublicKey) Equal(other *PublicKey) bool {
	return *p == *other
}

// EncodeBinary implements io.Serializable interface, the key is encoded as
// a PublicKey union of ed25519 type.
func (p *PublicKey) EncodeBinary(w *io.BinWriter) {
	w.WriteU32BE(0) // PUBLIC_KEY_TYPE_ED25519
	w.WriteBytes(p[:])
}

// DecodeBinary implements io.Serializable interface.
func (p *PublicKey) DecodeBinary(r *io.BinReader) {
	t := r.ReadU32BE()
	if r.Err == nil && t != 0 {
		r.Err = fmt.Errorf("unsupported public key type %d", t)
		return
	}
	r.ReadBytes(p[:])
}

// MarshalJSON implements the json.Marshaler interface.
func (p *PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Address())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	pk, err := NewPublicKeyFromAddress(s)
	if err != nil {
		return err
	}
	*p = *pk
	return nil
}
