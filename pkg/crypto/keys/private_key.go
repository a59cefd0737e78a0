package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/nspcc-dev/soroban-go/pkg/encoding/strkey"
	"github.com/nspcc-dev/soroban-go/pkg/util"
)

// SeedSize is the size of the ed25519 private key seed.
const SeedSize = ed25519.SeedSize

// PrivateKey represents an ed25519 private key and provides a high level API
// around ed25519.PrivateKey.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// NewPrivateKey creates a new random private key.
func NewPrivateKey() (*PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: priv}, nil
}

// NewPrivateKeyFromBytes returns a PrivateKey created from the given 32-byte
// seed.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != SeedSize {
		return nil, fmt.Errorf(
			"invalid byte length: expected %d bytes got %d", SeedSize, len(b),
		)
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(b)}, nil
}

// NewPrivateKeyFromSeed returns a PrivateKey from the strkey-encoded secret
// seed ("S...").
func NewPrivateKeyFromSeed(seed string) (*PrivateKey, error) {
	b, err := strkey.Decode(strkey.VersionSeed, seed)
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return NewPrivateKeyFromBytes(b)
}

// PublicKey derives the public key from the private key.
func (p *PrivateKey) PublicKey() *PublicKey {
	var pk PublicKey
	copy(pk[:], p.key.Public().(ed25519.PublicKey))
	return &pk
}

// Address returns the strkey account address ("G...") of the key.
func (p *PrivateKey) Address() string {
	return p.PublicKey().Address()
}

// Bytes returns the 32-byte seed of the key.
func (p *PrivateKey) Bytes() []byte {
	return p.key.Seed()
}

// Seed returns the strkey-encoded secret seed ("S...").
func (p *PrivateKey) Seed() string {
	return strkey.MustEncode(strkey.VersionSeed, p.key.Seed())
}

// Sign signs arbitrary length data using the private key. ed25519 signatures
// are deterministic, the same data always produces the same signature.
func (p *PrivateKey) Sign(data []byte) []byte {
	return ed25519.Sign(p.key, data)
}

// SignHash signs a particular hash with the private key.
func (p *PrivateKey) SignHash(digest util.Uint256) []byte {
	return p.Sign(digest[:])
}
