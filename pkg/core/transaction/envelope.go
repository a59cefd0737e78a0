package transaction

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/nspcc-dev/soroban-go/pkg/io"
	"github.com/nspcc-dev/soroban-go/pkg/util"
)

const (
	// MaxSignatures is the maximum number of envelope signatures.
	MaxSignatures = 20
	// SignatureSize is the size of ed25519 signature.
	SignatureSize = 64
)

// DecoratedSignature is a signature along with the hint of the key that has
// produced it.
type DecoratedSignature struct {
	Hint      [4]byte
	Signature []byte
}

// EncodeBinary implements the io.Serializable interface.
func (s *DecoratedSignature) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(s.Hint[:])
	w.WriteVarOpaque(s.Signature)
}

// DecodeBinary implements the io.Serializable interface.
func (s *DecoratedSignature) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(s.Hint[:])
	s.Signature = r.ReadVarOpaque(SignatureSize)
}

// Envelope is a signed transaction ready to be sent.
type Envelope struct {
	Tx         *Transaction
	Signatures []DecoratedSignature
}

// Sign signs the transaction for the given network and returns a new
// envelope, tx is not modified and is shared with the envelope.
func Sign(tx *Transaction, key *keys.PrivateKey, networkID util.Uint256) (*Envelope, error) {
	env := &Envelope{Tx: tx}
	if err := env.AddSignature(key, networkID); err != nil {
		return nil, err
	}
	return env, nil
}

// AddSignature signs the envelope transaction with one more key.
func (e *Envelope) AddSignature(key *keys.PrivateKey, networkID util.Uint256) error {
	if len(e.Signatures) >= MaxSignatures {
		return errors.New("too many signatures")
	}
	h, err := e.Tx.Hash(networkID)
	if err != nil {
		return fmt.Errorf("failed to hash transaction: %w", err)
	}
	e.Signatures = append(e.Signatures, DecoratedSignature{
		Hint:      key.PublicKey().Hint(),
		Signature: key.SignHash(h),
	})
	return nil
}

// Verify checks that the envelope has a valid signature of the given key.
func (e *Envelope) Verify(pk *keys.PublicKey, networkID util.Uint256) bool {
	h, err := e.Tx.Hash(networkID)
	if err != nil {
		return false
	}
	hint := pk.Hint()
	for i := range e.Signatures {
		if e.Signatures[i].Hint == hint && pk.Verify(e.Signatures[i].Signature, h) {
			return true
		}
	}
	return false
}

// Hash returns the hash of the enveloped transaction.
func (e *Envelope) Hash(networkID util.Uint256) (util.Uint256, error) {
	return e.Tx.Hash(networkID)
}

// EncodeBinary implements the io.Serializable interface.
func (e *Envelope) EncodeBinary(w *io.BinWriter) {
	if e.Tx == nil {
		w.Err = errors.New("empty envelope")
		return
	}
	w.WriteU32BE(EnvelopeTypeTx)
	e.Tx.EncodeBinary(w)
	io.WriteArray(w, e.Signatures)
}

// DecodeBinary implements the io.Serializable interface.
func (e *Envelope) DecodeBinary(r *io.BinReader) {
	if typ := r.ReadU32BE(); r.Err == nil && typ != EnvelopeTypeTx {
		r.Err = fmt.Errorf("%w: envelope type %d", ErrUnsupported, typ)
		return
	}
	e.Tx = new(Transaction)
	e.Tx.DecodeBinary(r)
	e.Signatures = io.ReadArray[DecoratedSignature](r, MaxSignatures)
}

// Bytes returns the XDR of the envelope.
func (e *Envelope) Bytes() ([]byte, error) {
	return io.ToByteArray(e)
}

// Base64 returns base64-encoded XDR of the envelope, the form accepted by
// sendTransaction.
func (e *Envelope) Base64() (string, error) {
	b, err := e.Bytes()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// EnvelopeFromBase64 decodes an envelope from base64-encoded XDR.
func EnvelopeFromBase64(s string) (*Envelope, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	e := new(Envelope)
	if err := io.FromByteArray(e, b); err != nil {
		return nil, err
	}
	return e, nil
}
