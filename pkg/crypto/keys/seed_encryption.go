package keys

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/text/unicode/norm"
)

const (
	saltSize  = 16
	nonceSize = 24
)

// ErrWrongPassphrase is returned when the encrypted seed can't be opened
// with the given passphrase.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// ScryptParams is a json-serializable container for scrypt KDF parameters.
type ScryptParams struct {
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`
}

// DefaultScryptParams returns scrypt parameters used for key encryption by
// default.
func DefaultScryptParams() ScryptParams {
	return ScryptParams{
		N: 16384,
		R: 8,
		P: 8,
	}
}

func deriveKey(passphrase string, salt []byte, params ScryptParams) (*[32]byte, error) {
	pass := norm.NFC.Bytes([]byte(passphrase))
	dk, err := scrypt.Key(pass, salt, params.N, params.R, params.P, 32)
	if err != nil {
		return nil, err
	}
	var key [32]byte
	copy(key[:], dk)
	return &key, nil
}

// EncryptSeed encrypts the private key seed with the given passphrase. The
// result is base64-encoded salt, nonce and sealed seed.
func EncryptSeed(priv *PrivateKey, passphrase string, params ScryptParams) (string, error) {
	var buf = make([]byte, saltSize+nonceSize)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	key, err := deriveKey(passphrase, buf[:saltSize], params)
	if err != nil {
		return "", err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], buf[saltSize:])
	res := secretbox.Seal(buf, priv.Bytes(), &nonce, key)
	return base64.StdEncoding.EncodeToString(res), nil
}

// DecryptSeed decrypts the seed encrypted with EncryptSeed and returns the
// private key.
func DecryptSeed(enc string, passphrase string, params ScryptParams) (*PrivateKey, error) {
	b, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, fmt.Errorf("invalid encrypted seed: %w", err)
	}
	if len(b) != saltSize+nonceSize+secretbox.Overhead+SeedSize {
		return nil, fmt.Errorf("invalid encrypted seed length %d", len(b))
	}
	key, err := deriveKey(passphrase, b[:saltSize], params)
	if err != nil {
		return nil, err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], b[saltSize:saltSize+nonceSize])
	seed, ok := secretbox.Open(nil, b[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrWrongPassphrase
	}
	return NewPrivateKeyFromBytes(seed)
}
