package wallet

import (
	"errors"

	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
)

// Account represents a Stellar account stored in the wallet. Its secret seed
// is kept encrypted and only decrypted on demand.
type Account struct {
	// Address is the account address ("G...").
	Address string `json:"address"`
	// Label is a user-defined account name.
	Label string `json:"label"`
	// EncryptedSeed is the encrypted private key seed.
	EncryptedSeed string `json:"key"`
	// Default marks the account used when no address is given.
	Default bool `json:"isDefault"`

	privateKey *keys.PrivateKey
}

// NewAccount creates a new Account with a random private key.
func NewAccount() (*Account, error) {
	priv, err := keys.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(priv), nil
}

// NewAccountFromPrivateKey creates an unencrypted Account for the key.
func NewAccountFromPrivateKey(p *keys.PrivateKey) *Account {
	return &Account{
		Address:    p.Address(),
		privateKey: p,
	}
}

// NewAccountFromSeed creates an unencrypted Account from the secret seed
// ("S...").
func NewAccountFromSeed(seed string) (*Account, error) {
	p, err := keys.NewPrivateKeyFromSeed(seed)
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(p), nil
}

// Encrypt encrypts the private key of the decrypted account with the
// passphrase.
func (a *Account) Encrypt(passphrase string, scrypt keys.ScryptParams) error {
	if a.privateKey == nil {
		return errors.New("the account is not decrypted")
	}
	enc, err := keys.EncryptSeed(a.privateKey, passphrase, scrypt)
	if err != nil {
		return err
	}
	a.EncryptedSeed = enc
	return nil
}

// Decrypt decrypts the EncryptedSeed with the passphrase making the private
// key available via PrivateKey.
func (a *Account) Decrypt(passphrase string, scrypt keys.ScryptParams) error {
	if a.EncryptedSeed == "" {
		return errors.New("no encrypted seed present")
	}
	p, err := keys.DecryptSeed(a.EncryptedSeed, passphrase, scrypt)
	if err != nil {
		return err
	}
	if p.Address() != a.Address {
		return errors.New("decrypted key doesn't match the address")
	}
	a.privateKey = p
	return nil
}

// PrivateKey returns the private key of the decrypted account, nil
// otherwise.
func (a *Account) PrivateKey() *keys.PrivateKey {
	return a.privateKey
}

// CanSign returns true if the account is decrypted.
func (a *Account) CanSign() bool {
	return a.privateKey != nil
}

// Close forgets the decrypted private key.
func (a *Account) Close() {
	a.privateKey = nil
}
