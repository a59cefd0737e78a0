package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
)

// walletVersion is the current wallet format version.
const walletVersion = "1.0"

// ErrAccountNotFound is returned when the wallet has no account with the
// given address.
var ErrAccountNotFound = errors.New("account not found")

// Wallet is a JSON file with encrypted account keys.
type Wallet struct {
	// Version of the wallet format.
	Version string `json:"version"`
	// Scrypt parameters used for all accounts.
	Scrypt keys.ScryptParams `json:"scrypt"`
	// Accounts stored in the wallet.
	Accounts []*Account `json:"accounts"`

	path string
}

// NewWallet creates a new empty wallet file at the given location.
func NewWallet(location string) (*Wallet, error) {
	w := &Wallet{
		Version: walletVersion,
		Scrypt:  keys.DefaultScryptParams(),
		path:    location,
	}
	return w, w.Save()
}

// NewInMemoryWallet creates a wallet that is not backed by a file.
func NewInMemoryWallet() *Wallet {
	return &Wallet{
		Version: walletVersion,
		Scrypt:  keys.DefaultScryptParams(),
	}
}

// NewWalletFromFile reads the wallet from the file.
func NewWalletFromFile(path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read wallet file: %w", err)
	}
	w := &Wallet{path: path}
	if err := json.Unmarshal(data, w); err != nil {
		return nil, fmt.Errorf("unmarshal wallet: %w", err)
	}
	if w.Version == "" {
		return nil, errors.New("invalid wallet: no version")
	}
	return w, nil
}

// Path returns the location of the wallet file.
func (w *Wallet) Path() string {
	return w.path
}

// CreateAccount generates a new account with the given label and passphrase.
func (w *Wallet) CreateAccount(label, passphrase string) (*Account, error) {
	acc, err := NewAccount()
	if err != nil {
		return nil, err
	}
	return acc, w.addEncrypted(acc, label, passphrase)
}

// ImportAccount adds the account with the given secret seed encrypting it
// with the passphrase.
func (w *Wallet) ImportAccount(seed, label, passphrase string) (*Account, error) {
	acc, err := NewAccountFromSeed(seed)
	if err != nil {
		return nil, err
	}
	if w.GetAccount(acc.Address) != nil {
		return nil, fmt.Errorf("account %s already exists", acc.Address)
	}
	return acc, w.addEncrypted(acc, label, passphrase)
}

func (w *Wallet) addEncrypted(acc *Account, label, passphrase string) error {
	acc.Label = label
	if err := acc.Encrypt(passphrase, w.Scrypt); err != nil {
		return err
	}
	w.AddAccount(acc)
	return w.Save()
}

// AddAccount adds the account to the wallet, it's not saved automatically.
func (w *Wallet) AddAccount(acc *Account) {
	w.Accounts = append(w.Accounts, acc)
}

// RemoveAccount removes the account with the given address.
func (w *Wallet) RemoveAccount(addr string) error {
	for i, acc := range w.Accounts {
		if acc.Address == addr {
			w.Accounts = append(w.Accounts[:i], w.Accounts[i+1:]...)
			return nil
		}
	}
	return ErrAccountNotFound
}

// GetAccount returns the account with the given address or nil.
func (w *Wallet) GetAccount(addr string) *Account {
	for _, acc := range w.Accounts {
		if acc.Address == addr {
			return acc
		}
	}
	return nil
}

// GetDefaultAccount returns the account marked as default or the first
// one if there is no such account.
func (w *Wallet) GetDefaultAccount() *Account {
	for _, acc := range w.Accounts {
		if acc.Default {
			return acc
		}
	}
	if len(w.Accounts) == 0 {
		return nil
	}
	return w.Accounts[0]
}

// Save writes the wallet to its file.
func (w *Wallet) Save() error {
	if w.path == "" {
		return errors.New("no path")
	}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(w.path, data, 0600)
}

// Close forgets all decrypted keys.
func (w *Wallet) Close() {
	for _, acc := range w.Accounts {
		acc.Close()
	}
}
