// Package netmode contains well-known Stellar networks.
package netmode

import "fmt"

// Mode is the name of a well-known network.
type Mode string

// Known networks.
const (
	MainNet    Mode = "mainnet"
	TestNet    Mode = "testnet"
	FutureNet  Mode = "futurenet"
	Standalone Mode = "standalone"
)

// Network passphrases, they define network identifiers transactions are
// signed for.
const (
	MainNetPassphrase    = "Public Global Stellar Network ; September 2015"
	TestNetPassphrase    = "Test SDF Network ; September 2015"
	FutureNetPassphrase  = "Test SDF Future Network ; October 2022"
	StandalonePassphrase = "Standalone Network ; February 2017"
)

var passphrases = map[Mode]string{
	MainNet:    MainNetPassphrase,
	TestNet:    TestNetPassphrase,
	FutureNet:  FutureNetPassphrase,
	Standalone: StandalonePassphrase,
}

// Passphrase returns the passphrase of the network.
func (m Mode) Passphrase() (string, error) {
	p, ok := passphrases[m]
	if !ok {
		return "", fmt.Errorf("unknown network %q", string(m))
	}
	return p, nil
}

// String implements the fmt.Stringer interface.
func (m Mode) String() string {
	return string(m)
}

// FromPassphrase returns the Mode of the well-known network with the given
// passphrase.
func FromPassphrase(p string) (Mode, bool) {
	for m, mp := range passphrases {
		if mp == p {
			return m, true
		}
	}
	return "", false
}
