/*
Package hash contains wrappers for the hash functions used by the protocol.
*/
package hash

import (
	"crypto/sha256"

	"github.com/nspcc-dev/soroban-go/pkg/util"
)

// Sha256 hashes the incoming byte slice using the sha256 algorithm.
func Sha256(data []byte) util.Uint256 {
	return sha256.Sum256(data)
}

// NetworkID returns the network identifier for the given network passphrase.
func NetworkID(passphrase string) util.Uint256 {
	return Sha256([]byte(passphrase))
}
