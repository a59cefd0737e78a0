package testchain

import (
	"github.com/nspcc-dev/soroban-go/pkg/config/netmode"
	"github.com/nspcc-dev/soroban-go/pkg/core/transaction"
	"github.com/nspcc-dev/soroban-go/pkg/util"
)

// Network returns testchain network mode.
func Network() netmode.Mode {
	return netmode.Standalone
}

// Passphrase returns testchain network passphrase.
func Passphrase() string {
	p, err := Network().Passphrase()
	if err != nil {
		panic(err)
	}
	return p
}

// NetworkID returns testchain network ID.
func NetworkID() util.Uint256 {
	return transaction.NetworkID(Passphrase())
}
