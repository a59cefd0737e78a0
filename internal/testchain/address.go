package testchain

import (
	"github.com/nspcc-dev/soroban-go/pkg/crypto/keys"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
	"github.com/nspcc-dev/soroban-go/pkg/util"
)

// testSeeds is a list of well-known account seeds.
var testSeeds = []string{
	"SCOWDMM5576VUYF2QRFPJEXMFTCEISOFNF5TE2IZOA52YAY4VZ7WBQNO",
	"SBGM2CE3FD7ZNWU5W3BUN3ARJYHVXCRRT422XJRE3KGPN3KPXCTPXJAU",
	"SDC2VDPUH6PYG67NW5CC6MO4W6YWNU4FGUDW6CKLQXHDULQLIRMPOR75",
}

// Size returns the number of well-known accounts.
func Size() int {
	return len(testSeeds)
}

// Seed returns the secret seed of account #i.
func Seed(i int) string {
	return testSeeds[i]
}

// PrivateKey returns private key of account #i.
func PrivateKey(i int) *keys.PrivateKey {
	priv, err := keys.NewPrivateKeyFromSeed(Seed(i))
	if err != nil {
		panic(err)
	}
	return priv
}

// Address returns the address of account #i.
func Address(i int) string {
	return PrivateKey(i).Address()
}

// ContractAddress returns a contract address derived from the given byte.
func ContractAddress(b byte) *scval.Address {
	return scval.NewContractAddress(util.Uint256{0xc0, 0x17, b})
}
