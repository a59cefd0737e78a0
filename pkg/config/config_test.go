package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nspcc-dev/soroban-go/pkg/config/netmode"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/waiter"
	"github.com/stretchr/testify/require"
)

const testConfigPath = "../../config"

func TestLoadSamples(t *testing.T) {
	for _, m := range []netmode.Mode{netmode.TestNet, netmode.Standalone} {
		t.Run(m.String(), func(t *testing.T) {
			cfg, err := Load(testConfigPath, m)
			require.NoError(t, err)
			require.Equal(t, m, cfg.Network.Name)
			p, err := m.Passphrase()
			require.NoError(t, err)
			require.Equal(t, p, cfg.Network.EffectivePassphrase())
			require.NotEmpty(t, cfg.RPC.Endpoint)
			require.Equal(t, actor.DefaultBaseFee, cfg.Transaction.BaseFee)
			require.Equal(t, 15, cfg.Transaction.PollAttempts)
		})
	}
	_, err := Load(testConfigPath, netmode.MainNet)
	require.Error(t, err)
}

func writeConfig(t *testing.T, data string) string {
	p := filepath.Join(t.TempDir(), "soroban.yml")
	require.NoError(t, os.WriteFile(p, []byte(data), 0644))
	return p
}

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "RPC:\n  Endpoint: http://localhost:8000\n"))
	require.NoError(t, err)
	def := Default()
	require.Equal(t, "http://localhost:8000", cfg.RPC.Endpoint)
	require.Equal(t, def.Transaction, cfg.Transaction)
	require.Equal(t, def.Logger, cfg.Logger)
	require.Equal(t, "", cfg.Network.EffectivePassphrase())
}

func TestLoadFileErrors(t *testing.T) {
	for name, data := range map[string]string{
		"bad yaml":        "RPC: [",
		"unknown network": "Network:\n  Name: privnet\n",
		"negative max":    "Transaction:\n  MaxFee: -1\n",
		"max below base":  "Transaction:\n  BaseFee: 1000\n  MaxFee: 10\n",
		"bad encoding":    "Logger:\n  Encoding: xml\n",
		"no prom address": "Prometheus:\n  Enabled: true\n",
		"bad duration":    "Transaction:\n  Timeout: forever\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, data))
			require.Error(t, err)
		})
	}
	_, err := LoadFile(filepath.Join(t.TempDir(), "none.yml"))
	require.Error(t, err)
}

func TestExplicitPassphrase(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "Network:\n  Name: privnet\n  Passphrase: My Network\n"))
	require.NoError(t, err)
	require.Equal(t, "My Network", cfg.Network.EffectivePassphrase())
}

func TestConverters(t *testing.T) {
	cfg, err := Load(testConfigPath, netmode.TestNet)
	require.NoError(t, err)

	co := cfg.RPC.ClientOptions()
	require.Equal(t, 5*time.Second, co.DialTimeout)
	require.Equal(t, 10, co.RequestsPerSecond)
	require.Equal(t, 128, co.CacheSize)
	require.Equal(t, "https://friendbot.stellar.org", co.FriendbotURL)

	ao := cfg.Transaction.ActorOptions()
	require.Equal(t, int64(100000000), ao.MaxFee)
	require.Equal(t, 5*time.Minute, ao.Timeout)
	require.Equal(t, 3, ao.Attempts)
	require.Equal(t, waiter.PollConfig{Attempts: 15, PollInterval: time.Second, RetryCount: 3}, ao.PollConfig)
	require.Nil(t, ao.Logger)
}
