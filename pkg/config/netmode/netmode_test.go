package netmode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPassphrase(t *testing.T) {
	for _, m := range []Mode{MainNet, TestNet, FutureNet, Standalone} {
		p, err := m.Passphrase()
		require.NoError(t, err)
		back, ok := FromPassphrase(p)
		require.True(t, ok)
		require.Equal(t, m, back)
	}
	_, err := Mode("privnet").Passphrase()
	require.Error(t, err)
	_, ok := FromPassphrase("Some Network")
	require.False(t, ok)
}
