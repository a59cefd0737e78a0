/*
Package result contains the types of Soroban RPC method results.
*/
package result

type (
	// Health is a getHealth result.
	Health struct {
		Status                string `json:"status"`
		LatestLedger          uint32 `json:"latestLedger,omitempty"`
		OldestLedger          uint32 `json:"oldestLedger,omitempty"`
		LedgerRetentionWindow uint32 `json:"ledgerRetentionWindow,omitempty"`
	}

	// Network is a getNetwork result.
	Network struct {
		FriendbotURL    string `json:"friendbotUrl,omitempty"`
		Passphrase      string `json:"passphrase"`
		ProtocolVersion uint32 `json:"protocolVersion"`
	}

	// LatestLedger is a getLatestLedger result.
	LatestLedger struct {
		ID              string `json:"id"`
		ProtocolVersion uint32 `json:"protocolVersion"`
		Sequence        uint32 `json:"sequence"`
	}
)
