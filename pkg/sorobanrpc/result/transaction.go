package result

import (
	"fmt"

	"github.com/nspcc-dev/soroban-go/pkg/core/transaction"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
)

type (
	// SendTransaction is a sendTransaction result. ErrorResultXDR is set for
	// ERROR status only.
	SendTransaction struct {
		Status                string   `json:"status"`
		Hash                  string   `json:"hash"`
		LatestLedger          uint32   `json:"latestLedger"`
		LatestLedgerCloseTime int64    `json:"latestLedgerCloseTime,string"`
		ErrorResultXDR        string   `json:"errorResultXdr,omitempty"`
		DiagnosticEventsXDR   []string `json:"diagnosticEventsXdr,omitempty"`
	}

	// GetTransaction is a getTransaction result, only Status and ledger
	// information are present for NOT_FOUND status.
	GetTransaction struct {
		Status                string `json:"status"`
		LatestLedger          uint32 `json:"latestLedger"`
		LatestLedgerCloseTime int64  `json:"latestLedgerCloseTime,string"`
		OldestLedger          uint32 `json:"oldestLedger,omitempty"`
		ApplicationOrder      int32  `json:"applicationOrder,omitempty"`
		FeeBump               bool   `json:"feeBump,omitempty"`
		EnvelopeXDR           string `json:"envelopeXdr,omitempty"`
		ResultXDR             string `json:"resultXdr,omitempty"`
		ResultMetaXDR         string `json:"resultMetaXdr,omitempty"`
		// ReturnValue is base64-encoded ScVal returned by the contract.
		ReturnValue string `json:"returnValue,omitempty"`
		Ledger      uint32 `json:"ledger,omitempty"`
		CreatedAt   int64  `json:"createdAt,string,omitempty"`
	}
)

// Result decodes the error result of rejected transaction. It returns nil
// without an error when there is none.
func (s *SendTransaction) Result() (*transaction.Result, error) {
	if s.ErrorResultXDR == "" {
		return nil, nil
	}
	return transaction.DecodeResultBase64(s.ErrorResultXDR)
}

// Result decodes the transaction result. It returns nil without an error
// when there is none.
func (g *GetTransaction) Result() (*transaction.Result, error) {
	if g.ResultXDR == "" {
		return nil, nil
	}
	return transaction.DecodeResultBase64(g.ResultXDR)
}

// Value decodes the returned value, ok is false when the record doesn't
// have it.
func (g *GetTransaction) Value() (v scval.Value, ok bool, err error) {
	if g.ReturnValue == "" {
		return nil, false, nil
	}
	v, err = scval.FromBase64(g.ReturnValue)
	if err != nil {
		return nil, true, fmt.Errorf("invalid return value: %w", err)
	}
	return v, true, nil
}
