package result

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/nspcc-dev/soroban-go/pkg/core/transaction"
	"github.com/nspcc-dev/soroban-go/pkg/scval"
)

// ErrNoResults is returned when a successful simulation has no host
// function results.
var ErrNoResults = errors.New("no simulation results")

type (
	// SimulateTransaction is a simulateTransaction result. Error is set when
	// the simulation has failed, other fields may be empty then.
	SimulateTransaction struct {
		// TransactionData is base64-encoded SorobanTransactionData.
		TransactionData string           `json:"transactionData,omitempty"`
		MinResourceFee  int64            `json:"minResourceFee,string,omitempty"`
		Events          []string         `json:"events,omitempty"`
		Results         []SimulateResult `json:"results,omitempty"`
		Cost            *SimulateCost    `json:"cost,omitempty"`
		RestorePreamble *RestorePreamble `json:"restorePreamble,omitempty"`
		Error           string           `json:"error,omitempty"`
		LatestLedger    uint32           `json:"latestLedger"`
	}

	// SimulateResult is the result of a single host function invocation,
	// XDR is base64-encoded ScVal and Auth are base64-encoded
	// SorobanAuthorizationEntry items.
	SimulateResult struct {
		XDR  string   `json:"xdr"`
		Auth []string `json:"auth"`
	}

	// SimulateCost is the resources consumed by the simulation.
	SimulateCost struct {
		CPUInsns uint64 `json:"cpuInsns,string"`
		MemBytes uint64 `json:"memBytes,string"`
	}

	// RestorePreamble is returned when some footprint entries are archived
	// and need to be restored before the invocation.
	RestorePreamble struct {
		TransactionData string `json:"transactionData"`
		MinResourceFee  int64  `json:"minResourceFee,string"`
	}
)

// Failed checks whether the simulation has failed.
func (s *SimulateTransaction) Failed() bool {
	return s.Error != ""
}

// SorobanData decodes transaction resources proposed by the simulation.
func (s *SimulateTransaction) SorobanData() (*transaction.SorobanData, error) {
	if s.TransactionData == "" {
		return nil, errors.New("no transaction data")
	}
	return transaction.SorobanDataFromBase64(s.TransactionData)
}

// AuthEntries decodes authorization entries of the first result.
func (s *SimulateTransaction) AuthEntries() ([]transaction.AuthEntry, error) {
	if len(s.Results) == 0 {
		return nil, nil
	}
	var res = make([]transaction.AuthEntry, 0, len(s.Results[0].Auth))
	for i, a := range s.Results[0].Auth {
		e, err := transaction.AuthEntryFromBase64(a)
		if err != nil {
			return nil, fmt.Errorf("auth entry %d: %w", i, err)
		}
		res = append(res, e)
	}
	return res, nil
}

// ReturnValue decodes the return value preview of the first result.
func (s *SimulateTransaction) ReturnValue() (scval.Value, error) {
	if s.Failed() {
		return nil, fmt.Errorf("simulation failed: %s", s.Error)
	}
	if len(s.Results) == 0 {
		return nil, ErrNoResults
	}
	return scval.FromBase64(s.Results[0].XDR)
}

// EventsSize returns the total size of serialized simulation events.
func (s *SimulateTransaction) EventsSize() int {
	var n int
	for _, e := range s.Events {
		n += base64.StdEncoding.DecodedLen(len(e)) - padding(e)
	}
	return n
}

func padding(s string) int {
	var n int
	for i := len(s) - 1; i >= 0 && s[i] == '='; i-- {
		n++
	}
	return n
}
