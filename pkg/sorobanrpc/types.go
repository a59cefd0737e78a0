/*
Package sorobanrpc contains a set of types used for JSON-RPC communication
with Soroban RPC servers. It defines basic request/response types as well as
the error type and the status values used by specific methods.
*/
package sorobanrpc

import (
	"encoding/json"
)

const (
	// JSONRPCVersion is the only JSON-RPC protocol version supported.
	JSONRPCVersion = "2.0"
)

// Health status returned by getHealth.
const (
	HealthStatusHealthy = "healthy"
)

// sendTransaction statuses.
const (
	SendStatusPending       = "PENDING"
	SendStatusDuplicate     = "DUPLICATE"
	SendStatusTryAgainLater = "TRY_AGAIN_LATER"
	SendStatusError         = "ERROR"
)

// getTransaction statuses.
const (
	TxStatusSuccess  = "SUCCESS"
	TxStatusNotFound = "NOT_FOUND"
	TxStatusFailed   = "FAILED"
)

type (
	// Request represents JSON-RPC request. Soroban RPC methods take named
	// parameters, so Params is usually a struct or a map (or nil for
	// methods without parameters).
	Request struct {
		// JSONRPC is the protocol version, only valid when it contains JSONRPCVersion.
		JSONRPC string `json:"jsonrpc"`
		// Method is the method being called.
		Method string `json:"method"`
		// Params is a set of method-specific parameters.
		Params any `json:"params,omitempty"`
		// ID is an identifier associated with this request, the client uses
		// numeric identifiers.
		ID uint64 `json:"id"`
	}

	// Header is a generic JSON-RPC 2.0 response header (ID and JSON-RPC version).
	Header struct {
		ID      json.RawMessage `json:"id"`
		JSONRPC string          `json:"jsonrpc"`
	}

	// HeaderAndError adds an Error (that can be empty) to the Header, it's used
	// to construct type-specific responses.
	HeaderAndError struct {
		Header
		Error *Error `json:"error,omitempty"`
	}

	// Response represents a standard raw JSON-RPC 2.0
	// response: http://www.jsonrpc.org/specification#response_object.
	Response struct {
		HeaderAndError
		Result json.RawMessage `json:"result,omitempty"`
	}
)

// Parameter sets of Soroban RPC methods.
type (
	// LedgerEntriesParams are getLedgerEntries parameters.
	LedgerEntriesParams struct {
		Keys []string `json:"keys"`
	}

	// TransactionParams are simulateTransaction and sendTransaction
	// parameters.
	TransactionParams struct {
		Transaction string `json:"transaction"`
	}

	// HashParams are getTransaction parameters.
	HashParams struct {
		Hash string `json:"hash"`
	}
)
