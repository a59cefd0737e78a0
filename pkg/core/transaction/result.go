package transaction

import (
	"encoding/base64"
	"fmt"

	"github.com/nspcc-dev/soroban-go/pkg/io"
)

// ResultCode is the transaction result code.
type ResultCode int32

// Transaction result codes.
const (
	FeeBumpInnerSuccess ResultCode = 1
	Success             ResultCode = 0
	Failed              ResultCode = -1
	TooEarly            ResultCode = -2
	TooLate             ResultCode = -3
	MissingOperation    ResultCode = -4
	BadSeq              ResultCode = -5
	BadAuth             ResultCode = -6
	InsufficientBalance ResultCode = -7
	NoAccount           ResultCode = -8
	InsufficientFee     ResultCode = -9
	BadAuthExtra        ResultCode = -10
	InternalError       ResultCode = -11
	NotSupported        ResultCode = -12
	FeeBumpInnerFailed  ResultCode = -13
	BadSponsorship      ResultCode = -14
	BadMinSeqAgeOrGap   ResultCode = -15
	Malformed           ResultCode = -16
	SorobanInvalid      ResultCode = -17
)

var resultCodeNames = map[ResultCode]string{
	FeeBumpInnerSuccess: "txFEE_BUMP_INNER_SUCCESS",
	Success:             "txSUCCESS",
	Failed:              "txFAILED",
	TooEarly:            "txTOO_EARLY",
	TooLate:             "txTOO_LATE",
	MissingOperation:    "txMISSING_OPERATION",
	BadSeq:              "txBAD_SEQ",
	BadAuth:             "txBAD_AUTH",
	InsufficientBalance: "txINSUFFICIENT_BALANCE",
	NoAccount:           "txNO_ACCOUNT",
	InsufficientFee:     "txINSUFFICIENT_FEE",
	BadAuthExtra:        "txBAD_AUTH_EXTRA",
	InternalError:       "txINTERNAL_ERROR",
	NotSupported:        "txNOT_SUPPORTED",
	FeeBumpInnerFailed:  "txFEE_BUMP_INNER_FAILED",
	BadSponsorship:      "txBAD_SPONSORSHIP",
	BadMinSeqAgeOrGap:   "txBAD_MIN_SEQ_AGE_OR_GAP",
	Malformed:           "txMALFORMED",
	SorobanInvalid:      "txSOROBAN_INVALID",
}

func (c ResultCode) String() string {
	if s, ok := resultCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("ResultCode(%d)", int32(c))
}

// MarshalText implements the encoding.TextMarshaler interface.
func (c ResultCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// OperationResultCode is the generic operation result code.
type OperationResultCode int32

// Operation result codes, only OpInner has the operation-specific result.
const (
	OpInner             OperationResultCode = 0
	OpBadAuth           OperationResultCode = -1
	OpNoAccount         OperationResultCode = -2
	OpNotSupported      OperationResultCode = -3
	OpTooManySubentries OperationResultCode = -4
	OpExceededWorkLimit OperationResultCode = -5
	OpTooManySponsoring OperationResultCode = -6
)

// InvokeResultCode is the result code of INVOKE_HOST_FUNCTION operation.
type InvokeResultCode int32

// Invocation result codes.
const (
	InvokeSuccess                   InvokeResultCode = 0
	InvokeMalformed                 InvokeResultCode = -1
	InvokeTrapped                   InvokeResultCode = -2
	InvokeResourceLimitExceeded     InvokeResultCode = -3
	InvokeEntryArchived             InvokeResultCode = -4
	InvokeInsufficientRefundableFee InvokeResultCode = -5
)

var invokeCodeNames = map[InvokeResultCode]string{
	InvokeSuccess:                   "INVOKE_HOST_FUNCTION_SUCCESS",
	InvokeMalformed:                 "INVOKE_HOST_FUNCTION_MALFORMED",
	InvokeTrapped:                   "INVOKE_HOST_FUNCTION_TRAPPED",
	InvokeResourceLimitExceeded:     "INVOKE_HOST_FUNCTION_RESOURCE_LIMIT_EXCEEDED",
	InvokeEntryArchived:             "INVOKE_HOST_FUNCTION_ENTRY_ARCHIVED",
	InvokeInsufficientRefundableFee: "INVOKE_HOST_FUNCTION_INSUFFICIENT_REFUNDABLE_FEE",
}

func (c InvokeResultCode) String() string {
	if s, ok := invokeCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("InvokeResultCode(%d)", int32(c))
}

// Result is a partially decoded TransactionResult. For fee-bump
// transactions the inner result codes are used.
type Result struct {
	FeeCharged int64
	Code       ResultCode
	// HasOperation is set when the first operation result is present.
	HasOperation bool
	OpCode       OperationResultCode
	// HasInvoke is set when the first operation is INVOKE_HOST_FUNCTION and
	// its result code is present.
	HasInvoke  bool
	InvokeCode InvokeResultCode
}

// DecodeResult decodes TransactionResult XDR, all the data not needed for
// Result is ignored.
func DecodeResult(b []byte) (*Result, error) {
	r := io.NewBinReaderFromBuf(b)
	res := new(Result)
	res.FeeCharged = r.ReadI64BE()
	res.Code = ResultCode(r.ReadI32BE())
	if r.Err == nil && (res.Code == FeeBumpInnerSuccess || res.Code == FeeBumpInnerFailed) {
		r.ReadFixedOpaque(32) // Inner transaction hash.
		r.ReadI64BE()         // Inner fee charged.
		res.Code = ResultCode(r.ReadI32BE())
	}
	if r.Err == nil && (res.Code == Success || res.Code == Failed) {
		n := r.ReadArrayLen(io.MaxArraySize)
		if r.Err == nil && n > 0 {
			res.HasOperation = true
			res.OpCode = OperationResultCode(r.ReadI32BE())
			if r.Err == nil && res.OpCode == OpInner {
				if typ := r.ReadU32BE(); r.Err == nil && typ == opInvokeHostFunction {
					res.HasInvoke = true
					res.InvokeCode = InvokeResultCode(r.ReadI32BE())
				}
			}
		}
	}
	if r.Err != nil {
		return nil, fmt.Errorf("invalid transaction result: %w", r.Err)
	}
	return res, nil
}

// DecodeResultBase64 is DecodeResult for base64-encoded data.
func DecodeResultBase64(s string) (*Result, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return DecodeResult(b)
}

// Bytes encodes the result into TransactionResult XDR. Only the data
// Result has is encoded, the invocation success hash is zero.
func (res *Result) Bytes() ([]byte, error) {
	w := io.NewBufBinWriter()
	w.WriteI64BE(res.FeeCharged)
	w.WriteI32BE(int32(res.Code))
	if res.Code == Success || res.Code == Failed {
		if !res.HasOperation {
			w.WriteU32BE(0)
		} else {
			w.WriteU32BE(1)
			w.WriteI32BE(int32(res.OpCode))
			if res.OpCode == OpInner {
				w.WriteU32BE(opInvokeHostFunction)
				w.WriteI32BE(int32(res.InvokeCode))
				if res.InvokeCode == InvokeSuccess {
					w.WriteBytes(make([]byte, 32))
				}
			}
		}
	}
	w.WriteU32BE(0) // ext
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// Base64 returns base64-encoded XDR of the result.
func (res *Result) Base64() (string, error) {
	b, err := res.Bytes()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Reason returns a human-readable description of the result codes.
func (res *Result) Reason() string {
	s := res.Code.String()
	if res.HasInvoke {
		s += "/" + res.InvokeCode.String()
	} else if res.HasOperation && res.OpCode != OpInner {
		s += fmt.Sprintf("/op(%d)", int32(res.OpCode))
	}
	return s
}
