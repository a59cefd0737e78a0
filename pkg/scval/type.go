package scval

import (
	"fmt"
)

// Type represents the type (wire discriminant) of the value.
type Type uint32

// This block defines all known value types.
const (
	BoolT                      Type = 0
	VoidT                      Type = 1
	ErrorT                     Type = 2
	U32T                       Type = 3
	I32T                       Type = 4
	U64T                       Type = 5
	I64T                       Type = 6
	TimepointT                 Type = 7
	DurationT                  Type = 8
	U128T                      Type = 9
	I128T                      Type = 10
	U256T                      Type = 11
	I256T                      Type = 12
	BytesT                     Type = 13
	StringT                    Type = 14
	SymbolT                    Type = 15
	VecT                       Type = 16
	MapT                       Type = 17
	AddressT                   Type = 18
	ContractInstanceT          Type = 19
	LedgerKeyContractInstanceT Type = 20
	LedgerKeyNonceT            Type = 21
)

var typeNames = map[Type]string{
	BoolT:                      "bool",
	VoidT:                      "void",
	ErrorT:                     "error",
	U32T:                       "u32",
	I32T:                       "i32",
	U64T:                       "u64",
	I64T:                       "i64",
	TimepointT:                 "timepoint",
	DurationT:                  "duration",
	U128T:                      "u128",
	I128T:                      "i128",
	U256T:                      "u256",
	I256T:                      "i256",
	BytesT:                     "bytes",
	StringT:                    "string",
	SymbolT:                    "symbol",
	VecT:                       "vec",
	MapT:                       "map",
	AddressT:                   "address",
	ContractInstanceT:          "contract_instance",
	LedgerKeyContractInstanceT: "ledger_key_contract_instance",
	LedgerKeyNonceT:            "ledger_key_nonce",
}

// String implements fmt.Stringer interface.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", uint32(t))
}

// IsValid checks if t is a well defined value type.
func (t Type) IsValid() bool {
	return t <= LedgerKeyNonceT
}

// FromString returns value type from string.
func FromString(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown value type %q", s)
}

// MarshalJSON implements the json.Marshaler interface.
func (t Type) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Type) UnmarshalJSON(data []byte) error {
	l := len(data)
	if l < 2 || data[0] != '"' || data[l-1] != '"' {
		return fmt.Errorf("invalid type %s", data)
	}
	res, err := FromString(string(data[1 : l-1]))
	if err != nil {
		return err
	}
	*t = res
	return nil
}
