package cmdargs

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/soroban-go/pkg/scval"
)

const (
	// ArrayStartSeparator marks the start of vec cli arg.
	ArrayStartSeparator = "["
	// ArrayEndSeparator marks the end of vec cli arg.
	ArrayEndSeparator = "]"
	// MapStartSeparator marks the start of map cli arg.
	MapStartSeparator = "{"
	// MapEndSeparator marks the end of map cli arg.
	MapEndSeparator = "}"
	// PayloadStartSeparator marks the start of enum payload.
	PayloadStartSeparator = "("
	// PayloadEndSeparator marks the end of enum payload.
	PayloadEndSeparator = ")"
)

// ParamsParsingDoc is a documentation for parameters parsing.
const ParamsParsingDoc = `   Arguments are contract values, either typed explicitly or inferred from
   the value. To specify the type manually use "type:value" syntax where the
   type is one of the following: 'bool', 'u32', 'i32', 'u64', 'i64', 'u128',
   'i128', 'u256', 'i256', 'timepoint', 'duration', 'sym', 'string', 'bytes',
   'addr' or 'void'.

   Composite values are built with space-separated special symbols:
    * '[ a b c ]' is a vec of three values, vecs can be nested.
    * '{ k1 v1 k2 v2 }' is a map, keys and values alternate.
    * 'enum:Name' is a unit enum variant, 'enum:Name ( a b )' is a variant
      with payload, it's encoded as vec [sym:Name a b].

   Given values are checked against given types:
    * 'bool' values are 'true' and 'false'.
    * integer values are decimal integers fitting into the type.
    * 'bytes' values are hex-encoded (with or without '0x' prefix).
    * 'addr' values are account (G...) or contract (C...) addresses.
    * 'sym' values are up to 32 characters of [a-zA-Z0-9_].
    * 'void' has no value, 'void' or 'void:' can be used.

   If no type is specified, it's inferred from the value:
    - 'void' and 'nil' get 'void' type
    - 'true' and 'false' get 'bool' type
    - decimal integers get 'i128' type ('i256' if it doesn't fit)
    - valid addresses get 'addr' type
    - '0x'-prefixed hex strings get 'bytes' type
    - anything else is a 'string'

   Backslash escapes a colon in an implicitly typed string.

   Examples:
    * 'u32:42' is a u32 with a value of 42
    * '42' is an i128 with a value of 42
    * 'sym:balance' is a symbol, 'balance' is a string
    * 'string\:x' is a string with a value of 'string:x'
    * '[ 1 2 [ a b ] ]' is a vec of 3 values
    * '{ sym:debt 10 sym:npv 5 }' is a map with symbol keys
    * 'enum:Stellar ( addr:GDLV... )' is an enum variant with payload`

var errUnexpectedEnd = errors.New("unexpected end of arguments")

// ParseParams parses all the arguments into contract values.
func ParseParams(args []string) ([]scval.Value, error) {
	res, _, err := parseList(args, "")
	if err != nil {
		return nil, err
	}
	return res, nil
}

// parseList parses values until the end separator (or the end of args if
// it's empty) returning the arguments following the separator.
func parseList(args []string, end string) ([]scval.Value, []string, error) {
	var res []scval.Value
	for len(args) > 0 {
		if end != "" && args[0] == end {
			return res, args[1:], nil
		}
		switch args[0] {
		case ArrayEndSeparator, MapEndSeparator, PayloadEndSeparator:
			return nil, nil, fmt.Errorf("unexpected %q", args[0])
		}
		v, rest, err := parseOne(args)
		if err != nil {
			return nil, nil, err
		}
		res = append(res, v)
		args = rest
	}
	if end != "" {
		return nil, nil, fmt.Errorf("%w: missing %q", errUnexpectedEnd, end)
	}
	return res, nil, nil
}

func parseOne(args []string) (scval.Value, []string, error) {
	switch {
	case args[0] == ArrayStartSeparator:
		items, rest, err := parseList(args[1:], ArrayEndSeparator)
		if err != nil {
			return nil, nil, err
		}
		return scval.NewVec(items...), rest, nil
	case args[0] == MapStartSeparator:
		items, rest, err := parseList(args[1:], MapEndSeparator)
		if err != nil {
			return nil, nil, err
		}
		if len(items)%2 != 0 {
			return nil, nil, errors.New("map has a key without value")
		}
		m := scval.NewMap()
		for i := 0; i < len(items); i += 2 {
			if m.Has(items[i]) {
				return nil, nil, fmt.Errorf("duplicate map key %s", items[i])
			}
			m.Add(items[i], items[i+1])
		}
		return m, rest, nil
	case args[0] == PayloadStartSeparator:
		return nil, nil, errors.New("enum payload without enum")
	case strings.HasPrefix(args[0], "enum:"):
		name, err := scval.NewSymbol(strings.TrimPrefix(args[0], "enum:"))
		if err != nil {
			return nil, nil, err
		}
		if name == "" {
			return nil, nil, errors.New("empty enum variant name")
		}
		rest := args[1:]
		var payload []scval.Value
		if len(rest) > 0 && rest[0] == PayloadStartSeparator {
			payload, rest, err = parseList(rest[1:], PayloadEndSeparator)
			if err != nil {
				return nil, nil, err
			}
		}
		return scval.NewEnum(string(name), payload...), rest, nil
	}
	v, err := ParseValue(args[0])
	if err != nil {
		return nil, nil, err
	}
	return v, args[1:], nil
}

// ParseValue parses a single scalar argument.
func ParseValue(s string) (scval.Value, error) {
	typ, val, typed := splitTyped(s)
	if !typed {
		return inferValue(val), nil
	}
	return parseTyped(typ, val)
}

// splitTyped splits "type:value" string. Untyped values are returned with
// escape sequences processed.
func splitTyped(s string) (string, string, bool) {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		if _, ok := knownTypes[s[:i]]; ok {
			return s[:i], s[i+1:], true
		}
	}
	var (
		buf     strings.Builder
		escaped bool
	)
	for _, c := range s {
		switch {
		case escaped:
			if c != ':' && c != '\\' {
				buf.WriteRune('\\')
			}
			buf.WriteRune(c)
			escaped = false
		case c == '\\':
			escaped = true
		default:
			buf.WriteRune(c)
		}
	}
	if escaped {
		buf.WriteRune('\\')
	}
	return "", buf.String(), false
}

var knownTypes = map[string]scval.Type{
	"bool":      scval.BoolT,
	"u32":       scval.U32T,
	"i32":       scval.I32T,
	"u64":       scval.U64T,
	"i64":       scval.I64T,
	"u128":      scval.U128T,
	"i128":      scval.I128T,
	"u256":      scval.U256T,
	"i256":      scval.I256T,
	"timepoint": scval.TimepointT,
	"duration":  scval.DurationT,
	"sym":       scval.SymbolT,
	"string":    scval.StringT,
	"bytes":     scval.BytesT,
	"addr":      scval.AddressT,
	"void":      scval.VoidT,
}

func parseTyped(typ, val string) (scval.Value, error) {
	t := knownTypes[typ]
	switch t {
	case scval.BoolT:
		switch val {
		case "true":
			return scval.Bool(true), nil
		case "false":
			return scval.Bool(false), nil
		}
		return nil, fmt.Errorf("invalid bool value %q", val)
	case scval.VoidT:
		if val != "" {
			return nil, fmt.Errorf("void can't have a value: %q", val)
		}
		return scval.Void{}, nil
	case scval.SymbolT:
		sym, err := scval.NewSymbol(val)
		if err != nil {
			return nil, err
		}
		return sym, nil
	case scval.StringT:
		return scval.String(val), nil
	case scval.BytesT:
		b, err := hex.DecodeString(strings.TrimPrefix(val, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid bytes value: %w", err)
		}
		return scval.Bytes(b), nil
	case scval.AddressT:
		return scval.NewAddress(val)
	default:
		i, ok := new(big.Int).SetString(val, 10)
		if !ok {
			return nil, fmt.Errorf("invalid %s value %q", typ, val)
		}
		return scval.NewInteger(t, i)
	}
}

func inferValue(s string) scval.Value {
	switch s {
	case "void", "nil":
		return scval.Void{}
	case "true":
		return scval.Bool(true)
	case "false":
		return scval.Bool(false)
	}
	if i, ok := new(big.Int).SetString(s, 10); ok {
		if v, err := scval.NewInteger(scval.I128T, i); err == nil {
			return v
		}
		if v, err := scval.NewInteger(scval.I256T, i); err == nil {
			return v
		}
	}
	if a, err := scval.NewAddress(s); err == nil {
		return a
	}
	if strings.HasPrefix(s, "0x") {
		if b, err := hex.DecodeString(s[2:]); err == nil {
			return scval.Bytes(b)
		}
	}
	return scval.String(s)
}
