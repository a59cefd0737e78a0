package scval

// Parameter is a JSON-friendly wrapper of a Value, it's marshaled into the
// lossless typed form ({"type": "i128", "value": "..."}).
type Parameter struct {
	Value Value
}

// NewParameter wraps the given value.
func NewParameter(v Value) Parameter {
	return Parameter{Value: v}
}

// MarshalJSON implements the json.Marshaler interface.
func (p Parameter) MarshalJSON() ([]byte, error) {
	return ToJSONWithTypes(p.Value)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	v, err := FromJSONWithTypes(data)
	if err != nil {
		return err
	}
	p.Value = v
	return nil
}
