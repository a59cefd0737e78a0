package scval

import (
	"fmt"
	"strings"
)

// Vec represents an ordered sequence of values.
type Vec []Value

// NewVec returns a new Vec containing the given values.
func NewVec(items ...Value) Vec {
	return Vec(items)
}

// Value implements the Value interface.
func (v Vec) Value() any { return []Value(v) }

// Type implements the Value interface.
func (v Vec) Type() Type { return VecT }

func (v Vec) String() string {
	return "[" + joinValues(v) + "]"
}

// Equals implements the Value interface.
func (v Vec) Equals(o Value) bool {
	switch x := o.(type) {
	case Vec:
		return equalValues(v, x)
	case *Enum:
		return equalValues(v, x.vec())
	default:
		return false
	}
}

// Len returns the length of the Vec.
func (v Vec) Len() int { return len(v) }

// MapElement is a key-value pair of values.
type MapElement struct {
	Key   Value
	Value Value
}

// Map represents a map of values. Elements are kept in the insertion (or
// decoding) order which is used for encoding, lookups are key-based.
type Map struct {
	value []MapElement
}

// NewMap returns a new empty Map.
func NewMap() *Map {
	return &Map{
		value: make([]MapElement, 0),
	}
}

// NewMapWithValue constructs a Map with the given elements.
func NewMapWithValue(value []MapElement) *Map {
	if value != nil {
		return &Map{
			value: value,
		}
	}
	return NewMap()
}

// NewMapWithSymbols constructs a Map with symbol keys taken from keys and
// the corresponding values. It panics if the lengths differ or keys are not
// valid symbols.
func NewMapWithSymbols(keys []string, values []Value) *Map {
	if len(keys) != len(values) {
		panic("keys and values length mismatch")
	}
	m := NewMap()
	for i := range keys {
		m.Add(MustSymbol(keys[i]), values[i])
	}
	return m
}

// Value implements the Value interface.
func (m *Map) Value() any { return m.value }

// Type implements the Value interface.
func (m *Map) Type() Type { return MapT }

func (m *Map) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i := range m.value {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.value[i].Key.String())
		sb.WriteString(": ")
		sb.WriteString(m.value[i].Value.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Equals implements the Value interface. Maps are equal when they have the
// same set of keys with equal values irrespective of elements order.
func (m *Map) Equals(o Value) bool {
	x, ok := o.(*Map)
	if !ok || len(m.value) != len(x.value) {
		return false
	}
	for i := range m.value {
		idx := x.Index(m.value[i].Key)
		if idx < 0 || !m.value[i].Value.Equals(x.value[idx].Value) {
			return false
		}
	}
	return true
}

// Len returns the length of the Map.
func (m *Map) Len() int { return len(m.value) }

// Index returns an index of the key in the map, -1 if it's not present.
func (m *Map) Index(key Value) int {
	for i := range m.value {
		if m.value[i].Key.Equals(key) {
			return i
		}
	}
	return -1
}

// Has checks if the map has the specified key.
func (m *Map) Has(key Value) bool {
	return m.Index(key) >= 0
}

// Get returns the value stored under the key or nil if it's not present.
func (m *Map) Get(key Value) Value {
	if i := m.Index(key); i >= 0 {
		return m.value[i].Value
	}
	return nil
}

// Add adds a new value to the map replacing the value stored under the same
// key if any.
func (m *Map) Add(key, value Value) {
	if i := m.Index(key); i >= 0 {
		m.value[i].Value = value
		return
	}
	m.value = append(m.value, MapElement{Key: key, Value: value})
}

// Field returns the value stored under the symbol key, it's an error for the
// field to be missing.
func (m *Map) Field(name string) (Value, error) {
	if v := m.Get(Symbol(name)); v != nil {
		return v, nil
	}
	return nil, fmt.Errorf("missing field %q", name)
}

// Enum is a tagged variant: a name and zero or more payload values. It's
// encoded as a Vec where the first element is a Symbol with the variant name.
type Enum struct {
	Name    string
	Payload []Value
}

// NewEnum returns a new Enum value with the given variant name and payload.
// It panics if the name is not a valid Symbol.
func NewEnum(name string, payload ...Value) *Enum {
	MustSymbol(name)
	return &Enum{Name: name, Payload: payload}
}

func (e *Enum) vec() Vec {
	res := make(Vec, 0, len(e.Payload)+1)
	res = append(res, Symbol(e.Name))
	return append(res, e.Payload...)
}

// Value implements the Value interface.
func (e *Enum) Value() any { return e }

// Type implements the Value interface. Enum is represented by Vec.
func (e *Enum) Type() Type { return VecT }

func (e *Enum) String() string {
	return "enum:" + e.Name + "(" + joinValues(e.Payload) + ")"
}

// Equals implements the Value interface. Enum equals to the Vec having the
// same shape.
func (e *Enum) Equals(o Value) bool {
	switch x := o.(type) {
	case *Enum:
		return e.Name == x.Name && equalValues(e.Payload, x.Payload)
	case Vec:
		return equalValues(e.vec(), x)
	default:
		return false
	}
}

// Is checks whether the enum has the given variant name.
func (e *Enum) Is(name string) bool {
	return e.Name == name
}

// Len returns the number of payload values.
func (e *Enum) Len() int { return len(e.Payload) }

func equalValues(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

func joinValues(vs []Value) string {
	var sb strings.Builder
	for i := range vs {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(vs[i].String())
	}
	return sb.String()
}
