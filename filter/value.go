package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind is the type of a metadata value.
type ValueKind int

// Metadata value kinds.
const (
	KindBool ValueKind = iota + 1
	KindInt
	KindFloat
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Value is a metadata value: a bool, a signed 64-bit integer, a double or a string.
// Values are built with Bool, Int, Float, String or ValueOf; the zero Value is invalid.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	s    string
}

// Scalar lists the Go types accepted by ValueOf.
type Scalar interface {
	bool | int | int64 | float64 | string
}

// Bool returns a boolean metadata value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int returns an integer metadata value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a floating point metadata value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// String returns a string metadata value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// ValueOf converts any Scalar to a Value.
func ValueOf[T Scalar](v T) Value {
	switch x := any(v).(type) {
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int64:
		return Int(x)
	case float64:
		return Float(x)
	case string:
		return String(x)
	}
	panic("unreachable")
}

// Values converts a slice of scalars.
func Values[T Scalar](vs ...T) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = ValueOf(v)
	}
	return out
}

// Kind returns the value's type.
func (v Value) Kind() ValueKind { return v.kind }

// IsValid reports whether v was built by one of the constructors.
func (v Value) IsValid() bool { return v.kind != 0 }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float payload.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Interface returns the payload as a plain Go value.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		return "<invalid>"
	}
}

// number returns the numeric payload of int and float values.
func (v Value) number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == 0 {
		return nil, fmt.Errorf("filter: marshal invalid metadata value")
	}
	return json.Marshal(v.Interface())
}

// UnmarshalJSON accepts JSON booleans, numbers and strings. Integral numbers
// without a fraction or exponent become KindInt, other numbers KindFloat.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode metadata value: %w", err)
	}
	parsed, err := valueFromJSON(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// valueFromJSON converts a value decoded with UseNumber.
func valueFromJSON(raw any) (Value, error) {
	switch x := raw.(type) {
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		s := x.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := x.Int64(); err == nil {
				return Int(i), nil
			}
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("metadata number %q: %w", s, err)
		}
		return Float(f), nil
	default:
		return Value{}, fmt.Errorf("metadata value was not a boolean, integer, float, or string: %T", raw)
	}
}
