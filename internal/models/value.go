package models

import (
	"math"
	"strconv"
)

// Kind identifies the scalar type held by a Value
type Kind int

const (
	// KindMissing marks an absent cell. It is the zero Kind.
	KindMissing Kind = iota
	// KindString holds text
	KindString
	// KindInt holds a whole number
	KindInt
	// KindFloat holds a fractional number
	KindFloat
	// KindBool holds a boolean
	KindBool
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a single spreadsheet cell.
// The zero Value is missing, so padding a row never needs an explicit marker.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

// Missing returns the missing-value marker
func Missing() Value { return Value{} }

// String returns a text value
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int returns an integer value
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point value
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind reports the type held by v
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is the missing marker
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// AsInt returns the integer of a KindInt value
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the number held by a KindInt or KindFloat value
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// AsBool returns the boolean of a KindBool value
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// Interface returns v as a plain Go value, nil when missing.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// String formats v for display. Missing values render as an empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Equal reports whether two values hold the same data.
// Int and Float compare numerically since xlsx stores both as one number type.
func (v Value) Equal(other Value) bool {
	if v.isNumber() && other.isNumber() {
		a, _ := v.AsFloat()
		b, _ := other.AsFloat()
		if math.IsNaN(a) && math.IsNaN(b) {
			return true
		}
		return a == b
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == other.s
	case KindBool:
		return v.b == other.b
	default:
		return true
	}
}

func (v Value) isNumber() bool {
	return v.kind == KindInt || v.kind == KindFloat
}
