// Package value implements the narrow tagged-sum value model used by the
// optimizer to fold constant expressions at compile time. It is not a
// general-purpose scripting value system: the runtime that executes a full
// program is an external collaborator (see interpreter/bytecodeobject.hpp in
// the reference sources), and this package only ever needs to evaluate a
// single unary operator against a single immediate operand.
package value

import (
	"fmt"
	"strconv"
)

// Kind identifies which alternative of the tagged sum a Value holds.
type Kind uint8

const (
	Empty Kind = iota
	Boolean
	Integer
	Float
	String
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "Empty"
	case Boolean:
		return "Boolean"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case String:
		return "String"
	default:
		return "Kind(?)"
	}
}

// Value is a narrow tagged union over the scalar types the optimizer needs to
// fold: the tri-state Empty marker, Boolean, Integer, Float and String. Only
// one of i/f/s is meaningful, selected by Kind; Boolean is stored in i as 0/1.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// NewEmpty returns the tri-state Empty value.
func NewEmpty() Value { return Value{kind: Empty} }

// NewBoolean returns a Boolean value.
func NewBoolean(b bool) Value {
	var i int64
	if b {
		i = 1
	}
	return Value{kind: Boolean, i: i}
}

// NewInteger returns an Integer value.
func NewInteger(i int64) Value { return Value{kind: Integer, i: i} }

// NewFloat returns a Float value.
func NewFloat(f float64) Value { return Value{kind: Float, f: f} }

// NewString returns a String value.
func NewString(s string) Value { return Value{kind: String, s: s} }

// Kind reports which alternative this Value holds.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v is the tri-state Empty marker.
func (v Value) IsEmpty() bool { return v.kind == Empty }

// AsInteger returns the integer value and true if v holds an Integer or
// Boolean (booleans coerce to 0/1), otherwise (0, false).
func (v Value) AsInteger() (int64, bool) {
	switch v.kind {
	case Integer, Boolean:
		return v.i, true
	default:
		return 0, false
	}
}

// AsFloat returns the float value and true if v holds a Float, Integer, or
// Boolean, otherwise (0, false).
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case Float:
		return v.f, true
	case Integer, Boolean:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsBoolean returns the boolean value and true if v holds a Boolean,
// otherwise (false, false).
func (v Value) AsBoolean() (bool, bool) {
	if v.kind != Boolean {
		return false, false
	}
	return v.i != 0, true
}

// AsString returns the string value and true if v holds a String, otherwise
// ("", false).
func (v Value) AsString() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.s, true
}

// Equal reports semantic equality: Integer/Float/String compare by value;
// Empty and Boolean compare by identity of kind (and, for Boolean, value).
// This matches the BCO literal-pool dedup rule in bytecodeobject.cpp, which
// treats scalars and strings as value-equal and everything else by identity.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Empty:
		return true
	case Boolean, Integer:
		return v.i == other.i
	case Float:
		return v.f == other.f
	case String:
		return v.s == other.s
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case Empty:
		return "<empty>"
	case Boolean:
		if v.i != 0 {
			return "True"
		}
		return "False"
	case Integer:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case String:
		return v.s
	default:
		return fmt.Sprintf("<invalid Value kind=%d>", v.kind)
	}
}

// FitsSigned15 reports whether v is an Integer or Boolean representable in
// the immediate range used by PushInteger/PushBoolean: -32767..32767, per
// bytecodeobject.cpp's addPushLiteral immediate-range check (and matching
// encodeFoldedLiteral's identical bound for the same question).
func (v Value) FitsSigned15() bool {
	i, ok := v.AsInteger()
	if !ok {
		return false
	}
	return i >= -32767 && i <= 32767
}
