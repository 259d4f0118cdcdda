package value

import (
	"fmt"
	"math"
)

// UnaryKind enumerates the "failsafe" unary operators the optimizer is
// willing to fold against an immediate operand (FoldUnaryInt in
// optimizer.cpp) plus the ones MergeNegation/UnaryCondition reason about.
type UnaryKind uint8

const (
	Zap UnaryKind = iota
	Neg
	Pos
	Not
	Not2
	Bool
	Abs
	IsEmptyOp
	IsStringOp
	IsNumOp
	Trunc
	Round
	Inc
	Dec
	BitNot
)

func (k UnaryKind) String() string {
	names := [...]string{"Zap", "Neg", "Pos", "Not", "Not2", "Bool", "Abs",
		"IsEmpty", "IsString", "IsNum", "Trunc", "Round", "Inc", "Dec", "BitNot"}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("UnaryKind(%d)", k)
}

// UnsupportedOperandError reports that a unary operator cannot be applied to
// a value of the given kind. Callers in the optimizer treat this as a soft
// failure (FoldingSoftFailure in spec terms): the rewrite simply does not
// fire, it never aborts the surrounding pass.
type UnsupportedOperandError struct {
	Op   UnaryKind
	Kind Kind
}

func (e *UnsupportedOperandError) Error() string {
	return fmt.Sprintf("unary %s not applicable to %s", e.Op, e.Kind)
}

// ExecuteUnaryOperation evaluates op against v and returns the result. It
// returns an *UnsupportedOperandError (never a panic) when v's kind cannot
// support op, so that FoldUnaryInt in the optimizer can treat the failure as
// "leave the code unchanged" rather than propagating a hard error.
func ExecuteUnaryOperation(op UnaryKind, v Value) (Value, error) {
	switch op {
	case IsEmptyOp:
		return NewBoolean(v.IsEmpty()), nil
	case IsStringOp:
		_, ok := v.AsString()
		return NewBoolean(ok), nil
	case IsNumOp:
		return NewBoolean(v.Kind() == Integer || v.Kind() == Float), nil
	}

	if v.IsEmpty() {
		// Empty propagates through every other operator unchanged, matching
		// the tri-state logic of the reference interpreter.
		switch op {
		case Not, Not2, Bool, Zap:
			return NewEmpty(), nil
		default:
			return NewEmpty(), nil
		}
	}

	switch op {
	case Not:
		b, ok := asTruth(v)
		if !ok {
			return Value{}, &UnsupportedOperandError{op, v.Kind()}
		}
		return NewBoolean(!b), nil

	case Not2:
		b, ok := v.AsBoolean()
		if !ok {
			return Value{}, &UnsupportedOperandError{op, v.Kind()}
		}
		return NewBoolean(!b), nil

	case Bool:
		b, ok := asTruth(v)
		if !ok {
			return Value{}, &UnsupportedOperandError{op, v.Kind()}
		}
		return NewBoolean(b), nil

	case Zap:
		b, ok := asTruth(v)
		if !ok {
			return Value{}, &UnsupportedOperandError{op, v.Kind()}
		}
		if !b {
			return NewEmpty(), nil
		}
		return v, nil

	case Neg:
		if i, ok := v.AsInteger(); ok && v.Kind() != Boolean {
			return NewInteger(-i), nil
		}
		if f, ok := v.AsFloat(); ok {
			return NewFloat(-f), nil
		}
		return Value{}, &UnsupportedOperandError{op, v.Kind()}

	case Pos:
		if v.Kind() == Integer {
			i, _ := v.AsInteger()
			return NewInteger(i), nil
		}
		if v.Kind() == Boolean {
			i, _ := v.AsInteger()
			return NewInteger(i), nil
		}
		if f, ok := v.AsFloat(); ok {
			return NewFloat(f), nil
		}
		return Value{}, &UnsupportedOperandError{op, v.Kind()}

	case Abs:
		if v.Kind() == Integer {
			i, _ := v.AsInteger()
			if i < 0 {
				i = -i
			}
			return NewInteger(i), nil
		}
		if f, ok := v.AsFloat(); ok {
			return NewFloat(math.Abs(f)), nil
		}
		return Value{}, &UnsupportedOperandError{op, v.Kind()}

	case Trunc:
		if f, ok := v.AsFloat(); ok {
			return NewInteger(int64(math.Trunc(f))), nil
		}
		return Value{}, &UnsupportedOperandError{op, v.Kind()}

	case Round:
		if f, ok := v.AsFloat(); ok {
			return NewInteger(int64(math.Round(f))), nil
		}
		return Value{}, &UnsupportedOperandError{op, v.Kind()}

	case Inc:
		if i, ok := v.AsInteger(); ok {
			return NewInteger(i + 1), nil
		}
		if f, ok := v.AsFloat(); ok {
			return NewFloat(f + 1), nil
		}
		return Value{}, &UnsupportedOperandError{op, v.Kind()}

	case Dec:
		if i, ok := v.AsInteger(); ok {
			return NewInteger(i - 1), nil
		}
		if f, ok := v.AsFloat(); ok {
			return NewFloat(f - 1), nil
		}
		return Value{}, &UnsupportedOperandError{op, v.Kind()}

	case BitNot:
		if i, ok := v.AsInteger(); ok && v.Kind() == Integer {
			return NewInteger(^i), nil
		}
		return Value{}, &UnsupportedOperandError{op, v.Kind()}

	default:
		return Value{}, &UnsupportedOperandError{op, v.Kind()}
	}
}

func asTruth(v Value) (bool, bool) {
	switch v.Kind() {
	case Boolean:
		b, _ := v.AsBoolean()
		return b, true
	case Integer:
		i, _ := v.AsInteger()
		return i != 0, true
	default:
		return false, false
	}
}
