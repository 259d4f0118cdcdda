// Package opcode defines the instruction descriptor used throughout the
// bytecode core: a (major, minor, arg) triple with classification predicates
// and the disassembly template lookup. Opcode constants are part of the
// on-disk bytecode format (see bytecodeobject.hpp in the reference sources)
// and must not be renumbered casually; the only hard constraint this package
// preserves is that Label == 0, so a zero-initialized Jump is a NOP.
package opcode

import "fmt"

// Major selects the coarse instruction family.
type Major uint8

const (
	Push Major = iota
	Pop
	Store
	Binary
	Unary
	Ternary
	Jump
	Indirect
	Stack
	MemRef
	Dim
	Special

	// Fused families, produced by the fusion pass and reversible by
	// Unfuse back to their External major.
	FusedBinary
	FusedUnary
	FusedComparison
	FusedComparison2
	InplaceUnary

	numMajors
)

func (m Major) String() string {
	names := [...]string{
		"Push", "Pop", "Store", "Binary", "Unary", "Ternary", "Jump",
		"Indirect", "Stack", "MemRef", "Dim", "Special",
		"FusedBinary", "FusedUnary", "FusedComparison", "FusedComparison2", "InplaceUnary",
	}
	if int(m) < len(names) {
		return names[m]
	}
	return fmt.Sprintf("Major(%d)", m)
}

// IsFused reports whether m is one of the fused families produced by the
// fusion pass.
func (m Major) IsFused() bool {
	switch m {
	case FusedBinary, FusedUnary, FusedComparison, FusedComparison2, InplaceUnary:
		return true
	default:
		return false
	}
}

// ExternalMajor projects a fused major back to its un-fused counterpart.
// Every fused major has such a projection; non-fused majors map to
// themselves (so callers can apply it unconditionally).
//
// Fusion always rewrites the EARLIER instruction of a pair, leaving the
// later one (the consumer) untouched: (Push-direct, Binary) becomes
// (FusedBinary, Binary); (Binary-compare, Jump-pop) becomes
// (FusedComparison, Jump-pop); (Push-direct, FusedComparison) becomes
// (FusedComparison2, FusedComparison). So FusedBinary/FusedUnary/
// InplaceUnary/FusedComparison2 all project back to Push (they were a
// rewritten push), while FusedComparison alone projects back to Binary (it
// was a rewritten comparison).
func (m Major) ExternalMajor() Major {
	switch m {
	case FusedBinary, FusedUnary, InplaceUnary, FusedComparison2:
		return Push
	case FusedComparison:
		return Binary
	default:
		return m
	}
}

// Storage class values: the minor of Push/Pop/Store instructions.
const (
	StLiteral uint8 = iota
	StInteger
	StBoolean
	StLocal
	StStatic
	StShared
	StNamedVariable
	StNamedShared
)

// IsDirect reports whether a Push/Pop/Store minor refers to a pool with
// clean ownership semantics. Fusion only applies to direct pushes.
func IsDirect(minor uint8) bool {
	switch minor {
	case StLocal, StStatic, StShared, StNamedShared, StLiteral:
		return true
	default:
		return false
	}
}

// Jump minor bitfield. Label must be 0 so a zero-initialized Jump opcode is
// a harmless NOP marker.
const (
	JLabel     uint8 = 0
	JIfTrue    uint8 = 1
	JIfFalse   uint8 = 2
	JIfEmpty   uint8 = 4
	JAlways    uint8 = JIfTrue | JIfFalse | JIfEmpty
	JPopAlways uint8 = 8
	JSymbolic  uint8 = 16
	JCatch     uint8 = 32
)

// conditionMask isolates the IfTrue/IfFalse/IfEmpty bits of a jump minor,
// excluding PopAlways/Symbolic/Catch.
const conditionMask = JIfTrue | JIfFalse | JIfEmpty

// Opcode is the instruction descriptor: a (major, minor, arg) triple.
type Opcode struct {
	Major Major
	Minor uint8
	Arg   int32
}

// New returns an Opcode with the given fields.
func New(major Major, minor uint8, arg int32) Opcode {
	return Opcode{Major: major, Minor: minor, Arg: arg}
}

// Is reports whether o has the given major and minor.
func (o Opcode) Is(major Major, minor uint8) bool {
	return o.Major == major && o.Minor == minor
}

// IsLabel reports whether o is a Label marker: Jump-major, and the minor
// with the Symbolic bit masked off equals JLabel.
func (o Opcode) IsLabel() bool {
	return o.Major == Jump && (o.Minor&^JSymbolic) == JLabel
}

// IsJumpOrCatch reports whether o is a Jump-major instruction that is
// either a Label marker or installs an exception handler (Catch).
func (o Opcode) IsJumpOrCatch() bool {
	if o.Major != Jump {
		return false
	}
	bare := o.Minor &^ JSymbolic
	return bare == JLabel || bare&JCatch != 0
}

// IsRegularJump reports whether o is a Jump-major instruction that is
// neither a Label marker nor a Catch.
func (o Opcode) IsRegularJump() bool {
	if o.Major != Jump {
		return false
	}
	bare := o.Minor &^ JSymbolic
	return bare != JLabel && bare&JCatch == 0
}

// IsSymbolic reports whether a Jump-major opcode still refers to a symbolic
// label (as opposed to an absolute code address).
func (o Opcode) IsSymbolic() bool {
	return o.Major == Jump && o.Minor&JSymbolic != 0
}

// IsConditionalPop reports whether a regular jump pops the stack
// unconditionally even when not taken -- the "jump-conditional-pop" pattern
// fusion looks for ahead of a comparison.
func (o Opcode) IsConditionalPop() bool {
	return o.IsRegularJump() && o.Minor&JPopAlways != 0
}

// Condition returns the IfTrue/IfFalse/IfEmpty bits of a jump minor.
func (o Opcode) Condition() uint8 {
	return o.Minor & conditionMask
}

// ExternalMajor projects o's major back to its un-fused counterpart.
func (o Opcode) ExternalMajor() Major {
	return o.Major.ExternalMajor()
}

func (o Opcode) String() string {
	return fmt.Sprintf("%s/%d,%d", o.Major, o.Minor, o.Arg)
}
