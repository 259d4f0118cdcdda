// Package bytecode implements the BytecodeObject (BCO): the unit of
// compiled script code, its instruction stream, literal/name/local-variable
// pools, symbolic and absolute jump model, debug line map, and the
// structural operations (relocation, compaction, symbolic append) a front
// end and the optimizer rely on.
package bytecode

import (
	"fmt"

	"github.com/stefanreuther/c2ng-sub044/internal/opcode"
	"github.com/stefanreuther/c2ng-sub044/internal/value"
)

// Object is a BytecodeObject: it owns its code, literal pool, name pool,
// local-variable name pool, line-number table, and procedure metadata.
type Object struct {
	Code        []opcode.Opcode
	Literals    *Segment
	Names       *NameMap
	LocalNames  *NameMap
	LineNumbers []LinePair

	Name        string
	FileName    string
	MinArgs     int
	MaxArgs     int
	IsProcedure bool
	IsVarargs   bool

	// NumLabels is both the count of labels allocated so far and the next
	// id MakeLabel will hand out: label ids are dense and monotonic.
	NumLabels uint16
}

// New returns an empty BytecodeObject, ready to be populated by a front
// end.
func New(name, fileName string) *Object {
	return &Object{
		Literals:   NewSegment(),
		Names:      NewNameMap(),
		LocalNames: NewNameMap(),
		Name:       name,
		FileName:   fileName,
	}
}

// MakeLabel allocates a fresh label id without placing it. Label ids are
// strictly increasing, per the Label-stability testable property.
func (o *Object) MakeLabel() uint16 {
	id := o.NumLabels
	o.NumLabels++
	return id
}

// AddLabel places label id at the current end of code by emitting a
// Label+Symbolic instruction.
func (o *Object) AddLabel(id uint16) {
	o.Code = append(o.Code, opcode.New(opcode.Jump, opcode.JLabel|opcode.JSymbolic, int32(id)))
}

// AddJump appends a symbolic Jump instruction with the given condition/pop
// flags, targeting label id.
func (o *Object) AddJump(flags uint8, id uint16) {
	o.Code = append(o.Code, opcode.New(opcode.Jump, flags|opcode.JSymbolic, int32(id)))
}

// AddInstruction appends an Opcode verbatim.
func (o *Object) AddInstruction(major opcode.Major, minor uint8, arg int32) {
	o.Code = append(o.Code, opcode.New(major, minor, arg))
}

// AddPushLiteral emits the cheapest instruction that pushes v: an immediate
// PushBoolean -1 for Empty, an immediate PushInteger/PushBoolean for small
// in-range scalars, or a PushLiteral against a (possibly reused) literal-
// pool entry otherwise. See bytecodeobject.cpp's addPushLiteral.
func (o *Object) AddPushLiteral(v value.Value) {
	if v.IsEmpty() {
		o.AddInstruction(opcode.Push, opcode.StBoolean, -1)
		return
	}
	if v.FitsSigned15() {
		i, _ := v.AsInteger()
		minor := opcode.StInteger
		if v.Kind() == value.Boolean {
			minor = opcode.StBoolean
		}
		o.AddInstruction(opcode.Push, minor, int32(i))
		return
	}
	idx := o.Literals.AddOrReuse(v)
	o.AddInstruction(opcode.Push, opcode.StLiteral, idx)
}

// AddVariableReferenceInstruction emits the narrowest variable-reference
// instruction available for name in ctx: Local if ctx declares a local
// scope and knows the name, Shared if ctx allows globals and knows the
// name, else NamedVariable against the name pool.
func (o *Object) AddVariableReferenceInstruction(major opcode.Major, name string, ctx VariableContext) {
	if ctx != nil && ctx.HasLocalContext() {
		if addr, ok := ctx.LookupLocal(name); ok {
			o.AddInstruction(major, opcode.StLocal, int32(addr))
			return
		}
	}
	if ctx != nil && ctx.AllowsGlobals() {
		if addr, ok := ctx.LookupShared(name); ok {
			o.AddInstruction(major, opcode.StShared, int32(addr))
			return
		}
	}
	idx := o.AddName(name)
	o.AddInstruction(major, opcode.StNamedVariable, int32(idx))
}

// AddName interns name in the name pool, returning its stable index.
func (o *Object) AddName(name string) uint16 {
	return o.Names.Add(name)
}

// HasUserCall reports whether the code contains any Indirect-major
// instruction or any Special-major instruction with a user-call minor
// (EvalStatement, EvalExpr, RunHook).
func (o *Object) HasUserCall() bool {
	for _, ins := range o.Code {
		if ins.Major == opcode.Indirect {
			return true
		}
		if ins.Major == opcode.Special && opcode.IsUserCallSpecial(ins.Minor) {
			return true
		}
	}
	return false
}

// GetJumpTarget resolves a jump's target address: if minor has the
// Symbolic bit set, it scans code for the matching Label placement (and
// returns (0, false) if none is found); otherwise arg is already an
// absolute pc.
func (o *Object) GetJumpTarget(minor uint8, arg int32) (int, bool) {
	if minor&opcode.JSymbolic == 0 {
		return int(arg), true
	}
	pc := 0
	for _, ins := range o.Code {
		if ins.IsLabel() {
			if int32(ins.Arg) == arg {
				return pc, true
			}
			continue
		}
		pc++
	}
	return 0, false
}

// CopyLocalVariablesFrom appends other's local names into this BCO's local
// pool. NameMap.Add already dedups, so no further bookkeeping is needed.
func (o *Object) CopyLocalVariablesFrom(other *Object) {
	for _, n := range other.LocalNames.Names() {
		o.LocalNames.Add(n)
	}
}

// Disassemble renders one line per instruction using each opcode's
// disassembly template. This is a diagnostics-only format (spec.md section
// 6), never persisted.
func (o *Object) Disassemble() []string {
	lines := make([]string, 0, len(o.Code))
	addr := 0
	for _, ins := range o.Code {
		tmpl := opcode.GetDisassemblyTemplate(ins)
		text := renderTemplate(tmpl, ins, o)
		if ins.IsLabel() {
			lines = append(lines, fmt.Sprintf("        %s", text))
		} else {
			lines = append(lines, fmt.Sprintf("%6d: %s", addr, text))
			addr++
		}
	}
	return lines
}

func renderTemplate(tmpl string, ins opcode.Opcode, o *Object) string {
	out := make([]byte, 0, len(tmpl)+8)
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' || i+1 >= len(tmpl) {
			out = append(out, tmpl[i])
			continue
		}
		i++
		switch tmpl[i] {
		case 'n':
			out = append(out, o.Names.Name(uint16(ins.Arg))...)
		case 'l':
			out = append(out, o.Literals.At(ins.Arg).String()...)
		case 'L':
			out = append(out, o.LocalNames.Name(uint16(ins.Arg))...)
		case 'G':
			out = append(out, fmt.Sprintf("#%d", ins.Arg)...)
		case 'd':
			out = append(out, fmt.Sprintf("%d", ins.Arg)...)
		case 'u':
			out = append(out, fmt.Sprintf("%d", uint32(ins.Arg))...)
		default:
			out = append(out, '%', tmpl[i])
		}
	}
	return string(out)
}
