package bytecode

import "github.com/stefanreuther/c2ng-sub044/internal/opcode"

// Append deep-copies other's code onto the end of o, preserving the
// semantics of both programs: other's symbolic labels are renumbered by
// adding o's current NumLabels as a base, name and literal references are
// remapped into o's pools, and absolute jumps are rebased by o's current
// code length. See bytecodeobject.cpp's append() for the exact per-major
// remapping rules this mirrors.
func (o *Object) Append(other *Object) {
	labelBase := o.NumLabels
	o.NumLabels += other.NumLabels
	codeBase := int32(len(o.Code))

	for _, ins := range other.Code {
		o.Code = append(o.Code, o.remapForAppend(ins, other, labelBase, codeBase))
	}

	for _, lp := range other.LineNumbers {
		o.LineNumbers = addLineAt(o.LineNumbers, lp.Addr+int(codeBase), lp.Line)
	}
}

func (o *Object) remapForAppend(ins opcode.Opcode, other *Object, labelBase uint16, codeBase int32) opcode.Opcode {
	switch ins.Major {
	case opcode.Push, opcode.Pop, opcode.Store,
		opcode.FusedBinary, opcode.FusedUnary, opcode.InplaceUnary, opcode.FusedComparison2:
		return o.remapStorageArg(ins, other)

	case opcode.Binary, opcode.Unary, opcode.Ternary, opcode.Stack, opcode.Indirect, opcode.FusedComparison:
		return ins

	case opcode.Jump:
		// Symbolic (including a symbolic Label placement or a Catch/regular
		// jump targeting a label id) is rebased into this BCO's label
		// space; absolute (including an absolute Label/NOP, whose arg is
		// otherwise unused) is rebased by this BCO's code-length base.
		if ins.IsSymbolic() {
			return opcode.New(ins.Major, ins.Minor, ins.Arg+int32(labelBase))
		}
		return opcode.New(ins.Major, ins.Minor, ins.Arg+codeBase)

	case opcode.MemRef, opcode.Dim:
		name := other.Names.Name(uint16(ins.Arg))
		return opcode.New(ins.Major, ins.Minor, int32(o.AddName(name)))

	case opcode.Special:
		if opcode.IsNameBearingSpecial(ins.Minor) {
			name := other.Names.Name(uint16(ins.Arg))
			return opcode.New(ins.Major, ins.Minor, int32(o.AddName(name)))
		}
		return ins

	default:
		return ins
	}
}

// remapStorageArg handles the Push/Pop/Store family (and its fused/inplace
// variants, which share the same minor space): NamedVariable/NamedShared
// re-intern the name, Local adds-or-gets the local name, Literal re-inserts
// via the same dedup path as AddPushLiteral, and Integer/Boolean/Static/
// Shared pass through verbatim.
func (o *Object) remapStorageArg(ins opcode.Opcode, other *Object) opcode.Opcode {
	switch ins.Minor {
	case opcode.StNamedVariable, opcode.StNamedShared:
		name := other.Names.Name(uint16(ins.Arg))
		return opcode.New(ins.Major, ins.Minor, int32(o.AddName(name)))
	case opcode.StLocal:
		name := other.LocalNames.Name(uint16(ins.Arg))
		newAddr := o.LocalNames.Add(name)
		return opcode.New(ins.Major, ins.Minor, int32(newAddr))
	case opcode.StLiteral:
		v := other.Literals.At(ins.Arg)
		newIdx := o.Literals.AddOrReuse(v)
		return opcode.New(ins.Major, ins.Minor, newIdx)
	default: // StInteger, StBoolean, StStatic, StShared
		return ins
	}
}
