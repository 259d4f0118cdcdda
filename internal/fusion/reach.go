package fusion

import (
	"github.com/stefanreuther/c2ng-sub044/internal/bytecode"
	"github.com/stefanreuther/c2ng-sub044/internal/opcode"
)

// isOverwrittenLocal answers: starting at pc, does every execution path
// write the local at addr before any read of it, within depth instructions
// of tracing? See spec.md section 4.5 for the full rule table.
func isOverwrittenLocal(o *bytecode.Object, addr uint16, pc, depth int, hasCatch bool) bool {
	budget := depth
	return trace(o, addr, pc, &budget, hasCatch)
}

// rawJumpIndex resolves a regular jump's target to a raw index into o.Code
// (unlike Object.GetJumpTarget, which counts only non-label instructions --
// convenient for relocation, but not for trace, which walks o.Code directly
// and treats labels as free transparent steps).
func rawJumpIndex(o *bytecode.Object, ins opcode.Opcode) (int, bool) {
	if !ins.IsSymbolic() {
		return int(ins.Arg), true
	}
	for i, other := range o.Code {
		if other.IsLabel() && int32(other.Arg) == ins.Arg {
			return i, true
		}
	}
	return 0, false
}

func trace(o *bytecode.Object, addr uint16, pc int, budget *int, hasCatch bool) bool {
	for {
		if pc < 0 || pc >= len(o.Code) {
			// Ran off the end of the program without a conclusive write:
			// cannot prove it's safe.
			return false
		}

		ins := o.Code[pc]

		if ins.IsLabel() {
			// Labels are transparent and free: they don't consume budget.
			pc++
			continue
		}

		if *budget <= 0 {
			return false
		}
		*budget--

		switch ins.Major {
		case opcode.Push:
			if ins.Minor == opcode.StLocal && uint16(ins.Arg) == addr {
				return false // value observed before being overwritten
			}
			pc++

		case opcode.Pop, opcode.Store:
			if ins.Minor == opcode.StLocal && uint16(ins.Arg) == addr {
				return true // overwritten
			}
			pc++

		case opcode.Binary, opcode.Unary, opcode.Ternary,
			opcode.FusedBinary, opcode.FusedUnary, opcode.InplaceUnary,
			opcode.FusedComparison, opcode.FusedComparison2:
			// These can throw; if the BCO uses exception handling anywhere,
			// a handler could observe the local, so reject.
			if hasCatch {
				return false
			}
			pc++

		case opcode.Stack, opcode.Dim:
			pc++

		case opcode.Indirect, opcode.MemRef, opcode.Special:
			return false // arbitrary side effects

		case opcode.Jump:
			if ins.Minor&opcode.JCatch != 0 {
				return false
			}
			if !ins.IsRegularJump() {
				return false
			}
			target, ok := rawJumpIndex(o, ins)
			if !ok {
				return false
			}
			if ins.Condition() != opcode.JAlways {
				// Conditional: both the fall-through and the taken branch
				// must independently satisfy the property.
				if !trace(o, addr, pc+1, budget, hasCatch) {
					return false
				}
			}
			pc = target

		default:
			return false
		}
	}
}
