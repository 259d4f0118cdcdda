// Package fusion implements the instruction-fusion pass: collapsing
// adjacent (push, consumer) pairs into wider fused instructions, its exact
// inverse, and the local-variable reach analyzer fusion uses to choose
// between a fused and an in-place unary rewrite.
package fusion

import (
	"github.com/stefanreuther/c2ng-sub044/internal/bytecode"
	"github.com/stefanreuther/c2ng-sub044/internal/opcode"
)

// StoreDepth bounds how far ahead the local-variable reach analyzer will
// trace before giving up (and defaulting to "not provably overwritten").
const StoreDepth = 10

// isIncDec reports the only Unary minors eligible for the InplaceUnary
// rewrite: increment and decrement, the two ops whose in-place mutation
// is observably safe once the local is proven dead afterwards.
func isIncDec(minor uint8) bool {
	return minor == opcode.UInc || minor == opcode.UDec
}

// Fuse rewrites o's code in place, collapsing adjacent (push-direct,
// consumer) pairs into fused instructions. The scan runs RIGHT TO LEFT so
// that by the time a Push is examined, any FusedComparison it precedes has
// already been produced by an earlier step of the same pass.
func Fuse(o *bytecode.Object) {
	hasCatch := hasExceptionHandling(o)
	for i := len(o.Code) - 2; i >= 0; i-- {
		prev := o.Code[i]
		next := o.Code[i+1]

		if prev.Major == opcode.Binary && opcode.IsComparisonBinary(prev.Minor) && next.IsConditionalPop() {
			o.Code[i] = opcode.New(opcode.FusedComparison, prev.Minor, prev.Arg)
			continue
		}

		if prev.Major != opcode.Push || !opcode.IsDirect(prev.Minor) {
			continue
		}

		switch next.Major {
		case opcode.Binary:
			o.Code[i] = opcode.New(opcode.FusedBinary, prev.Minor, prev.Arg)
		case opcode.Unary:
			if prev.Minor == opcode.StLocal && isIncDec(next.Minor) &&
				isOverwrittenLocal(o, uint16(prev.Arg), i+2, StoreDepth, hasCatch) {
				o.Code[i] = opcode.New(opcode.InplaceUnary, prev.Minor, prev.Arg)
			} else {
				o.Code[i] = opcode.New(opcode.FusedUnary, prev.Minor, prev.Arg)
			}
		case opcode.FusedComparison:
			o.Code[i] = opcode.New(opcode.FusedComparison2, prev.Minor, prev.Arg)
		}
	}
}

// Unfuse is the exact inverse of Fuse: every instruction's major is
// replaced by its ExternalMajor projection, restoring the pre-fusion
// program bit-for-bit (the fusion round-trip testable property).
func Unfuse(o *bytecode.Object) {
	for i, ins := range o.Code {
		o.Code[i] = opcode.New(ins.Major.ExternalMajor(), ins.Minor, ins.Arg)
	}
}

// hasExceptionHandling reports whether o installs any exception handler
// (a Catch jump) anywhere in its code. Computed once per Fuse call and
// threaded through the reach analyzer, matching the "computed once per BCO
// and cached" rule from spec.md section 4.5 (Fuse itself runs once per
// optimize() cycle, so a single scan already amounts to a cache).
func hasExceptionHandling(o *bytecode.Object) bool {
	for _, ins := range o.Code {
		if ins.Major == opcode.Jump && ins.Minor&opcode.JCatch != 0 {
			return true
		}
	}
	return false
}
