package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stefanreuther/c2ng-sub044/internal/bytecode"
	"github.com/stefanreuther/c2ng-sub044/internal/opcode"
)

func TestFuseBinaryPair(t *testing.T) {
	o := bytecode.New("test", "t.q")
	o.AddInstruction(opcode.Push, opcode.StLocal, 0)
	o.AddInstruction(opcode.Binary, opcode.BAdd, 0)

	Fuse(o)

	assert.Equal(t, opcode.FusedBinary, o.Code[0].Major)
	assert.Equal(t, opcode.StLocal, o.Code[0].Minor)
	assert.Equal(t, int32(0), o.Code[0].Arg)
	assert.Equal(t, opcode.Binary, o.Code[1].Major)
}

func TestFuseComparisonThenConditionalPop(t *testing.T) {
	o := bytecode.New("test", "t.q")
	o.AddInstruction(opcode.Binary, opcode.BCompareEQ, 0)
	o.AddInstruction(opcode.Jump, opcode.JIfTrue|opcode.JPopAlways, 5)

	Fuse(o)

	assert.Equal(t, opcode.FusedComparison, o.Code[0].Major)
	assert.Equal(t, opcode.BCompareEQ, o.Code[0].Minor)
}

func TestFuseComparison2(t *testing.T) {
	o := bytecode.New("test", "t.q")
	o.AddInstruction(opcode.Push, opcode.StLocal, 1)
	o.AddInstruction(opcode.Binary, opcode.BCompareLT, 0)
	o.AddInstruction(opcode.Jump, opcode.JIfTrue|opcode.JPopAlways, 5)

	Fuse(o)

	assert.Equal(t, opcode.FusedComparison2, o.Code[0].Major)
	assert.Equal(t, opcode.StLocal, o.Code[0].Minor)
	assert.Equal(t, opcode.FusedComparison, o.Code[1].Major)
	assert.Equal(t, opcode.Jump, o.Code[2].Major)
}

func TestFuseUnaryPrefersFusedUnaryWhenNotProvablyDead(t *testing.T) {
	o := bytecode.New("test", "t.q")
	o.AddInstruction(opcode.Push, opcode.StLocal, 0)
	o.AddInstruction(opcode.Unary, opcode.UInc, 0)
	o.AddInstruction(opcode.Push, opcode.StLocal, 0) // re-read: not overwritten

	Fuse(o)

	assert.Equal(t, opcode.FusedUnary, o.Code[0].Major)
}

func TestFuseUnaryPrefersInplaceUnaryWhenProvablyOverwritten(t *testing.T) {
	o := bytecode.New("test", "t.q")
	o.AddInstruction(opcode.Push, opcode.StLocal, 0)
	o.AddInstruction(opcode.Unary, opcode.UInc, 0)
	o.AddInstruction(opcode.Store, opcode.StLocal, 0) // overwritten before any read

	Fuse(o)

	assert.Equal(t, opcode.InplaceUnary, o.Code[0].Major)
}

func TestFuseUnaryRejectsInplaceAcrossCatch(t *testing.T) {
	o := bytecode.New("test", "t.q")
	o.AddInstruction(opcode.Jump, opcode.JCatch|opcode.JSymbolic, 0)
	o.AddLabel(0)
	o.AddInstruction(opcode.Push, opcode.StLocal, 0)
	o.AddInstruction(opcode.Unary, opcode.UInc, 0)
	o.AddInstruction(opcode.Binary, opcode.BAdd, 0) // may throw; a handler exists
	o.AddInstruction(opcode.Store, opcode.StLocal, 0)

	Fuse(o)

	idx := 2
	assert.Equal(t, opcode.FusedUnary, o.Code[idx].Major)
}

func TestUnfuseIsExactInverseOfFuse(t *testing.T) {
	o := bytecode.New("test", "t.q")
	o.AddInstruction(opcode.Push, opcode.StLocal, 0)
	o.AddInstruction(opcode.Binary, opcode.BAdd, 0)
	o.AddInstruction(opcode.Push, opcode.StLiteral, 0)
	o.AddInstruction(opcode.Unary, opcode.UNeg, 0)
	o.AddInstruction(opcode.Push, opcode.StStatic, 2)
	o.AddInstruction(opcode.Binary, opcode.BCompareLT, 0)
	o.AddInstruction(opcode.Jump, opcode.JIfTrue|opcode.JPopAlways, 9)

	before := append([]opcode.Opcode(nil), o.Code...)

	Fuse(o)
	Unfuse(o)

	assert.Equal(t, before, o.Code)
}

func TestIsOverwrittenLocalTracesThroughUnconditionalJump(t *testing.T) {
	o := bytecode.New("test", "t.q")
	o.AddJump(opcode.JAlways, 0)
	o.AddInstruction(opcode.Push, opcode.StLocal, 3) // dead code, never reached by trace start
	o.AddLabel(0)
	o.AddInstruction(opcode.Store, opcode.StLocal, 0)

	assert.True(t, isOverwrittenLocal(o, 0, 0, StoreDepth, false))
}

func TestIsOverwrittenLocalRejectsOnRereadBeforeWrite(t *testing.T) {
	o := bytecode.New("test", "t.q")
	o.AddInstruction(opcode.Push, opcode.StLocal, 0)
	o.AddInstruction(opcode.Store, opcode.StLocal, 0)

	assert.False(t, isOverwrittenLocal(o, 0, 0, StoreDepth, false))
}

func TestIsOverwrittenLocalRejectsPastBudget(t *testing.T) {
	o := bytecode.New("test", "t.q")
	for i := 0; i < StoreDepth+5; i++ {
		o.AddInstruction(opcode.Stack, opcode.StackDup, 0)
	}
	o.AddInstruction(opcode.Store, opcode.StLocal, 0)

	assert.False(t, isOverwrittenLocal(o, 0, 0, StoreDepth, false))
}
