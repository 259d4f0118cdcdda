package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanreuther/c2ng-sub044/internal/opcode"
	"github.com/stefanreuther/c2ng-sub044/internal/value"
)

func TestMakeLabelIsStrictlyIncreasing(t *testing.T) {
	o := New("test", "test.q")
	a := o.MakeLabel()
	b := o.MakeLabel()
	c := o.MakeLabel()
	assert.Less(t, a, b)
	assert.Less(t, b, c)
	assert.EqualValues(t, 3, o.NumLabels)
}

func TestAddPushLiteralEmpty(t *testing.T) {
	o := New("test", "test.q")
	o.AddPushLiteral(value.NewEmpty())
	require.Len(t, o.Code, 1)
	assert.Equal(t, opcode.New(opcode.Push, opcode.StBoolean, -1), o.Code[0])
}

func TestAddPushLiteralImmediateRange(t *testing.T) {
	o := New("test", "test.q")
	o.AddPushLiteral(value.NewInteger(5))
	require.Len(t, o.Code, 1)
	assert.Equal(t, opcode.New(opcode.Push, opcode.StInteger, 5), o.Code[0])
	assert.Equal(t, 0, o.Literals.Len(), "small immediates must not consume a literal slot")
}

func TestAddPushLiteralDedup(t *testing.T) {
	// Literal dedup correctness: addPushLiteral(v) returning PushLiteral k
	// implies literals[k] semantically equals v.
	o := New("test", "test.q")
	big := value.NewInteger(1 << 20)
	o.AddPushLiteral(big)
	o.AddPushLiteral(big)
	require.Len(t, o.Code, 2)
	assert.Equal(t, o.Code[0], o.Code[1], "second insert should reuse the same literal index")
	assert.Equal(t, 1, o.Literals.Len())
	assert.True(t, o.Literals.At(o.Code[1].Arg).Equal(big))
}

func TestAddNameUniqueness(t *testing.T) {
	o := New("test", "test.q")
	a := o.AddName("foo")
	b := o.AddName("bar")
	c := o.AddName("foo")
	assert.Equal(t, a, c)
	assert.NotEqual(t, a, b)
}

func TestHasUserCall(t *testing.T) {
	o := New("test", "test.q")
	assert.False(t, o.HasUserCall())
	o.AddInstruction(opcode.Special, opcode.SpEvalExpr, 0)
	assert.True(t, o.HasUserCall())

	o2 := New("test2", "test.q")
	o2.AddInstruction(opcode.Indirect, 0, 1)
	assert.True(t, o2.HasUserCall())
}

type fakeCtx struct {
	hasLocal    bool
	locals      map[string]uint16
	allowGlobal bool
	shared      map[string]uint16
}

func (f fakeCtx) HasLocalContext() bool { return f.hasLocal }
func (f fakeCtx) LookupLocal(name string) (uint16, bool) {
	a, ok := f.locals[name]
	return a, ok
}
func (f fakeCtx) AllowsGlobals() bool { return f.allowGlobal }
func (f fakeCtx) LookupShared(name string) (uint16, bool) {
	a, ok := f.shared[name]
	return a, ok
}

func TestAddVariableReferenceInstruction(t *testing.T) {
	o := New("test", "test.q")

	ctxLocal := fakeCtx{hasLocal: true, locals: map[string]uint16{"x": 2}}
	o.AddVariableReferenceInstruction(opcode.Push, "x", ctxLocal)
	assert.Equal(t, opcode.New(opcode.Push, opcode.StLocal, 2), o.Code[len(o.Code)-1])

	ctxShared := fakeCtx{allowGlobal: true, shared: map[string]uint16{"y": 7}}
	o.AddVariableReferenceInstruction(opcode.Push, "y", ctxShared)
	assert.Equal(t, opcode.New(opcode.Push, opcode.StShared, 7), o.Code[len(o.Code)-1])

	ctxNone := fakeCtx{}
	o.AddVariableReferenceInstruction(opcode.Push, "z", ctxNone)
	last := o.Code[len(o.Code)-1]
	assert.Equal(t, opcode.StNamedVariable, last.Minor)
	assert.Equal(t, "z", o.Names.Name(uint16(last.Arg)))
}

func TestGetJumpTargetSymbolicAndAbsolute(t *testing.T) {
	o := New("test", "test.q")
	l := o.MakeLabel()
	o.AddInstruction(opcode.Push, opcode.StInteger, 1) // addr 0
	o.AddInstruction(opcode.Push, opcode.StInteger, 2) // addr 1
	o.AddLabel(l)                                      // placed before addr 2
	o.AddInstruction(opcode.Push, opcode.StInteger, 3) // addr 2

	pc, ok := o.GetJumpTarget(opcode.JSymbolic, int32(l))
	require.True(t, ok)
	assert.Equal(t, 2, pc)

	pc, ok = o.GetJumpTarget(0, 5)
	require.True(t, ok)
	assert.Equal(t, 5, pc)
}

func TestRelocateDropsLabelsAndResolvesJumps(t *testing.T) {
	o := New("test", "test.q")
	l1 := o.MakeLabel()
	o.AddJump(opcode.JAlways, l1)
	o.AddInstruction(opcode.Push, opcode.StInteger, 1)
	o.AddLabel(l1)
	o.AddInstruction(opcode.Push, opcode.StInteger, 2)

	require.NoError(t, o.Relocate())

	require.Len(t, o.Code, 3)
	for _, ins := range o.Code {
		assert.False(t, ins.IsSymbolic())
		assert.False(t, ins.IsLabel())
	}
	assert.Equal(t, opcode.New(opcode.Jump, opcode.JAlways, 2), o.Code[0])
}

func TestRelocateIdempotent(t *testing.T) {
	o := New("test", "test.q")
	l1 := o.MakeLabel()
	o.AddJump(opcode.JIfTrue|opcode.JPopAlways, l1)
	o.AddInstruction(opcode.Push, opcode.StInteger, 1)
	o.AddLabel(l1)

	require.NoError(t, o.Relocate())
	before := append([]opcode.Opcode(nil), o.Code...)
	require.NoError(t, o.Relocate())
	assert.Equal(t, before, o.Code)
}

func TestCompactPreservesSymbolicLabels(t *testing.T) {
	o := New("test", "test.q")
	l1 := o.MakeLabel()
	o.AddInstruction(opcode.Push, opcode.StInteger, 1)
	// an absolute Label (NOP), as the optimizer would leave behind
	o.AddInstruction(opcode.Jump, opcode.JLabel, 0)
	o.AddLabel(l1)
	o.AddInstruction(opcode.Push, opcode.StInteger, 2)

	o.Compact()

	for _, ins := range o.Code {
		assert.False(t, ins.IsLabel() && !ins.IsSymbolic(), "absolute NOP should have been swept")
	}
	found := false
	for _, ins := range o.Code {
		if ins.IsLabel() && ins.IsSymbolic() {
			found = true
		}
	}
	assert.True(t, found, "symbolic label must survive compaction")
}

func TestAppendAssociativityOfSemantics(t *testing.T) {
	build := func() *Object {
		o := New("p", "p.q")
		o.AddName("shared_across_all")
		l := o.MakeLabel()
		o.AddJump(opcode.JAlways, l)
		o.AddPushLiteral(value.NewInteger(1 << 20))
		o.AddLabel(l)
		return o
	}
	a1, b1, c1 := build(), build(), build()
	a2, b2, c2 := build(), build(), build()

	left := New("left", "x.q")
	left.Append(a1)
	left.Append(b1)
	left.Append(c1)

	bc := New("bc", "x.q")
	bc.Append(b2)
	bc.Append(c2)
	right := New("right", "x.q")
	right.Append(a2)
	right.Append(bc)

	assert.NoError(t, left.Relocate())
	assert.NoError(t, right.Relocate())
	assert.Equal(t, len(left.Code), len(right.Code))
}

func TestAppendRemapsLocalAndLiteral(t *testing.T) {
	other := New("other", "o.q")
	other.LocalNames.Add("a")
	other.LocalNames.Add("b")
	other.AddInstruction(opcode.Push, opcode.StLocal, 1) // "b"
	other.AddPushLiteral(value.NewString("hello world this is long enough maybe"))

	o := New("main", "m.q")
	o.LocalNames.Add("x") // occupies index 0, so "b" must NOT collide with it
	o.Append(other)

	push := o.Code[0]
	require.Equal(t, opcode.StLocal, push.Minor)
	assert.Equal(t, "b", o.LocalNames.Name(uint16(push.Arg)))
}

func TestAppendRemapsFusedComparison2StorageArg(t *testing.T) {
	other := New("other", "o.q")
	other.LocalNames.Add("a")
	other.LocalNames.Add("b")
	other.AddInstruction(opcode.FusedComparison2, opcode.StLocal, 1) // "b"

	o := New("main", "m.q")
	o.LocalNames.Add("x") // occupies index 0, so "b" must NOT collide with it
	o.Append(other)

	ins := o.Code[0]
	require.Equal(t, opcode.FusedComparison2, ins.Major)
	require.Equal(t, opcode.StLocal, ins.Minor)
	assert.Equal(t, "b", o.LocalNames.Name(uint16(ins.Arg)))
}
