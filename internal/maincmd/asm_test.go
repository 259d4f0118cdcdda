package maincmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanreuther/c2ng-sub044/internal/opcode"
)

func TestAssembleStorageAndBinary(t *testing.T) {
	o, err := assemble("t", "t.q", []string{
		"push loc 0",
		"push loc 1",
		"binary add",
	})
	require.NoError(t, err)
	require.Len(t, o.Code, 3)
	assert.Equal(t, opcode.New(opcode.Push, opcode.StLocal, 0), o.Code[0])
	assert.Equal(t, opcode.New(opcode.Push, opcode.StLocal, 1), o.Code[1])
	assert.Equal(t, opcode.New(opcode.Binary, opcode.BAdd, 0), o.Code[2])
}

func TestAssembleStringLiteralInternsLiteralPool(t *testing.T) {
	o, err := assemble("t", "t.q", []string{`push lit "hi"`})
	require.NoError(t, err)
	require.Len(t, o.Code, 1)
	assert.Equal(t, opcode.StLiteral, o.Code[0].Minor)
	v := o.Literals.At(o.Code[0].Arg)
	s, ok := v.AsString()
	require.True(t, ok)
	assert.Equal(t, "hi", s)
}

func TestAssembleJumpAndLabelResolve(t *testing.T) {
	o, err := assemble("t", "t.q", []string{
		"jt L0",
		"push bool 0",
		"label L0",
		"push bool 1",
	})
	require.NoError(t, err)
	require.Len(t, o.Code, 4)
	assert.True(t, o.Code[0].IsSymbolic())
	assert.Equal(t, opcode.JIfTrue, o.Code[0].Condition())
	assert.True(t, o.Code[2].IsLabel())
}

func TestAssembleNamedInstructions(t *testing.T) {
	o, err := assemble("t", "t.q", []string{
		"push var foo",
		"memref load bar",
		"special defsub baz",
		"dim qux",
	})
	require.NoError(t, err)
	require.Len(t, o.Code, 4)
	assert.Equal(t, "foo", o.Names.Name(uint16(o.Code[0].Arg)))
	assert.Equal(t, "bar", o.Names.Name(uint16(o.Code[1].Arg)))
	assert.Equal(t, "baz", o.Names.Name(uint16(o.Code[2].Arg)))
	assert.Equal(t, "qux", o.Names.Name(uint16(o.Code[3].Arg)))
}

func TestAssembleCommentsAndBlankLinesIgnored(t *testing.T) {
	o, err := assemble("t", "t.q", []string{
		"; a comment",
		"",
		"stack dup ; trailing comment",
	})
	require.NoError(t, err)
	require.Len(t, o.Code, 1)
	assert.Equal(t, opcode.New(opcode.Stack, opcode.StackDup, 0), o.Code[0])
}

func TestAssembleUnknownMnemonicErrors(t *testing.T) {
	_, err := assemble("t", "t.q", []string{"frobnicate"})
	assert.ErrorContains(t, err, "unknown mnemonic")
}

func TestAssembleUnknownBinaryOperatorErrors(t *testing.T) {
	_, err := assemble("t", "t.q", []string{"binary nope"})
	assert.ErrorContains(t, err, "unknown binary operator")
}
