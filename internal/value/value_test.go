package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueEqual(t *testing.T) {
	cases := []struct {
		desc string
		a, b Value
		want bool
	}{
		{"equal integers", NewInteger(5), NewInteger(5), true},
		{"different integers", NewInteger(5), NewInteger(6), false},
		{"equal strings", NewString("foo"), NewString("foo"), true},
		{"different kinds", NewInteger(0), NewBoolean(false), false},
		{"empty equals empty", NewEmpty(), NewEmpty(), true},
		{"float precision", NewFloat(1.5), NewFloat(1.5), true},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			assert.Equal(t, c.want, c.a.Equal(c.b))
		})
	}
}

func TestFitsSigned15(t *testing.T) {
	assert.True(t, NewInteger(0).FitsSigned15())
	assert.True(t, NewInteger(32767).FitsSigned15())
	assert.True(t, NewInteger(-32767).FitsSigned15())
	assert.False(t, NewInteger(32768).FitsSigned15())
	assert.False(t, NewInteger(-32768).FitsSigned15())
	assert.False(t, NewString("x").FitsSigned15())
}

func TestExecuteUnaryOperationNeg(t *testing.T) {
	// Scenario 1 from the testable-properties catalog: Neg 5 -> -5.
	got, err := ExecuteUnaryOperation(Neg, NewInteger(5))
	require.NoError(t, err)
	i, ok := got.AsInteger()
	require.True(t, ok)
	assert.EqualValues(t, -5, i)
}

func TestExecuteUnaryOperationEmptyPropagates(t *testing.T) {
	got, err := ExecuteUnaryOperation(Not, NewEmpty())
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestExecuteUnaryOperationUnsupported(t *testing.T) {
	_, err := ExecuteUnaryOperation(Neg, NewString("x"))
	require.Error(t, err)
	var unsupported *UnsupportedOperandError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, Neg, unsupported.Op)
}

func TestExecuteUnaryOperationTable(t *testing.T) {
	cases := []struct {
		desc string
		op   UnaryKind
		in   Value
		want Value
	}{
		{"Not true", Not, NewBoolean(true), NewBoolean(false)},
		{"Not false", Not, NewBoolean(false), NewBoolean(true)},
		{"Bool nonzero int", Bool, NewInteger(3), NewBoolean(true)},
		{"Bool zero int", Bool, NewInteger(0), NewBoolean(false)},
		{"Zap false", Zap, NewBoolean(false), NewEmpty()},
		{"Zap true passthrough", Zap, NewBoolean(true), NewBoolean(true)},
		{"Abs negative", Abs, NewInteger(-4), NewInteger(4)},
		{"Inc", Inc, NewInteger(9), NewInteger(10)},
		{"Dec", Dec, NewInteger(9), NewInteger(8)},
		{"IsEmpty true", IsEmptyOp, NewEmpty(), NewBoolean(true)},
		{"IsEmpty false", IsEmptyOp, NewInteger(1), NewBoolean(false)},
		{"IsString true", IsStringOp, NewString("x"), NewBoolean(true)},
		{"IsNum true", IsNumOp, NewFloat(1.5), NewBoolean(true)},
		{"BitNot", BitNot, NewInteger(0), NewInteger(-1)},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			got, err := ExecuteUnaryOperation(c.op, c.in)
			require.NoError(t, err)
			assert.True(t, c.want.Equal(got), "got %v want %v", got, c.want)
		})
	}
}
