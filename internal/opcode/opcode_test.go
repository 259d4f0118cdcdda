package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLabel(t *testing.T) {
	cases := []struct {
		desc string
		o    Opcode
		want bool
	}{
		{"zero value jump is a label (Label must be 0)", Opcode{Major: Jump}, true},
		{"symbolic label", New(Jump, JLabel|JSymbolic, 3), true},
		{"regular jump is not a label", New(Jump, JAlways|JSymbolic, 0), false},
		{"non-jump major", New(Push, StInteger, 0), false},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			assert.Equal(t, c.want, c.o.IsLabel())
		})
	}
}

func TestIsJumpOrCatchAndRegularJump(t *testing.T) {
	label := New(Jump, JLabel|JSymbolic, 1)
	catch := New(Jump, JCatch|JSymbolic, 2)
	regular := New(Jump, JAlways|JSymbolic, 3)

	assert.True(t, label.IsJumpOrCatch())
	assert.True(t, catch.IsJumpOrCatch())
	assert.False(t, regular.IsJumpOrCatch())

	assert.False(t, label.IsRegularJump())
	assert.False(t, catch.IsRegularJump())
	assert.True(t, regular.IsRegularJump())
}

func TestExternalMajor(t *testing.T) {
	assert.Equal(t, Push, FusedBinary.ExternalMajor())
	assert.Equal(t, Push, FusedUnary.ExternalMajor())
	assert.Equal(t, Push, InplaceUnary.ExternalMajor())
	assert.Equal(t, Binary, FusedComparison.ExternalMajor())
	assert.Equal(t, Push, FusedComparison2.ExternalMajor())
	assert.Equal(t, Push, Push.ExternalMajor())
}

func TestIsDirect(t *testing.T) {
	assert.True(t, IsDirect(StLocal))
	assert.True(t, IsDirect(StStatic))
	assert.True(t, IsDirect(StShared))
	assert.True(t, IsDirect(StNamedShared))
	assert.True(t, IsDirect(StLiteral))
	assert.False(t, IsDirect(StNamedVariable))
	assert.False(t, IsDirect(StInteger))
	assert.False(t, IsDirect(StBoolean))
}

func TestIsCaseBlindAndComparison(t *testing.T) {
	assert.True(t, IsCaseBlind(BCompareEQ_NC))
	assert.False(t, IsCaseBlind(BCompareEQ))
	assert.True(t, IsComparisonBinary(BCompareGT_NC))
	assert.False(t, IsComparisonBinary(BAdd))
}

func TestResultIsBooleanAndNumeric(t *testing.T) {
	assert.True(t, ResultIsBoolean(BCompareEQ))
	assert.True(t, ResultIsBoolean(BAnd))
	assert.False(t, ResultIsBoolean(BAdd))

	assert.True(t, ResultIsNumeric(BAdd))
	assert.True(t, ResultIsNumeric(BBitAnd))
	assert.False(t, ResultIsNumeric(BCompareEQ))
}

func TestEndsControlFlow(t *testing.T) {
	assert.True(t, EndsControlFlow(SpReturn))
	assert.True(t, EndsControlFlow(SpThrow))
	assert.True(t, EndsControlFlow(SpTerminate))
	assert.False(t, EndsControlFlow(SpDefSub))
}

func TestGetDisassemblyTemplateCoversAllMajors(t *testing.T) {
	// Every major must produce a non-empty template; this guards against a
	// forgotten case falling through to the generic "?" fallback silently.
	majors := []Major{Push, Pop, Store, Binary, Unary, Ternary, Jump, Indirect,
		Stack, MemRef, Dim, Special, FusedBinary, FusedUnary, FusedComparison,
		FusedComparison2, InplaceUnary}
	for _, m := range majors {
		o := New(m, 0, 0)
		tmpl := GetDisassemblyTemplate(o)
		assert.NotEmpty(t, tmpl)
	}
}
