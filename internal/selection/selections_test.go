package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUniverse struct {
	ships, planets *fakeObjectType
}

func (u *fakeUniverse) ObjectType(k Kind) ObjectType {
	if k == Ship {
		return u.ships
	}
	return u.planets
}

func TestSelectionsClearResetsLayersAndCurrent(t *testing.T) {
	s := NewSelections()
	s.Get(Ship, 0).Set(1, true)
	s.SetCurrentLayer(3)

	s.Clear()
	assert.False(t, s.Get(Ship, 0).Get(1))
	assert.Equal(t, 0, s.CurrentLayer())
}

func TestSelectionsSetCurrentLayerFiresChangeOnlyWhenDifferent(t *testing.T) {
	s := NewSelections()
	fired := 0
	s.OnChange(func() { fired++ })

	s.SetCurrentLayer(0) // same as initial: no signal
	assert.Equal(t, 0, fired)

	s.SetCurrentLayer(2)
	assert.Equal(t, 1, fired)
}

func TestSelectionsCopyFromAndCopyTo(t *testing.T) {
	u := &fakeUniverse{
		ships:   &fakeObjectType{objects: map[int]*fakeObject{1: {marked: true}}},
		planets: &fakeObjectType{objects: map[int]*fakeObject{2: {marked: false}}},
	}
	s := NewSelections()
	s.CopyFrom(u, 0)
	assert.True(t, s.Get(Ship, 0).Get(1))

	s.Get(Planet, 0).Set(2, true)
	s.CopyTo(u, 0)
	assert.True(t, u.planets.objects[2].marked)
}

func TestSelectionsExecuteCompiledExpressionFiresChange(t *testing.T) {
	s := NewSelections()
	s.Get(Ship, 1).Set(5, true)
	s.Get(Ship, 2).Set(5, true)

	var expr []byte
	sc := NewScanner("B and C")
	require.NoError(t, sc.Next())
	require.NoError(t, Compile(sc, &expr))

	fired := 0
	s.OnChange(func() { fired++ })

	require.NoError(t, s.ExecuteCompiledExpression(expr, 0, 31, 31))
	assert.True(t, s.Get(Ship, 0).Get(5))
	assert.Equal(t, 1, fired)
}

func TestSelectionsExecuteCompiledExpressionAllUsesOwnLayerAsCurrent(t *testing.T) {
	s := NewSelections()
	for layer := 0; layer < NumLayers; layer++ {
		s.Get(Ship, layer).Set(layer+1, true)
	}

	var expr []byte
	sc := NewScanner("current")
	require.NoError(t, sc.Next())
	require.NoError(t, Compile(sc, &expr))

	require.NoError(t, s.ExecuteCompiledExpressionAll(expr, 31, 31))
	for layer := 0; layer < NumLayers; layer++ {
		assert.True(t, s.Get(Ship, layer).Get(layer+1))
	}
}

func TestSelectionsGetOutOfRangeLayerIsNil(t *testing.T) {
	s := NewSelections()
	assert.Nil(t, s.Get(Ship, -1))
	assert.Nil(t, s.Get(Ship, NumLayers))
}
