package selection

// Kind distinguishes the two object types a layer tracks.
type Kind uint8

const (
	Ship Kind = iota
	Planet
)

// Universe is the narrow collaborator Selections reads/writes full layers
// against: one ObjectType per Kind.
type Universe interface {
	ObjectType(k Kind) ObjectType
}

// Selections glues NumLayers SelectionVectors of each Kind into one
// collection, plus a "current layer" index and a change signal, mirroring
// game::map::Selections: the missing collection type for the bare
// SelectionVector bit-set.
type Selections struct {
	ships   [NumLayers]Vector
	planets [NumLayers]Vector

	currentLayer int

	listeners []func()
}

// NewSelections returns an empty Selections with layer 0 current.
func NewSelections() *Selections {
	return &Selections{}
}

// Clear resets every layer to empty and the current layer to 0. Does not
// touch any Universe and does not fire the change signal.
func (s *Selections) Clear() {
	for i := range s.ships {
		s.ships[i].Clear()
		s.planets[i].Clear()
	}
	s.currentLayer = 0
}

// OnChange registers a listener invoked after a whole-layer replacement or a
// current-layer change. There is no way to unregister; callers that need
// that should wrap fn with their own liveness check.
func (s *Selections) OnChange(fn func()) {
	s.listeners = append(s.listeners, fn)
}

func (s *Selections) fireChange() {
	for _, fn := range s.listeners {
		fn()
	}
}

// CopyFrom updates layer from u. This does not count as a change to
// selections and does not fire the change signal.
func (s *Selections) CopyFrom(u Universe, layer int) {
	s.ships[layer].CopyFrom(u.ObjectType(Ship))
	s.planets[layer].CopyFrom(u.ObjectType(Planet))
}

// CopyTo writes layer back into u.
func (s *Selections) CopyTo(u Universe, layer int) {
	s.ships[layer].CopyTo(u.ObjectType(Ship))
	s.planets[layer].CopyTo(u.ObjectType(Planet))
}

// LimitToExistingObjects unmarks every id in layer that u no longer has an
// object for.
func (s *Selections) LimitToExistingObjects(u Universe, layer int) {
	s.ships[layer].LimitToExistingObjects(u.ObjectType(Ship))
	s.planets[layer].LimitToExistingObjects(u.ObjectType(Planet))
}

// ExecuteCompiledExpression replaces targetLayer's ship and planet vectors
// with the result of evaluating compiled against all NumLayers layers;
// opCurrent in the expression refers to targetLayer. Fires the change
// signal on success; leaves targetLayer untouched on error.
func (s *Selections) ExecuteCompiledExpression(compiled []byte, targetLayer int, shipLimit, planetLimit int) error {
	shipVectors := s.vectorPointers(s.ships[:])
	planetVectors := s.vectorPointers(s.planets[:])

	var newShips, newPlanets Vector
	if err := newShips.ExecuteCompiledExpression(compiled, targetLayer, shipVectors, shipLimit, false); err != nil {
		return err
	}
	if err := newPlanets.ExecuteCompiledExpression(compiled, targetLayer, planetVectors, planetLimit, true); err != nil {
		return err
	}
	s.ships[targetLayer] = newShips
	s.planets[targetLayer] = newPlanets
	s.fireChange()
	return nil
}

// ExecuteCompiledExpressionAll evaluates compiled once per layer, each with
// its own layer as opCurrent, replacing all layers at once.
func (s *Selections) ExecuteCompiledExpressionAll(compiled []byte, shipLimit, planetLimit int) error {
	shipVectors := s.vectorPointers(s.ships[:])
	planetVectors := s.vectorPointers(s.planets[:])

	newShips := make([]Vector, NumLayers)
	newPlanets := make([]Vector, NumLayers)
	for layer := 0; layer < NumLayers; layer++ {
		if err := newShips[layer].ExecuteCompiledExpression(compiled, layer, shipVectors, shipLimit, false); err != nil {
			return err
		}
		if err := newPlanets[layer].ExecuteCompiledExpression(compiled, layer, planetVectors, planetLimit, true); err != nil {
			return err
		}
	}
	copy(s.ships[:], newShips)
	copy(s.planets[:], newPlanets)
	s.fireChange()
	return nil
}

func (s *Selections) vectorPointers(layers []Vector) []*Vector {
	out := make([]*Vector, len(layers))
	for i := range layers {
		out[i] = &layers[i]
	}
	return out
}

// CurrentLayer returns the current layer index.
func (s *Selections) CurrentLayer() int { return s.currentLayer }

// SetCurrentLayer stores newLayer as current, firing the change signal if
// it differs from the previous value.
func (s *Selections) SetCurrentLayer(newLayer int) {
	if newLayer == s.currentLayer {
		return
	}
	s.currentLayer = newLayer
	s.fireChange()
}

// Get returns the SelectionVector for kind k at layer, or nil if layer is
// out of range.
func (s *Selections) Get(k Kind, layer int) *Vector {
	if layer < 0 || layer >= NumLayers {
		return nil
	}
	if k == Ship {
		return &s.ships[layer]
	}
	return &s.planets[layer]
}

// GetAll returns every layer's SelectionVector for kind k.
func (s *Selections) GetAll(k Kind) []*Vector {
	if k == Ship {
		return s.vectorPointers(s.ships[:])
	}
	return s.vectorPointers(s.planets[:])
}
