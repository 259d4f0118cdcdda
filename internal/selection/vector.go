package selection

import (
	"math/bits"

	"golang.org/x/exp/slices"

	"github.com/stefanreuther/c2ng-sub044/internal/cerr"
)

const bitsPerWord = 32

// ObjectType is the narrow game-domain collaborator a SelectionVector reads
// marks from and writes marks back to. GetNextIndex(0) starts an iteration;
// repeated calls with the previous result continue it until 0 is returned.
type ObjectType interface {
	GetNextIndex(afterID int) int
	GetObjectByIndex(id int) Object
}

// Object is the single marked/unmarked bit a game object exposes.
type Object interface {
	IsMarked() bool
	SetIsMarked(bool)
}

// Vector is a bit-set of marked object ids, one word per 32 consecutive ids.
// The backing slice grows on demand (Set) and is otherwise untouched;
// out-of-range reads report unmarked rather than panicking.
type Vector struct {
	data []uint32
}

// Clear sets every bit to unmarked.
func (v *Vector) Clear() {
	v.data = nil
}

// growTo extends v.data to length n, zero-filling the new words, if it is
// currently shorter.
func (v *Vector) growTo(n int) {
	if n <= len(v.data) {
		return
	}
	v.data = slices.Grow(v.data, n-len(v.data))[:n]
}

// MergeFrom ORs other's bits into v, growing v if needed.
func (v *Vector) MergeFrom(other *Vector) {
	v.growTo(len(other.data))
	for i, w := range other.data {
		v.data[i] |= w
	}
}

// CopyFrom replaces v's bits with the marked ids found in typ.
func (v *Vector) CopyFrom(typ ObjectType) {
	// Discard the backing array rather than reslice to [:0]: growTo would
	// otherwise reuse the old capacity without zeroing it, resurrecting
	// stale marked bits from a previous CopyFrom call.
	v.Clear()
	for id := typ.GetNextIndex(0); id != 0; id = typ.GetNextIndex(id) {
		if obj := typ.GetObjectByIndex(id); obj != nil && obj.IsMarked() {
			v.Set(id, true)
		}
	}
}

// CopyTo writes v's bits back into typ's objects.
func (v *Vector) CopyTo(typ ObjectType) {
	for id := typ.GetNextIndex(0); id != 0; id = typ.GetNextIndex(id) {
		if obj := typ.GetObjectByIndex(id); obj != nil {
			obj.SetIsMarked(v.Get(id))
		}
	}
}

// LimitToExistingObjects unmarks every id that typ no longer has an object
// for.
func (v *Vector) LimitToExistingObjects(typ ObjectType) {
	limit := len(v.data) * bitsPerWord
	for id := 0; id < limit; id++ {
		if typ.GetObjectByIndex(id) == nil {
			v.Set(id, false)
		}
	}
}

// GetNumMarkedObjects returns the population count of v's bits.
func (v *Vector) GetNumMarkedObjects() int {
	n := 0
	for _, w := range v.data {
		n += bits.OnesCount32(w)
	}
	return n
}

// Get reports whether id is marked.
func (v *Vector) Get(id int) bool {
	if id < 0 {
		return false
	}
	index := id / bitsPerWord
	if index >= len(v.data) {
		return false
	}
	return v.data[index]&(1<<uint(id%bitsPerWord)) != 0
}

// Set marks or unmarks id, growing the backing slice if needed to mark an
// id past the current end.
func (v *Vector) Set(id int, value bool) {
	if id < 0 {
		return
	}
	index := id / bitsPerWord
	if index >= len(v.data) {
		if !value {
			return
		}
		v.growTo(index + 1)
	}
	bit := uint32(1) << uint(id%bitsPerWord)
	if value {
		v.data[index] |= bit
	} else {
		v.data[index] &^= bit
	}
}

// Words returns a copy of v's backing words, safe for a caller to retain or
// mutate without aliasing v's internal storage.
func (v *Vector) Words() []uint32 {
	return slices.Clone(v.data)
}

func (v *Vector) getWord(index int) uint32 {
	if index < len(v.data) {
		return v.data[index]
	}
	return 0
}

// ExecuteCompiledExpression replaces v's content with the result of
// evaluating a compiled RPN program (see Compile) over ceil(limit/32)+1
// words, one word-parallel stack per word position. otherVectors supplies
// the layer references (opFirstLayer+n) and the current-layer reference
// (currentLayer indexes into otherVectors).
func (v *Vector) ExecuteCompiledExpression(compiled []byte, currentLayer int, otherVectors []*Vector, limit int, isPlanet bool) error {
	wordLimit := (limit+bitsPerWord-1)/bitsPerWord + 1
	out := make([]uint32, wordLimit)

	for i := 0; i < wordLimit; i++ {
		var stack []uint32
		for _, op := range compiled {
			switch op {
			case OpAnd:
				if len(stack) < 2 {
					return selectionError()
				}
				stack[len(stack)-2] &= stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			case OpOr:
				if len(stack) < 2 {
					return selectionError()
				}
				stack[len(stack)-2] |= stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			case OpXor:
				if len(stack) < 2 {
					return selectionError()
				}
				stack[len(stack)-2] ^= stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			case OpNot:
				if len(stack) < 1 {
					return selectionError()
				}
				stack[len(stack)-1] = ^stack[len(stack)-1]
			case OpCurrent:
				other, err := layerAt(otherVectors, currentLayer)
				if err != nil {
					return err
				}
				stack = append(stack, other.getWord(i))
			case OpShip:
				stack = append(stack, boolWord(!isPlanet))
			case OpPlanet:
				stack = append(stack, boolWord(isPlanet))
			case OpZero:
				stack = append(stack, 0)
			case OpOne:
				stack = append(stack, ^uint32(0))
			default:
				if op < OpFirstLayer {
					return selectionError()
				}
				other, err := layerAt(otherVectors, int(op-OpFirstLayer))
				if err != nil {
					return err
				}
				stack = append(stack, other.getWord(i))
			}
		}
		if len(stack) != 1 {
			return selectionError()
		}
		out[i] = stack[0]
	}

	v.data = out
	return nil
}

func layerAt(vectors []*Vector, index int) (*Vector, error) {
	if index < 0 || index >= len(vectors) || vectors[index] == nil {
		return nil, selectionError()
	}
	return vectors[index], nil
}

func boolWord(b bool) uint32 {
	if b {
		return ^uint32(0)
	}
	return 0
}

func selectionError() error {
	return &cerr.MalformedSelectionExpressionError{Reason: "invalid selection operation"}
}
