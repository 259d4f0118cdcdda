package bytecode

import "github.com/stefanreuther/c2ng-sub044/internal/value"

// literalDedupWindow bounds how far back FindRecent searches for a
// semantically-equal literal: a per-instruction compile-cost savings
// heuristic from bytecodeobject.cpp's findLiteral, which keeps roughly 2/3
// of the achievable deduplication at a fraction of the cost of a full scan
// or a hash index.
const literalDedupWindow = 20

// Segment is the append-only literal pool backing a BytecodeObject: scalar
// and string values referenced by PushLiteral instructions.
type Segment struct {
	values []value.Value
}

// NewSegment returns an empty literal pool.
func NewSegment() *Segment { return &Segment{} }

// Len reports the number of literals stored.
func (s *Segment) Len() int { return len(s.values) }

// At returns the literal at index i.
func (s *Segment) At(i int32) value.Value { return s.values[i] }

// Add appends v unconditionally and returns its index.
func (s *Segment) Add(v value.Value) int32 {
	idx := int32(len(s.values))
	s.values = append(s.values, v)
	return idx
}

// FindRecent searches the last literalDedupWindow entries for a value
// semantically equal to v (per value.Value.Equal), returning its index.
func (s *Segment) FindRecent(v value.Value) (int32, bool) {
	start := len(s.values) - literalDedupWindow
	if start < 0 {
		start = 0
	}
	for i := len(s.values) - 1; i >= start; i-- {
		if s.values[i].Equal(v) {
			return int32(i), true
		}
	}
	return 0, false
}

// AddOrReuse returns the index of a literal semantically equal to v among
// the last literalDedupWindow entries, appending a new one if none matches.
func (s *Segment) AddOrReuse(v value.Value) int32 {
	if idx, ok := s.FindRecent(v); ok {
		return idx
	}
	return s.Add(v)
}
