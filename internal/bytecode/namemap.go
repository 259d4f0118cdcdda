package bytecode

import "github.com/dolthub/swiss"

// NameMap is an append-only pool of unique strings with stable indices.
// Index 0 is the first name ever added; indices never change once assigned.
// The ordered slice is the authoritative index->name projection that Append
// and Relocate iterate over; the swiss-table side index exists purely to
// make Add's existing-index lookup O(1) once the pool grows past a handful
// of entries (name pools in real scripts run into the hundreds).
type NameMap struct {
	names []string
	index *swiss.Map[string, uint16]
}

// NewNameMap returns an empty NameMap.
func NewNameMap() *NameMap {
	return &NameMap{index: swiss.NewMap[string, uint16](8)}
}

// Add interns name, returning its existing index if present or a freshly
// assigned one otherwise.
func (m *NameMap) Add(name string) uint16 {
	if idx, ok := m.index.Get(name); ok {
		return idx
	}
	idx := uint16(len(m.names))
	m.names = append(m.names, name)
	m.index.Put(name, idx)
	return idx
}

// Lookup reports the index of name without inserting it.
func (m *NameMap) Lookup(name string) (uint16, bool) {
	return m.index.Get(name)
}

// Name returns the name at index i.
func (m *NameMap) Name(i uint16) string { return m.names[i] }

// Len reports the number of distinct names interned so far.
func (m *NameMap) Len() int { return len(m.names) }

// Names returns the ordered index->name slice. Callers must not modify it.
func (m *NameMap) Names() []string { return m.names }
