package statespace

// #region index-map
// IndexMap is a bidirectional name <-> position map over one ordered name list.
type IndexMap struct {
	names []string
	pos   map[string]int
}

// NewIndexMap builds an IndexMap. Duplicate names are reported by the caller via Validate.
func NewIndexMap(names []string) IndexMap {
	m := IndexMap{
		names: append([]string(nil), names...),
		pos:   make(map[string]int, len(names)),
	}
	for i, n := range names {
		if _, dup := m.pos[n]; !dup {
			m.pos[n] = i
		}
	}
	return m
}

// Index returns the position of name.
func (m IndexMap) Index(name string) (int, bool) {
	i, ok := m.pos[name]
	return i, ok
}

// Name returns the name stored at position i, or "" when out of range.
func (m IndexMap) Name(i int) string {
	if i < 0 || i >= len(m.names) {
		return ""
	}
	return m.names[i]
}

// Len is the number of names.
func (m IndexMap) Len() int {
	return len(m.names)
}

// Names returns a copy of the ordered names.
func (m IndexMap) Names() []string {
	return append([]string(nil), m.names...)
}

// #endregion index-map
