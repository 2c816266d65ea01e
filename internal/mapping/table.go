package mapping

import "sync"

// Table is the ordered collection of mappings. Lookup walks entries in
// insertion order and returns the first match, so duplicate (note, channel)
// pairs are legal but only the earliest is reachable.
type Table struct {
	mu      sync.RWMutex
	entries []Mapping
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add appends a mapping. No uniqueness is enforced.
func (t *Table) Add(m Mapping) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, m)
}

// Find returns the first mapping whose note matches exactly and whose
// channel matches exactly or is flagged any-channel. The second return is
// false when nothing matches; callers log and carry on.
func (t *Table) Find(n Note, ch Channel) (Mapping, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, m := range t.entries {
		if m.Note != n {
			continue
		}
		if m.AnyChannel || m.Channel == ch {
			return m, true
		}
	}
	return Mapping{}, false
}

// Replace swaps the table's contents wholesale. Used by import so a reload
// is all-or-nothing: the old entries stay live until the new set is ready.
func (t *Table) Replace(entries []Mapping) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = entries
}

// Len reports the number of entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
