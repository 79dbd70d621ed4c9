// Package manifest loads and indexes the typed command catalog (the
// "manifest") negotiated once per connection lifecycle (§3, §4.3).
package manifest

import (
	"fmt"

	"github.com/marmos91/ifconnect/internal/wire"
)

// Manifest is an immutable snapshot of the catalog, indexed both by name
// and by command id. Both indices are built once and never mutated,
// satisfying the invariant that the set of names and ids are each unique
// within a snapshot (§3).
type Manifest struct {
	byName map[string]wire.Entry
	byID   map[int32]wire.Entry
}

// New builds a Manifest from parsed entries, rejecting duplicate names
// or duplicate command ids rather than silently keeping the last one —
// a duplicate indicates the peer's catalog is internally inconsistent.
func New(entries []wire.Entry) (*Manifest, error) {
	m := &Manifest{
		byName: make(map[string]wire.Entry, len(entries)),
		byID:   make(map[int32]wire.Entry, len(entries)),
	}
	for _, e := range entries {
		if _, dup := m.byName[e.Name]; dup {
			return nil, fmt.Errorf("%w: name %q", ErrDuplicateEntry, e.Name)
		}
		if _, dup := m.byID[e.CommandID]; dup {
			return nil, fmt.Errorf("%w: command id %d", ErrDuplicateEntry, e.CommandID)
		}
		m.byName[e.Name] = e
		m.byID[e.CommandID] = e
	}
	return m, nil
}

// ByName looks up an entry by its path-shaped manifest name.
func (m *Manifest) ByName(name string) (wire.Entry, bool) {
	if m == nil {
		return wire.Entry{}, false
	}
	e, ok := m.byName[name]
	return e, ok
}

// ByID looks up an entry by command id, used by the demultiplexer to
// resolve an inbound frame's declared type (§4.7 step 1).
func (m *Manifest) ByID(id int32) (wire.Entry, bool) {
	if m == nil {
		return wire.Entry{}, false
	}
	e, ok := m.byID[id]
	return e, ok
}

// Len reports the number of catalog entries.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.byName)
}

// Entries returns a copy of all entries, for diagnostics (e.g. the
// `ifcshell manifest` command's table listing). Callers must not rely on
// any particular order.
func (m *Manifest) Entries() []wire.Entry {
	if m == nil {
		return nil
	}
	out := make([]wire.Entry, 0, len(m.byName))
	for _, e := range m.byName {
		out = append(out, e)
	}
	return out
}
