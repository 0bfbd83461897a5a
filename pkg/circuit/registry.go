package circuit

import (
	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
)

// Entry is one unknown branch current.
type Entry struct {
	Name  string
	Kind  netlist.Kind
	P, N  int
	Index int // 0-based column in B, row in C, row and column in D
}

// Registry assigns one index to every element carrying its own branch
// current, in netlist order. Every stamping pass reads indices from the same
// registry.
type Registry struct {
	entries []Entry
	byName  map[string]int
}

// NewRegistry collects inductors, voltage sources, op amps and the
// controlled sources E, H and F.
func NewRegistry(elems []netlist.Element) *Registry {
	r := &Registry{byName: make(map[string]int)}
	for _, e := range elems {
		if !e.Kind.HasBranch() {
			continue
		}
		if _, dup := r.byName[e.Name]; dup {
			continue
		}
		r.byName[e.Name] = len(r.entries)
		r.entries = append(r.entries, Entry{
			Name:  e.Name,
			Kind:  e.Kind,
			P:     e.P,
			N:     e.N,
			Index: len(r.entries),
		})
	}
	return r
}

// Len returns the number of unknown currents.
func (r *Registry) Len() int { return len(r.entries) }

// Entries returns the entries in index order.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// FindByName looks an element up by canonical name.
func (r *Registry) FindByName(name string) (Entry, error) {
	i, ok := r.byName[netlist.CanonicalName(name)]
	if !ok {
		return Entry{}, cerrors.New(cerrors.ErrCodeUnresolvedReference,
			"%s does not name an element with its own branch current", name)
	}
	return r.entries[i], nil
}

// Unknown returns the display name of the current unknown at index i.
func (r *Registry) Unknown(i int) string {
	return "I_" + r.entries[i].Name
}

// Branch returns the index and kind of a named entry.
func (r *Registry) Branch(name string) (int, netlist.Kind, error) {
	e, err := r.FindByName(name)
	if err != nil {
		return 0, 0, err
	}
	return e.Index, e.Kind, nil
}
