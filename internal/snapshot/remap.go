package snapshot

import "fmt"

// Kind names one remappable entity kind. Only kinds that other entities
// reference need remapping; conditions, notes, plot points and preferences
// are leaves.
type Kind string

const (
	KindCombatant Kind = "combatant"
	KindMonster   Kind = "monster"
	KindLocation  Kind = "location"
)

// RemapTable translates a snapshot's source identifiers to the identifiers
// assigned during one restore. It is created fresh per restore call and never
// shared, so it needs no locking. Parents must be assigned before children
// resolve them; a failed Resolve means the snapshot is corrupt.
type RemapTable struct {
	byKind map[Kind]map[uint]uint
}

// NewRemapTable creates an empty remap table.
func NewRemapTable() *RemapTable {
	return &RemapTable{
		byKind: make(map[Kind]map[uint]uint),
	}
}

// Assign records the mapping oldID -> newID for kind and returns the mapped
// identifier. Assigning the same (kind, oldID) twice returns the identifier
// recorded first.
func (t *RemapTable) Assign(kind Kind, oldID, newID uint) uint {
	m, ok := t.byKind[kind]
	if !ok {
		m = make(map[uint]uint)
		t.byKind[kind] = m
	}
	if existing, ok := m[oldID]; ok {
		return existing
	}
	m[oldID] = newID
	return newID
}

// Resolve returns the new identifier assigned to (kind, oldID). It fails with
// ErrMissingMapping if the parent was never assigned.
func (t *RemapTable) Resolve(kind Kind, oldID uint) (uint, error) {
	if newID, ok := t.byKind[kind][oldID]; ok {
		return newID, nil
	}
	return 0, fmt.Errorf("%w: %s %d", ErrMissingMapping, kind, oldID)
}

// Len returns the number of mappings recorded for kind.
func (t *RemapTable) Len(kind Kind) int {
	return len(t.byKind[kind])
}
