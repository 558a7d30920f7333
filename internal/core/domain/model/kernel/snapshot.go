package kernel

import "strings"

// Snapshot is a resolved reference to master data: a nullable numeric id plus a
// denormalized label. The label is frozen when the entry is created and is not
// refreshed if master data renames the entity later; the id, when present, is
// the only authoritative link.
type Snapshot struct {
	id    *int64
	label string
}

// NewSnapshot builds a snapshot. A nil or non-positive id means unresolved.
func NewSnapshot(id *int64, label string) Snapshot {
	s := Snapshot{label: strings.TrimSpace(label)}
	if id != nil && *id > 0 {
		v := *id
		s.id = &v
	}
	return s
}

// ResolvedSnapshot is shorthand for a snapshot with a known id.
func ResolvedSnapshot(id int64, label string) Snapshot {
	return NewSnapshot(&id, label)
}

// ID returns the referenced id and whether it is known.
func (s Snapshot) ID() (int64, bool) {
	if s.id == nil {
		return 0, false
	}
	return *s.id, true
}

// IDPtr returns a copy of the id for persistence, nil when unresolved.
func (s Snapshot) IDPtr() *int64 {
	if s.id == nil {
		return nil
	}
	v := *s.id
	return &v
}

func (s Snapshot) Label() string {
	return s.label
}

func (s Snapshot) IsResolved() bool {
	return s.id != nil
}

// Merge overlays patch onto s. A part the patch leaves out, the id or the
// label, keeps its current value.
func (s Snapshot) Merge(patch Snapshot) Snapshot {
	out := s
	if patch.id != nil {
		v := *patch.id
		out.id = &v
	}
	if patch.label != "" {
		out.label = patch.label
	}
	return out
}

// IsEmpty reports a snapshot with neither id nor label.
func (s Snapshot) IsEmpty() bool {
	return s.id == nil && s.label == ""
}
