package condition

import (
	"encoding/json"
	"sort"
)

// ActiveSet tracks which statuses are currently applied to one actor.
// Application is idempotent: a status is either present or not.
// It is not safe for concurrent use; the caller must serialise access.
//
// The zero value is an empty set ready for use. It persists as a sorted list of IDs.
type ActiveSet struct {
	ids map[string]struct{}
}

// NewActiveSet creates a set holding ids.
func NewActiveSet(ids ...string) ActiveSet {
	s := ActiveSet{}
	for _, id := range ids {
		s.Apply(id)
	}
	return s
}

// Apply adds id to the set.
//
// Postcondition: Has(id) is true; returns false if id was already present.
func (s *ActiveSet) Apply(id string) bool {
	if id == "" {
		return false
	}
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Remove deletes id from the set.
//
// Postcondition: Has(id) is false; returns false if id was not present.
func (s *ActiveSet) Remove(id string) bool {
	if _, ok := s.ids[id]; !ok {
		return false
	}
	delete(s.ids, id)
	return true
}

// Has reports whether id is currently applied.
func (s ActiveSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of applied statuses.
func (s ActiveSet) Len() int { return len(s.ids) }

// IDs returns the applied status IDs in sorted order.
func (s ActiveSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of s.
func (s ActiveSet) Clone() ActiveSet {
	return NewActiveSet(s.IDs()...)
}

// MarshalJSON encodes the set as a sorted array of IDs.
func (s ActiveSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON decodes an array of IDs; null yields an empty set.
func (s *ActiveSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewActiveSet(ids...)
	return nil
}
