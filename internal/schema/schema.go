package schema

import (
	"github.com/leapstack-labs/fieldguide/internal/dataset"
)

// Schema is the resolved role → field mapping. The zero value has every role
// unresolved.
type Schema struct {
	fields   [numRoles]string
	resolved [numRoles]bool
}

// Field returns the field bound to role.
func (s Schema) Field(r Role) (string, bool) {
	if r < 0 || r >= numRoles || !s.resolved[r] {
		return "", false
	}
	return s.fields[r], true
}

// Value reads role from rec. An unresolved role reads as "".
func (s Schema) Value(rec dataset.Record, r Role) string {
	name, ok := s.Field(r)
	if !ok {
		return ""
	}
	return rec.Value(name)
}

// Resolved reports whether role has a field.
func (s Schema) Resolved(r Role) bool {
	_, ok := s.Field(r)
	return ok
}

func (s *Schema) bind(r Role, field string) {
	s.fields[r] = field
	s.resolved[r] = true
}

func (s *Schema) unbind(r Role) {
	s.fields[r] = ""
	s.resolved[r] = false
}

// Entry is one row of a schema listing.
type Entry struct {
	Role     Role   `json:"-"`
	Key      string `json:"role"`
	Field    string `json:"field,omitempty"`
	Resolved bool   `json:"resolved"`
}

// Entries lists every role in display order.
func (s Schema) Entries() []Entry {
	out := make([]Entry, 0, numRoles)
	for _, r := range AllRoles() {
		f, ok := s.Field(r)
		out = append(out, Entry{Role: r, Key: r.Key(), Field: f, Resolved: ok})
	}
	return out
}

// New builds a schema from explicit bindings. Roles missing from the map stay
// unresolved.
func New(bindings map[Role]string) Schema {
	var s Schema
	for r, f := range bindings {
		if r >= 0 && r < numRoles {
			s.bind(r, f)
		}
	}
	return s
}
