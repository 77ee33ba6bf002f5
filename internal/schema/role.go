// Package schema maps the guide's logical roles onto the concrete field
// names of a dataset.
//
// Inference runs once, against the first record, and evaluates an ordered
// list of rules. Field order of the sample decides ties.
package schema

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is a logical column meaning.
type Role int

// Roles, in display order.
const (
	RoleCategory Role = iota
	RoleSubIssue
	RoleSymptomID
	RoleSymptomDesc
	RoleSupportAction
	RoleFieldAction
	RoleSparePart
	RoleSOPLink

	numRoles
)

var roleKeys = [numRoles]string{
	RoleCategory:      "category",
	RoleSubIssue:      "sub_issue",
	RoleSymptomID:     "symptom_id",
	RoleSymptomDesc:   "symptom_desc",
	RoleSupportAction: "support_action",
	RoleFieldAction:   "field_action",
	RoleSparePart:     "spare_part",
	RoleSOPLink:       "sop_link",
}

// AllRoles returns every role in display order.
func AllRoles() []Role {
	out := make([]Role, 0, numRoles)
	for r := Role(0); r < numRoles; r++ {
		out = append(out, r)
	}
	return out
}

// Key is the snake_case config key of the role.
func (r Role) Key() string {
	if r < 0 || r >= numRoles {
		return "unknown"
	}
	return roleKeys[r]
}

// Title is a human label, e.g. "Support Action".
func (r Role) Title() string {
	return cases.Title(language.English).String(strings.ReplaceAll(r.Key(), "_", " "))
}

func (r Role) String() string {
	return r.Key()
}

// ParseRole accepts a role key; dashes, spaces and case are ignored.
func ParseRole(s string) (Role, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for r := Role(0); r < numRoles; r++ {
		if roleKeys[r] == norm {
			return r, true
		}
	}
	return 0, false
}
