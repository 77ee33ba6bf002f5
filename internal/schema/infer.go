package schema

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/leapstack-labs/fieldguide/internal/dataset"
)

// symptomIDPattern matches values such as "S-12" or "s-004 leak".
var symptomIDPattern = regexp.MustCompile(`(?i)^s-\d+`)

// IsSymptomID reports whether v looks like a symptom identifier.
func IsSymptomID(v string) bool {
	return symptomIDPattern.MatchString(v)
}

// Options tune inference.
type Options struct {
	// Strict leaves the symptom id unresolved when several fields carry an
	// identifier-shaped value instead of taking the first one.
	Strict bool
	// Overrides pin roles to named fields and bypass their rule.
	Overrides map[Role]string
}

// DiagnosticKind classifies an inference finding.
type DiagnosticKind string

// Diagnostic kinds.
const (
	DiagUnresolved      DiagnosticKind = "unresolved"
	DiagAmbiguous       DiagnosticKind = "ambiguous"
	DiagOverrideMissing DiagnosticKind = "override_missing"
)

// Diagnostic describes a role that did not resolve cleanly.
type Diagnostic struct {
	Role       Role           `json:"-"`
	RoleKey    string         `json:"role"`
	Kind       DiagnosticKind `json:"kind"`
	Candidates []string       `json:"candidates,omitempty"`
	Chosen     string         `json:"chosen,omitempty"`
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case DiagAmbiguous:
		if d.Chosen == "" {
			return fmt.Sprintf("%s: %d candidate fields %q, left unresolved", d.RoleKey, len(d.Candidates), d.Candidates)
		}
		return fmt.Sprintf("%s: %d candidate fields %q, using %q", d.RoleKey, len(d.Candidates), d.Candidates, d.Chosen)
	case DiagOverrideMissing:
		return fmt.Sprintf("%s: configured field %q not present in first record", d.RoleKey, d.Chosen)
	default:
		return fmt.Sprintf("%s: no matching field", d.RoleKey)
	}
}

// Result is the outcome of Infer.
type Result struct {
	Schema      Schema
	Diagnostics []Diagnostic
}

// LogDiagnostics writes each diagnostic as a warning.
func (r Result) LogDiagnostics(logger *slog.Logger) {
	for _, d := range r.Diagnostics {
		logger.Warn("schema inference", "role", d.RoleKey, "kind", string(d.Kind), "detail", d.String())
	}
}

// rule binds a role to the first sample field accepted by match.
type rule struct {
	role Role
	// match sees the schema as resolved so far.
	match func(s *Schema, f dataset.Field) bool
	// ambiguity is reported when more than one field matches.
	reportAmbiguity bool
	// strictSensitive rules resolve to nothing on ambiguity in strict mode.
	strictSensitive bool
}

func nameContains(sub string) func(*Schema, dataset.Field) bool {
	return func(_ *Schema, f dataset.Field) bool {
		return strings.Contains(strings.ToLower(f.Name), sub)
	}
}

// rules run in this order. Symptom description depends on the symptom id and
// field action bindings, so it comes last.
var rules = []rule{
	{role: RoleCategory, match: nameContains("category"), reportAmbiguity: true},
	{role: RoleSubIssue, match: nameContains("sub"), reportAmbiguity: true},
	{role: RoleSupportAction, match: nameContains("support"), reportAmbiguity: true},
	{role: RoleFieldAction, match: nameContains("actions for field"), reportAmbiguity: true},
	{role: RoleSparePart, match: nameContains("spare"), reportAmbiguity: true},
	{role: RoleSOPLink, match: nameContains("sop"), reportAmbiguity: true},
	{
		role: RoleSymptomID,
		match: func(_ *Schema, f dataset.Field) bool {
			return IsSymptomID(f.Value)
		},
		reportAmbiguity: true,
		strictSensitive: true,
	},
	{
		role: RoleSymptomDesc,
		match: func(s *Schema, f dataset.Field) bool {
			if f.Value == "" || IsSymptomID(f.Value) {
				return false
			}
			if id, ok := s.Field(RoleSymptomID); ok && f.Name == id {
				return false
			}
			if fa, ok := s.Field(RoleFieldAction); ok && f.Name == fa {
				return false
			}
			return true
		},
	},
}

// Infer derives the schema from one sample record. It never fails: roles
// without a match stay unresolved and are reported in Diagnostics.
func Infer(sample dataset.Record, opts Options) Result {
	var res Result
	fields := sample.Fields()

	for _, rl := range rules {
		if name, ok := opts.Overrides[rl.role]; ok && name != "" {
			if _, present := sample.Get(name); present {
				res.Schema.bind(rl.role, name)
			} else {
				res.Diagnostics = append(res.Diagnostics, Diagnostic{
					Role: rl.role, RoleKey: rl.role.Key(), Kind: DiagOverrideMissing, Chosen: name,
				})
			}
			continue
		}

		var candidates []string
		for _, f := range fields {
			if rl.match(&res.Schema, f) {
				candidates = append(candidates, f.Name)
				if !rl.reportAmbiguity {
					break
				}
			}
		}

		switch {
		case len(candidates) == 0:
			res.Schema.unbind(rl.role)
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Role: rl.role, RoleKey: rl.role.Key(), Kind: DiagUnresolved,
			})
		case len(candidates) > 1 && rl.reportAmbiguity:
			d := Diagnostic{Role: rl.role, RoleKey: rl.role.Key(), Kind: DiagAmbiguous, Candidates: candidates}
			if opts.Strict && rl.strictSensitive {
				res.Schema.unbind(rl.role)
			} else {
				res.Schema.bind(rl.role, candidates[0])
				d.Chosen = candidates[0]
			}
			res.Diagnostics = append(res.Diagnostics, d)
		default:
			res.Schema.bind(rl.role, candidates[0])
		}
	}
	return res
}
