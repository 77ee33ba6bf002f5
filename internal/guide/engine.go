// Package guide implements the troubleshooting flow: option lists, action
// grouping, the maintenance checklist, and the selection state machine that
// ties them together.
package guide

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/fieldguide/internal/dataset"
	"github.com/leapstack-labs/fieldguide/internal/schema"
)

// Sentinel cell values meaning "not applicable".
const (
	SentinelNotApplicable = "/"
	SentinelInternalSOP   = "I"
)

// Engine answers queries over one dataset through one schema. It holds no
// selection state.
type Engine struct {
	records []dataset.Record
	schema  schema.Schema
	lang    language.Tag
}

// NewEngine wraps records and a resolved schema. lang drives option sorting.
func NewEngine(records []dataset.Record, s schema.Schema, lang language.Tag) *Engine {
	return &Engine{records: records, schema: s, lang: lang}
}

// FromDataset infers the schema from the first record and builds an engine.
// The schema is derived exactly once here; later records never reshape it.
func FromDataset(ds *dataset.Dataset, opts schema.Options, lang language.Tag) (*Engine, schema.Result, error) {
	first, ok := ds.First()
	if !ok {
		return nil, schema.Result{}, dataset.ErrEmptyDataset
	}
	res := schema.Infer(first, opts)
	return NewEngine(ds.Records, res.Schema, lang), res, nil
}

// Schema returns the schema the engine reads through.
func (e *Engine) Schema() schema.Schema {
	return e.schema
}

// Records returns the dataset rows in load order. Callers must not modify
// them.
func (e *Engine) Records() []dataset.Record {
	return e.records
}

// Len returns the number of records.
func (e *Engine) Len() int {
	return len(e.records)
}

func (e *Engine) value(r dataset.Record, role schema.Role) string {
	return e.schema.Value(r, role)
}

// Categories lists the distinct non-empty categories in collation order.
func (e *Engine) Categories() []string {
	return e.sortedDistinct(e.records, schema.RoleCategory)
}

// SubIssues lists the distinct non-empty sub-issues of category.
func (e *Engine) SubIssues(category string) []string {
	var rows []dataset.Record
	for _, r := range e.records {
		if e.value(r, schema.RoleCategory) == category {
			rows = append(rows, r)
		}
	}
	return e.sortedDistinct(rows, schema.RoleSubIssue)
}

func (e *Engine) sortedDistinct(rows []dataset.Record, role schema.Role) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		v := e.value(r, role)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	collate.New(e.lang).SortStrings(out)
	return out
}

// Group is one action line: records sharing a (sub-issue, support action)
// pair.
type Group struct {
	SubIssue      string
	SupportAction string
	// Rows are the group's records in dataset order. Rows[0] is the
	// representative.
	Rows []dataset.Record
	// SOPLink is the representative's raw SOP value.
	SOPLink   string
	ShowHowTo bool
}

// HowToLink returns the link a "how to" control opens.
func (g Group) HowToLink() (string, bool) {
	if !g.ShowHowTo || g.SOPLink == "" {
		return "", false
	}
	return g.SOPLink, true
}

// ShowHowTo reports whether an SOP cell points at a usable procedure.
func ShowHowTo(sop string) bool {
	v := strings.ToUpper(strings.TrimSpace(sop))
	return v != "" && v != SentinelNotApplicable && v != SentinelInternalSOP
}

type groupKey struct {
	subIssue string
	support  string
}

// Actions filters the category's records and collapses them into groups.
// Records whose support action is "/" never appear. With skip set every
// sub-issue of the category is included. Groups keep first-seen key order.
func (e *Engine) Actions(category, subIssue string, skip bool) []Group {
	index := make(map[groupKey]int)
	var groups []Group
	for _, r := range e.records {
		if e.value(r, schema.RoleCategory) != category {
			continue
		}
		support := e.value(r, schema.RoleSupportAction)
		if strings.TrimSpace(support) == SentinelNotApplicable {
			continue
		}
		sub := e.value(r, schema.RoleSubIssue)
		if !skip && sub != subIssue {
			continue
		}

		k := groupKey{subIssue: sub, support: support}
		if i, ok := index[k]; ok {
			groups[i].Rows = append(groups[i].Rows, r)
			continue
		}
		sop := e.value(r, schema.RoleSOPLink)
		index[k] = len(groups)
		groups = append(groups, Group{
			SubIssue:      sub,
			SupportAction: support,
			Rows:          []dataset.Record{r},
			SOPLink:       sop,
			ShowHowTo:     ShowHowTo(sop),
		})
	}
	return groups
}
