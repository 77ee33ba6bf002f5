package guide

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/fieldguide/internal/dataset"
	"github.com/leapstack-labs/fieldguide/internal/schema"
	"github.com/leapstack-labs/fieldguide/internal/testutil"
)

func sampleEngine(t *testing.T) *Engine {
	t.Helper()
	records, err := dataset.DecodeJSON(strings.NewReader(testutil.SampleJSON))
	require.NoError(t, err)
	e, res, err := FromDataset(&dataset.Dataset{Records: records}, schema.Options{}, language.English)
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	return e
}

func TestFromDataset_Empty(t *testing.T) {
	_, _, err := FromDataset(&dataset.Dataset{}, schema.Options{}, language.English)
	assert.ErrorIs(t, err, dataset.ErrEmptyDataset)
}

func TestCategories_SortedDistinct(t *testing.T) {
	e := sampleEngine(t)
	assert.Equal(t, []string{"Cooling", "Électricité", "Plumbing"}, e.Categories())
	assert.Equal(t, 7, e.Len())
}

func TestSubIssues(t *testing.T) {
	e := sampleEngine(t)
	assert.Equal(t, []string{"Leak", "Pressure"}, e.SubIssues("Plumbing"))
	assert.Equal(t, []string{"Noise", "Temperature"}, e.SubIssues("Cooling"))
	assert.Empty(t, e.SubIssues("Unknown"))
}

func TestCategories_SkipsEmptyValues(t *testing.T) {
	s := schema.New(map[schema.Role]string{schema.RoleCategory: "Category"})
	e := NewEngine([]dataset.Record{
		rec("Category", "b"),
		rec("Category", ""),
		rec("Category", "a"),
		rec("Category", "b"),
	}, s, language.English)
	assert.Equal(t, []string{"a", "b"}, e.Categories())
}

func TestActions_SubIssue(t *testing.T) {
	e := sampleEngine(t)

	groups := e.Actions("Plumbing", "Leak", false)
	require.Len(t, groups, 1)
	g := groups[0]
	assert.Equal(t, "Leak", g.SubIssue)
	assert.Equal(t, "Replace seal", g.SupportAction)
	assert.Len(t, g.Rows, 2)
	assert.True(t, g.ShowHowTo)
	link, ok := g.HowToLink()
	assert.True(t, ok)
	assert.Equal(t, "https://sop.example/leak", link)
}

func TestActions_ExcludesNotApplicable(t *testing.T) {
	e := sampleEngine(t)

	groups := e.Actions("Plumbing", "Pressure", false)
	require.Len(t, groups, 1)
	assert.Equal(t, "Bleed valve", groups[0].SupportAction)
	assert.False(t, groups[0].ShowHowTo)
	_, ok := groups[0].HowToLink()
	assert.False(t, ok)
}

func TestActions_SkipCoversAllSubIssues(t *testing.T) {
	e := sampleEngine(t)

	groups := e.Actions("Plumbing", "", true)
	var keys []string
	for _, g := range groups {
		keys = append(keys, g.SubIssue+"/"+g.SupportAction)
	}
	assert.Equal(t, []string{"Leak/Replace seal", "Pressure/Bleed valve"}, keys)
}

func TestActions_FirstSeenOrder(t *testing.T) {
	s := schema.New(map[schema.Role]string{
		schema.RoleCategory:      "c",
		schema.RoleSubIssue:      "s",
		schema.RoleSupportAction: "a",
	})
	e := NewEngine([]dataset.Record{
		rec("c", "X", "s", "2", "a", "zeta"),
		rec("c", "X", "s", "1", "a", "alpha"),
		rec("c", "Y", "s", "1", "a", "other"),
		rec("c", "X", "s", "2", "a", "zeta"),
		rec("c", "X", "s", "1", "a", "zeta"),
	}, s, language.English)

	groups := e.Actions("X", "", true)
	require.Len(t, groups, 3)
	assert.Equal(t, "zeta", groups[0].SupportAction)
	assert.Len(t, groups[0].Rows, 2)
	assert.Equal(t, "alpha", groups[1].SupportAction)
	assert.Equal(t, "1", groups[2].SubIssue)
	assert.Equal(t, "zeta", groups[2].SupportAction)
}

func TestShowHowTo(t *testing.T) {
	tests := map[string]bool{
		"":                  false,
		"/":                 false,
		" / ":               false,
		"I":                 false,
		"i":                 false,
		" i ":               false,
		"https://sop/1":     true,
		"SOP-12":            true,
		"Internal handbook": true,
	}
	for in, want := range tests {
		assert.Equal(t, want, ShowHowTo(in), "%q", in)
	}
}

func rec(pairs ...string) dataset.Record {
	fields := make([]dataset.Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		fields = append(fields, dataset.Field{Name: pairs[i], Value: pairs[i+1]})
	}
	return dataset.NewRecord(fields)
}
