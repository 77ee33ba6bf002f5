package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/fieldguide/internal/cli/output"
	"github.com/leapstack-labs/fieldguide/internal/guide"
	"github.com/leapstack-labs/fieldguide/internal/schema"
)

// actionView is the JSON shape of one action line.
type actionView struct {
	Number        int    `json:"number"`
	SubIssue      string `json:"sub_issue"`
	SupportAction string `json:"support_action"`
	Records       int    `json:"records"`
	HowTo         string `json:"how_to,omitempty"`
}

type actionsOutput struct {
	Category string       `json:"category"`
	SubIssue string       `json:"sub_issue,omitempty"`
	Skipped  bool         `json:"skipped"`
	Actions  []actionView `json:"actions"`
}

type checklistOutput struct {
	guide.Maintenance
	Symptom string `json:"symptom"`
	Text    string `json:"text"`
}

type schemaOutput struct {
	Fields      []schema.Entry      `json:"fields"`
	Diagnostics []schema.Diagnostic `json:"diagnostics"`
}

func actionViews(groups []guide.Group) []actionView {
	out := make([]actionView, len(groups))
	for i, g := range groups {
		link, _ := g.HowToLink()
		out[i] = actionView{
			Number:        i + 1,
			SubIssue:      g.SubIssue,
			SupportAction: g.SupportAction,
			Records:       len(g.Rows),
			HowTo:         link,
		}
	}
	return out
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// renderList writes a titled list of values. key names the JSON array.
func renderList(r *output.Renderer, title, key string, items []string) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if items == nil {
			items = []string{}
		}
		return r.JSON(map[string][]string{key: items})
	case output.ModeMarkdown:
		r.Header(2, title)
		for _, it := range items {
			r.Printf("- %s\n", it)
		}
		if len(items) == 0 {
			r.Println("(none)")
		}
		return nil
	default:
		if len(items) == 0 {
			r.Muted(fmt.Sprintf("No %s", strings.ToLower(title)))
			return nil
		}
		t := newTable(r.Writer())
		t.AppendHeader(table.Row{"#", title})
		for i, it := range items {
			t.AppendRow(table.Row{i + 1, it})
		}
		t.Render()
		return nil
	}
}

func renderActions(r *output.Renderer, st guide.State) error {
	views := actionViews(st.Groups)
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(actionsOutput{
			Category: st.Category,
			SubIssue: st.SubIssue,
			Skipped:  st.Skipped,
			Actions:  views,
		})
	}

	heading := st.Category
	if st.Skipped {
		heading += " (all sub-issues)"
	} else {
		heading += " / " + st.SubIssue
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Header(2, "Actions: "+heading)
		if len(views) == 0 {
			r.Println("(none)")
			return nil
		}
		r.Println("| # | Sub issue | Support action | Records | How to |")
		r.Println("| --- | --- | --- | --- | --- |")
		for _, v := range views {
			r.Printf("| %d | %s | %s | %d | %s |\n", v.Number, escapeCell(v.SubIssue), escapeCell(v.SupportAction), v.Records, escapeCell(v.HowTo))
		}
		return nil
	}

	r.Header(1, heading)
	if len(views) == 0 {
		r.Muted("No actions")
		return nil
	}
	t := newTable(r.Writer())
	t.AppendHeader(table.Row{"#", "Sub issue", "Support action", "Records", "How to"})
	for _, v := range views {
		howTo := ""
		if v.HowTo != "" {
			howTo = r.Styles().Link.Render(v.HowTo)
		}
		t.AppendRow(table.Row{v.Number, v.SubIssue, r.Styles().Action.Render(v.SupportAction), v.Records, howTo})
	}
	t.Render()
	return nil
}

func renderChecklist(r *output.Renderer, m guide.Maintenance) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(checklistOutput{Maintenance: m, Symptom: m.Symptom(), Text: m.Text()})
	case output.ModeMarkdown:
		r.Println(m.Markdown())
		return nil
	default:
		r.Markdown(m.Markdown())
		return nil
	}
}

func renderSchema(r *output.Renderer, res schema.Result) error {
	entries := res.Schema.Entries()
	if r.EffectiveMode() == output.ModeJSON {
		diags := res.Diagnostics
		if diags == nil {
			diags = []schema.Diagnostic{}
		}
		return r.JSON(schemaOutput{Fields: entries, Diagnostics: diags})
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Header(2, "Schema")
		r.Println("| Role | Field |")
		r.Println("| --- | --- |")
		for _, e := range entries {
			field := e.Field
			if !e.Resolved {
				field = "_unresolved_"
			}
			r.Printf("| %s | %s |\n", e.Role.Title(), escapeCell(field))
		}
	} else {
		t := newTable(r.Writer())
		t.AppendHeader(table.Row{"Role", "Field"})
		for _, e := range entries {
			field := e.Field
			if !e.Resolved {
				field = r.Styles().Muted.Render("(unresolved)")
			}
			t.AppendRow(table.Row{e.Role.Title(), field})
		}
		t.Render()
	}

	for _, d := range res.Diagnostics {
		r.Warning(d.String())
	}
	return nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
