package commands

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/fieldguide/internal/cli/output"
	"github.com/leapstack-labs/fieldguide/internal/guide"
	"github.com/leapstack-labs/fieldguide/internal/schema"
	"github.com/spf13/cobra"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the dataset for problems the guide would hide",
		Long: `Analyze the dataset the way the guide reads it and report records that
will not show up, or show up incomplete:

- Schema: roles that did not resolve or resolved ambiguously
- Content: missing categories, malformed symptom ids, action lines without
  field actions, spare parts that differ inside one action line
- Links: SOP cells that are not absolute links

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  fieldguide doctor -d issues.json
  fieldguide doctor -d issues.csv -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			out := buildDoctorOutput(cc.Session.Engine(), cc.Inference)

			switch cc.Renderer.EffectiveMode() {
			case output.ModeJSON:
				return cc.Renderer.JSON(out)
			case output.ModeMarkdown:
				return renderDoctorMarkdown(cc.Renderer, out)
			default:
				return renderDoctorText(cc.Renderer, out)
			}
		},
	}
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         DatasetSummary `json:"summary"`
	HealthChecks    []HealthCheck  `json:"health_checks"`
	Score           int            `json:"score"`
	Recommendations []string       `json:"recommendations"`
	IssueCount      int            `json:"issue_count"`
}

// DatasetSummary contains dataset-level statistics.
type DatasetSummary struct {
	Records     int `json:"records"`
	Fields      int `json:"fields"`
	Categories  int `json:"categories"`
	SubIssues   int `json:"sub_issues"`
	ActionLines int `json:"action_lines"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

// actionLine is one group together with the category it belongs to.
type actionLine struct {
	category string
	guide.Group
}

func (a actionLine) label() string {
	return fmt.Sprintf("%s / %s / %s", a.category, a.SubIssue, a.SupportAction)
}

type healthRule struct {
	ID             string
	Name           string
	Group          string
	Severity       string
	Recommendation string
	check          func(e *guide.Engine, res schema.Result, lines []actionLine) []string
}

var requiredRoles = []schema.Role{schema.RoleCategory, schema.RoleSupportAction}

var healthRules = []healthRule{
	{
		ID: "DS01", Name: "Required roles resolved", Group: "schema", Severity: "error",
		Recommendation: "Pin the category and support action fields under schema.fields in fieldguide.yaml",
		check: func(_ *guide.Engine, res schema.Result, _ []actionLine) []string {
			var out []string
			for _, d := range res.Diagnostics {
				if d.Kind != schema.DiagAmbiguous && isRequiredRole(d.Role) {
					out = append(out, d.String())
				}
			}
			return out
		},
	},
	{
		ID: "DS02", Name: "Optional roles resolved", Group: "schema", Severity: "warn",
		Recommendation: "Rename fields or pin them under schema.fields so every checklist line has data",
		check: func(_ *guide.Engine, res schema.Result, _ []actionLine) []string {
			var out []string
			for _, d := range res.Diagnostics {
				if d.Kind != schema.DiagAmbiguous && !isRequiredRole(d.Role) {
					out = append(out, d.String())
				}
			}
			return out
		},
	},
	{
		ID: "DS03", Name: "Unambiguous roles", Group: "schema", Severity: "warn",
		Recommendation: "Pin ambiguous roles under schema.fields so inference does not depend on field order",
		check: func(_ *guide.Engine, res schema.Result, _ []actionLine) []string {
			var out []string
			for _, d := range res.Diagnostics {
				if d.Kind == schema.DiagAmbiguous {
					out = append(out, d.String())
				}
			}
			return out
		},
	},
	{
		ID: "DC01", Name: "Records have a category", Group: "content", Severity: "warn",
		Recommendation: "Fill in the category of every record; records without one are never offered",
		check: func(e *guide.Engine, _ schema.Result, _ []actionLine) []string {
			if !e.Schema().Resolved(schema.RoleCategory) {
				return nil
			}
			var out []string
			for i, r := range e.Records() {
				if strings.TrimSpace(e.Schema().Value(r, schema.RoleCategory)) == "" {
					out = append(out, fmt.Sprintf("record %d has no category", i+1))
				}
			}
			return out
		},
	},
	{
		ID: "DC02", Name: "Symptom ids well formed", Group: "content", Severity: "warn",
		Recommendation: "Use S-<number> symptom identifiers so the checklist can name the symptom",
		check: func(e *guide.Engine, _ schema.Result, _ []actionLine) []string {
			if !e.Schema().Resolved(schema.RoleSymptomID) {
				return nil
			}
			var out []string
			for i, r := range e.Records() {
				if v := e.Schema().Value(r, schema.RoleSymptomID); !schema.IsSymptomID(v) {
					out = append(out, fmt.Sprintf("record %d: symptom id %q", i+1, v))
				}
			}
			return out
		},
	},
	{
		ID: "DC03", Name: "Action lines have field actions", Group: "content", Severity: "warn",
		Recommendation: "Add field actions to action lines whose checklist would be empty",
		check: func(e *guide.Engine, _ schema.Result, lines []actionLine) []string {
			var out []string
			for _, l := range lines {
				m, ok := e.Maintenance(l.Rows)
				if ok && len(m.Actions) == 0 {
					out = append(out, l.label()+" has no field actions")
				}
			}
			return out
		},
	},
	{
		ID: "DC04", Name: "Consistent spare parts", Group: "content", Severity: "warn",
		Recommendation: "Keep one spare part per action line; only the first record's part is shown",
		check: func(e *guide.Engine, _ schema.Result, lines []actionLine) []string {
			var out []string
			for _, l := range lines {
				base := strings.TrimSpace(e.Schema().Value(l.Rows[0], schema.RoleSparePart))
				for _, r := range l.Rows[1:] {
					v := strings.TrimSpace(e.Schema().Value(r, schema.RoleSparePart))
					if guide.ShowSparePart(v) && v != base {
						out = append(out, fmt.Sprintf("%s: spare part %q differs from %q", l.label(), v, base))
						break
					}
				}
			}
			return out
		},
	},
	{
		ID: "DL01", Name: "How-to links are absolute", Group: "links", Severity: "warn",
		Recommendation: "Use absolute links (https://...) in the SOP field",
		check: func(_ *guide.Engine, _ schema.Result, lines []actionLine) []string {
			var out []string
			for _, l := range lines {
				if !l.ShowHowTo {
					continue
				}
				if u, err := url.Parse(strings.TrimSpace(l.SOPLink)); err != nil || u.Scheme == "" {
					out = append(out, fmt.Sprintf("%s: %q", l.label(), l.SOPLink))
				}
			}
			return out
		},
	},
}

func isRequiredRole(r schema.Role) bool {
	for _, req := range requiredRoles {
		if r == req {
			return true
		}
	}
	return false
}

func buildDoctorOutput(e *guide.Engine, res schema.Result) *DoctorOutput {
	summary := DatasetSummary{Records: e.Len()}
	if recs := e.Records(); len(recs) > 0 {
		summary.Fields = recs[0].Len()
	}

	var lines []actionLine
	categories := e.Categories()
	summary.Categories = len(categories)
	for _, c := range categories {
		summary.SubIssues += len(e.SubIssues(c))
		for _, g := range e.Actions(c, "", true) {
			lines = append(lines, actionLine{category: c, Group: g})
		}
	}
	summary.ActionLines = len(lines)

	checks := make([]HealthCheck, 0, len(healthRules))
	var recommendations []string
	issues := 0
	for _, rule := range healthRules {
		details := rule.check(e, res, lines)
		status := "pass"
		if len(details) > 0 {
			status = rule.Severity
			recommendations = append(recommendations, rule.Recommendation)
		}
		issues += len(details)
		checks = append(checks, HealthCheck{
			RuleID:     rule.ID,
			Name:       rule.Name,
			Group:      rule.Group,
			Status:     status,
			IssueCount: len(details),
			Details:    details,
		})
	}

	// Limit to top 5 recommendations
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}

	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    checks,
		Score:           calculateHealthScore(checks, summary.Records),
		Recommendations: recommendations,
		IssueCount:      issues,
	}
}

// calculateHealthScore computes a health score from 0-100.
// Errors count double, and each issue weighs less in larger datasets.
func calculateHealthScore(checks []HealthCheck, recordCount int) int {
	if len(checks) == 0 {
		return 100
	}

	score := 100.0
	basePenalty := 5.0
	if recordCount > 100 {
		basePenalty = 3.0
	}
	if recordCount > 1000 {
		basePenalty = 2.0
	}
	if recordCount > 10000 {
		basePenalty = 1.0
	}

	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score)
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header.Render("Dataset Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Bold.Render("Dataset Summary"))
	r.Printf("   Records: %d | Fields: %d\n", out.Summary.Records, out.Summary.Fields)
	r.Printf("   Categories: %d | Sub-issues: %d | Action lines: %d\n", out.Summary.Categories, out.Summary.SubIssues, out.Summary.ActionLines)
	r.Println("")

	r.Println(styles.Bold.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.Error.Render("✗")
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Bold.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}
	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# Dataset Health Report")
	r.Println("")

	r.Println("## Dataset Summary")
	r.Println("")
	r.Printf("- **Records**: %d\n", out.Summary.Records)
	r.Printf("- **Fields**: %d\n", out.Summary.Fields)
	r.Printf("- **Categories**: %d\n", out.Summary.Categories)
	r.Printf("- **Sub-issues**: %d\n", out.Summary.SubIssues)
	r.Printf("- **Action lines**: %d\n", out.Summary.ActionLines)
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		r.Printf("- **[%s]** %s: %s", strings.ToUpper(check.Status), check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}
	return nil
}
