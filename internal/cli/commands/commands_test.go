package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fieldguide/internal/cli/config"
	"github.com/leapstack-labs/fieldguide/internal/cli/output"
	"github.com/leapstack-labs/fieldguide/internal/cli/testutil"
	"github.com/leapstack-labs/fieldguide/internal/clipboard"
	"github.com/leapstack-labs/fieldguide/internal/guide"
)

func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

type fakeCopier struct {
	copied []string
	err    error
}

func (f *fakeCopier) Copy(text string) (clipboard.Method, error) {
	if f.err != nil {
		return "", f.err
	}
	f.copied = append(f.copied, text)
	return clipboard.MethodOSC52, nil
}

func stubCopier(t *testing.T, f *fakeCopier) {
	t.Helper()
	prev := newCopier
	newCopier = func(*config.Config) copier { return f }
	t.Cleanup(func() { newCopier = prev })
}

func stubOpener(t *testing.T) *[]string {
	t.Helper()
	var opened []string
	prev := openLink
	openLink = func(link string) error {
		opened = append(opened, link)
		return nil
	}
	t.Cleanup(func() { openLink = prev })
	return &opened
}

const leakChecklist = "Sub issue: Leak\n" +
	"Symptom to confirm on site: S-12 — Water pooling\n" +
	"Actions to do:\n" +
	"Check seal\n" +
	"Tighten bolt\n" +
	"Spare parts needed: Gasket"

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewCategoriesCommand(), "categories", nil},
		{NewSubIssuesCommand(), "subissues <category>", nil},
		{NewActionsCommand(), "actions <category>", []string{"sub-issue", "skip"}},
		{NewChecklistCommand(), "checklist <category>", []string{"sub-issue", "skip", "action", "check", "copy"}},
		{NewHowToCommand(), "howto <category>", []string{"sub-issue", "skip", "action", "print"}},
		{NewSchemaCommand(), "schema", nil},
		{NewShellCommand(), "shell", nil},
		{NewGuideCommand(), "guide", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, f := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(f), "flag %q should exist", f)
			}
		})
	}

	assert.Equal(t, "true", NewGuideCommand().Annotations[AnnotationInteractive])
}

func TestCategoriesCommand(t *testing.T) {
	t.Run("markdown off terminal", func(t *testing.T) {
		testutil.SetupDataset(t, nil)
		out, _, err := execute(NewCategoriesCommand())
		require.NoError(t, err)
		assert.Equal(t, "## Categories\n\n- Cooling\n- Électricité\n- Plumbing\n", out)
	})

	t.Run("json", func(t *testing.T) {
		testutil.SetupDataset(t, map[string]string{"OUTPUT": "json"})
		out, _, err := execute(NewCategoriesCommand())
		require.NoError(t, err)

		var got map[string][]string
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, []string{"Cooling", "Électricité", "Plumbing"}, got["categories"])
	})

	t.Run("text table", func(t *testing.T) {
		testutil.SetupDataset(t, map[string]string{"OUTPUT": "text"})
		out, _, err := execute(NewCategoriesCommand())
		require.NoError(t, err)
		assert.Contains(t, out, "Électricité")
		assert.Contains(t, out, "┌")
		testutil.AssertNoANSI(t, out)
	})
}

func TestCommands_RequireDataset(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvPrefix+"DATASET", "")
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	_, _, err = execute(NewCategoriesCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIELDGUIDE_DATASET")
}

func TestSubIssuesCommand(t *testing.T) {
	testutil.SetupDataset(t, nil)

	out, _, err := execute(NewSubIssuesCommand(), "Plumbing")
	require.NoError(t, err)
	assert.Equal(t, "## Sub-issues\n\n- Leak\n- Pressure\n", out)

	_, _, err = execute(NewSubIssuesCommand(), "Heating")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown category "Heating"`)
	assert.Contains(t, err.Error(), "Hint: valid values are Cooling, Plumbing, Électricité")
}

func TestActionsCommand(t *testing.T) {
	t.Run("skip lists every sub-issue", func(t *testing.T) {
		testutil.SetupDataset(t, map[string]string{"OUTPUT": "json"})
		out, _, err := execute(NewActionsCommand(), "Plumbing", "--skip")
		require.NoError(t, err)

		var got actionsOutput
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "Plumbing", got.Category)
		assert.True(t, got.Skipped)
		assert.Equal(t, []actionView{
			{Number: 1, SubIssue: "Leak", SupportAction: "Replace seal", Records: 2, HowTo: "https://sop.example/leak"},
			{Number: 2, SubIssue: "Pressure", SupportAction: "Bleed valve", Records: 1},
		}, got.Actions)
	})

	t.Run("markdown table", func(t *testing.T) {
		testutil.SetupDataset(t, nil)
		out, _, err := execute(NewActionsCommand(), "Plumbing", "-s", "Leak")
		require.NoError(t, err)
		assert.Contains(t, out, "## Actions: Plumbing / Leak")
		assert.Contains(t, out, "| 1 | Leak | Replace seal | 2 | https://sop.example/leak |")
		assert.NotContains(t, out, "Bleed valve")
		testutil.AssertValidMarkdown(t, out)
	})

	t.Run("sub-issue or skip required", func(t *testing.T) {
		testutil.SetupDataset(t, nil)
		_, _, err := execute(NewActionsCommand(), "Plumbing")
		assert.Error(t, err)

		_, _, err = execute(NewActionsCommand(), "Plumbing", "--skip", "--sub-issue", "Leak")
		assert.Error(t, err)
	})

	t.Run("unknown sub-issue", func(t *testing.T) {
		testutil.SetupDataset(t, nil)
		_, _, err := execute(NewActionsCommand(), "Plumbing", "--sub-issue", "Flood")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown sub-issue "Flood"`)
	})
}

func TestChecklistCommand(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		testutil.SetupDataset(t, nil)
		out, _, err := execute(NewChecklistCommand(), "Plumbing", "--sub-issue", "Leak", "--action", "1", "--check", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "**Symptom to confirm on site:** S-12 — Water pooling")
		assert.Contains(t, out, "- [ ] Check seal\n- [x] Tighten bolt\n")
		assert.Contains(t, out, "- [ ] Gasket")
	})

	t.Run("json carries the export text", func(t *testing.T) {
		testutil.SetupDataset(t, map[string]string{"OUTPUT": "json"})
		out, _, err := execute(NewChecklistCommand(), "Plumbing", "--skip", "-a", "1", "--check", "3")
		require.NoError(t, err)

		var got struct {
			SubIssue  string `json:"sub_issue"`
			Symptom   string `json:"symptom"`
			Text      string `json:"text"`
			SparePart *struct {
				Text    string `json:"text"`
				Checked bool   `json:"checked"`
			} `json:"spare_part"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "Leak", got.SubIssue)
		assert.Equal(t, "S-12 — Water pooling", got.Symptom)
		assert.Equal(t, leakChecklist, got.Text)
		require.NotNil(t, got.SparePart)
		assert.True(t, got.SparePart.Checked)
	})

	t.Run("copy", func(t *testing.T) {
		testutil.SetupDataset(t, nil)
		fc := &fakeCopier{}
		stubCopier(t, fc)

		_, errOut, err := execute(NewChecklistCommand(), "Plumbing", "-s", "Leak", "-a", "1", "--copy")
		require.NoError(t, err)
		assert.Equal(t, []string{leakChecklist}, fc.copied)
		assert.Contains(t, errOut, "Copied checklist to clipboard (osc52)")
	})

	t.Run("copy failure", func(t *testing.T) {
		testutil.SetupDataset(t, nil)
		stubCopier(t, &fakeCopier{err: clipboard.ErrDisabled})

		_, _, err := execute(NewChecklistCommand(), "Plumbing", "-s", "Leak", "-a", "1", "--copy")
		assert.ErrorIs(t, err, clipboard.ErrDisabled)
	})

	t.Run("out of range", func(t *testing.T) {
		testutil.SetupDataset(t, nil)
		_, _, err := execute(NewChecklistCommand(), "Plumbing", "-s", "Leak", "-a", "2")
		assert.ErrorContains(t, err, "action 2 out of range (1-1)")

		_, _, err = execute(NewChecklistCommand(), "Plumbing", "-s", "Leak", "-a", "1", "--check", "4")
		assert.ErrorContains(t, err, "checklist item 4 out of range (1-3)")
	})
}

func TestHowToCommand(t *testing.T) {
	testutil.SetupDataset(t, nil)
	opened := stubOpener(t)

	_, _, err := execute(NewHowToCommand(), "Plumbing", "--skip", "--action", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://sop.example/leak"}, *opened)

	out, _, err := execute(NewHowToCommand(), "Plumbing", "--skip", "--action", "1", "--print")
	require.NoError(t, err)
	assert.Equal(t, "https://sop.example/leak\n", out)
	assert.Len(t, *opened, 1)

	_, _, err = execute(NewHowToCommand(), "Plumbing", "--skip", "--action", "2")
	assert.ErrorIs(t, err, errNoHowTo)

	_, _, err = execute(NewHowToCommand(), "Plumbing", "--skip", "--action", "3")
	assert.ErrorContains(t, err, "action 3 out of range")
}

func TestSchemaCommand(t *testing.T) {
	testutil.SetupDataset(t, map[string]string{"OUTPUT": "json"})

	out, _, err := execute(NewSchemaCommand())
	require.NoError(t, err)

	var got struct {
		Fields []struct {
			Role     string `json:"role"`
			Field    string `json:"field"`
			Resolved bool   `json:"resolved"`
		} `json:"fields"`
		Diagnostics []json.RawMessage `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Fields, 8)
	assert.Equal(t, "symptom_id", got.Fields[2].Role)
	assert.Equal(t, "Code", got.Fields[2].Field)
	for _, f := range got.Fields {
		assert.True(t, f.Resolved, f.Role)
	}
	assert.NotNil(t, got.Diagnostics)
	assert.Empty(t, got.Diagnostics)
}

func TestSchemaCommand_Overrides(t *testing.T) {
	testutil.SetupDataset(t, map[string]string{"SCHEMA__FIELDS__SPARE_PART": "Parts"})

	out, errOut, err := execute(NewSchemaCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "| Spare Part | _unresolved_ |")
	assert.Contains(t, errOut, `spare_part: configured field "Parts" not present in first record`)
}

func newTestShell(t *testing.T) (*shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	testutil.SetupDataset(t, nil)

	cmd := &cobra.Command{}
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetContext(context.Background())

	cc, err := NewCommandContext(cmd)
	require.NoError(t, err)
	return &shell{cc: cc, out: &out, errOut: &errOut}, &out, &errOut
}

func TestShell_Flow(t *testing.T) {
	sh, out, errOut := newTestShell(t)
	fc := &fakeCopier{}
	stubCopier(t, fc)
	opened := stubOpener(t)

	assert.Equal(t, "fieldguide> ", sh.prompt())

	assert.False(t, sh.exec("category Plumbing"))
	assert.Contains(t, out.String(), "- Leak\n- Pressure")
	assert.Equal(t, "fieldguide[Plumbing]> ", sh.prompt())

	out.Reset()
	assert.False(t, sh.exec("sub Leak"))
	assert.Contains(t, out.String(), "Replace seal")
	assert.Equal(t, "fieldguide[Plumbing/Leak]> ", sh.prompt())

	assert.False(t, sh.exec("howto 1"))
	assert.Equal(t, []string{"https://sop.example/leak"}, *opened)
	assert.Contains(t, out.String(), "✓ Opened https://sop.example/leak\n")

	out.Reset()
	assert.False(t, sh.exec("confirm 1"))
	assert.Contains(t, out.String(), "- [ ] Check seal")

	out.Reset()
	assert.False(t, sh.exec(".toggle 1"))
	assert.Contains(t, out.String(), "- [x] Check seal")

	assert.False(t, sh.exec("copy"))
	assert.Equal(t, []string{leakChecklist}, fc.copied)

	assert.False(t, sh.exec("skip"))
	assert.Equal(t, "fieldguide[Plumbing/*]> ", sh.prompt())
	_, ok := sh.cc.Session.Maintenance()
	assert.False(t, ok)

	assert.Empty(t, errOut.String())
	assert.True(t, sh.exec("quit"))
}

func TestShell_Errors(t *testing.T) {
	sh, _, errOut := newTestShell(t)

	tests := []struct {
		line string
		want string
	}{
		{"bogus", "Error: unknown command: bogus"},
		{"sub Leak", "Error: choose a category first"},
		{"actions", "Error: choose or skip a sub-issue first"},
		{"confirm one", `Error: expected a number, got "one"`},
		{"toggle 1", "Error: no maintenance checklist"},
		{"category Heating", `Error: unknown category "Heating"`},
		{"copy", "Error: no maintenance checklist"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			errOut.Reset()
			assert.False(t, sh.exec(tt.line))
			assert.Contains(t, errOut.String(), tt.want)
		})
	}
}

func TestCommandContext_ReusesContextRenderer(t *testing.T) {
	testutil.SetupDataset(t, nil)
	tr := testutil.NewTestRendererJSON()

	cmd := &cobra.Command{}
	cmd.SetContext(output.WithRenderer(context.Background(), tr.Renderer))
	cc := NewCommandContextWithoutEngine(cmd)
	assert.Same(t, tr.Renderer, cc.Renderer)

	plain := &cobra.Command{}
	plain.SetContext(context.Background())
	cc = NewCommandContextWithoutEngine(plain)
	require.NotNil(t, cc.Renderer)
	assert.NotSame(t, tr.Renderer, cc.Renderer)
}

func TestShell_HowToOutOfRange(t *testing.T) {
	sh, _, errOut := newTestShell(t)
	opened := stubOpener(t)

	require.False(t, sh.exec("category Plumbing"))
	require.False(t, sh.exec("sub Leak"))
	n := len(sh.cc.Session.State().Groups)
	require.Positive(t, n)

	for _, line := range []string{"howto 0", "howto 99"} {
		errOut.Reset()
		assert.False(t, sh.exec(line))
		assert.Contains(t, errOut.String(), fmt.Sprintf("out of range (1-%d)", n), line)
		assert.NotContains(t, errOut.String(), errNoHowTo.Error(), line)
	}
	assert.Empty(t, *opened)
}

func TestShell_HelpAndShow(t *testing.T) {
	sh, out, _ := newTestShell(t)

	assert.False(t, sh.exec("help"))
	assert.Contains(t, out.String(), "confirm <n>")

	out.Reset()
	assert.False(t, sh.exec("show"))
	assert.Contains(t, out.String(), "## Categories")

	out.Reset()
	assert.False(t, sh.exec("category"))
	assert.Empty(t, out.String())
	assert.False(t, sh.exec("   "))
}

func TestShell_Completer(t *testing.T) {
	sh, _, _ := newTestShell(t)

	line := []rune("category Co")
	candidates, length := sh.completer().Do(line, len(line))
	require.Len(t, candidates, 1)
	assert.Equal(t, 2, length)
	assert.Contains(t, string(candidates[0]), "oling")
}

func TestUnknownValue(t *testing.T) {
	err := unknownValue("category", "x", nil)
	assert.EqualError(t, err, `unknown category "x"`)

	many := []string{"k", "j", "i", "h", "g", "f", "e", "d", "c", "b", "a", "l"}
	err = unknownValue("category", "x", many)
	assert.Contains(t, err.Error(), "a, b, c, d, e, f, g, h, i, j, ... (2 more)")
}

func TestCopyChecklist_NothingConfirmed(t *testing.T) {
	sh, _, _ := newTestShell(t)
	assert.ErrorIs(t, copyChecklist(sh.cc), guide.ErrNoChecklist)
}
