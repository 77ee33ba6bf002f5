package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/fieldguide/internal/guide"
	"github.com/spf13/cobra"
)

const shellPrompt = "fieldguide> "

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Walk the guide in a line-oriented shell",
		Long: `Start an interactive shell over the dataset. It follows the same steps
as the full-screen guide: choose a category, choose or skip a sub-issue,
confirm an action, then tick off and copy the maintenance checklist.

Type 'help' inside the shell for the list of commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runShell(cmd, cc)
		},
	}
}

func runShell(cmd *cobra.Command, cc *CommandContext) error {
	sh := &shell{cc: cc, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     historyFile(),
		AutoComplete:    sh.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(sh.out, "fieldguide shell (%d records, session %s)\n", cc.Session.Engine().Len(), cc.Session.ID)
	_, _ = fmt.Fprintln(sh.out, "Type help for commands, quit to exit")
	_, _ = fmt.Fprintln(sh.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if sh.exec(line) {
			break
		}
		rl.SetPrompt(sh.prompt())
	}
	return nil
}

// historyFile returns a per-user history path, or "" to disable history.
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "fieldguide")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return ""
	}
	return filepath.Join(dir, "shell_history")
}

type shell struct {
	cc     *CommandContext
	out    io.Writer
	errOut io.Writer
}

func (sh *shell) prompt() string {
	st := sh.cc.Session.State()
	switch {
	case st.Phase == guide.PhaseNoCategory:
		return shellPrompt
	case st.Skipped:
		return fmt.Sprintf("fieldguide[%s/*]> ", st.Category)
	case st.SubIssue != "":
		return fmt.Sprintf("fieldguide[%s/%s]> ", st.Category, st.SubIssue)
	default:
		return fmt.Sprintf("fieldguide[%s]> ", st.Category)
	}
}

// exec runs one shell line and reports whether the shell should exit.
func (sh *shell) exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	name, rest, _ := strings.Cut(line, " ")
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	rest = strings.TrimSpace(rest)

	var err error
	switch name {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		printShellHelp(sh.out)
	case "categories", "cats":
		err = renderList(sh.cc.Renderer, "Categories", "categories", sh.cc.Session.Engine().Categories())
	case "category", "cat":
		err = sh.category(rest)
	case "subissues", "subs":
		err = sh.subIssues()
	case "sub":
		err = sh.subIssue(rest)
	case "skip":
		err = sh.skip()
	case "actions":
		err = sh.actions()
	case "confirm":
		err = sh.withNumber(rest, sh.confirm)
	case "howto":
		err = sh.withNumber(rest, sh.howTo)
	case "toggle", "check":
		err = sh.withNumber(rest, sh.toggle)
	case "show":
		err = sh.show()
	case "copy":
		err = copyChecklist(sh.cc)
	case "schema":
		err = renderSchema(sh.cc.Renderer, sh.cc.Inference)
	case "clear":
		_, _ = fmt.Fprint(sh.out, "\033[H\033[2J")
	default:
		err = fmt.Errorf("unknown command: %s (type help for commands)", name)
	}
	if err != nil {
		_, _ = fmt.Fprintf(sh.errOut, "Error: %v\n", err)
	}
	return false
}

func (sh *shell) category(name string) error {
	if name == "" {
		sh.cc.Session.Dispatch(guide.SelectCategory{})
		return nil
	}
	cats := sh.cc.Session.Engine().Categories()
	if !contains(cats, name) {
		return unknownValue("category", name, cats)
	}
	sh.cc.Session.Dispatch(guide.SelectCategory{Category: name})
	return sh.subIssues()
}

func (sh *shell) subIssues() error {
	st := sh.cc.Session.State()
	if !st.SubIssuesVisible() {
		return errors.New("choose a category first")
	}
	return renderList(sh.cc.Renderer, "Sub-issues", "sub_issues", st.SubIssues)
}

func (sh *shell) subIssue(name string) error {
	st := sh.cc.Session.State()
	if !st.SubIssuesVisible() {
		return errors.New("choose a category first")
	}
	if !contains(st.SubIssues, name) {
		return unknownValue("sub-issue", name, st.SubIssues)
	}
	sh.cc.Session.Dispatch(guide.SelectSubIssue{SubIssue: name})
	return sh.actions()
}

func (sh *shell) skip() error {
	if !sh.cc.Session.State().SubIssuesVisible() {
		return errors.New("choose a category first")
	}
	sh.cc.Session.Dispatch(guide.SkipSubIssue{})
	return sh.actions()
}

func (sh *shell) actions() error {
	st := sh.cc.Session.State()
	if !st.ActionsVisible() {
		return errors.New("choose or skip a sub-issue first")
	}
	return renderActions(sh.cc.Renderer, st)
}

func (sh *shell) confirm(n int) error {
	if !sh.cc.Session.State().ActionsVisible() {
		return errors.New("choose or skip a sub-issue first")
	}
	m, err := sh.cc.confirmAction(n)
	if err != nil {
		return err
	}
	return renderChecklist(sh.cc.Renderer, m)
}

func (sh *shell) howTo(n int) error {
	st := sh.cc.Session.State()
	if !st.ActionsVisible() {
		return errors.New("choose or skip a sub-issue first")
	}
	if n < 1 || n > len(st.Groups) {
		return fmt.Errorf("action %d out of range (1-%d)", n, len(st.Groups))
	}
	link, ok := sh.cc.Session.HowTo(n - 1)
	if !ok {
		return errNoHowTo
	}
	if err := openLink(link); err != nil {
		return err
	}
	sh.cc.Renderer.Success("Opened " + link)
	return nil
}

func (sh *shell) toggle(n int) error {
	m, ok := sh.cc.Session.Maintenance()
	if !ok {
		return guide.ErrNoChecklist
	}
	if n < 1 || n > len(m.Items()) {
		return fmt.Errorf("checklist item %d out of range (1-%d)", n, len(m.Items()))
	}
	sh.cc.Session.Dispatch(guide.ToggleItem{Index: n - 1})
	m, _ = sh.cc.Session.Maintenance()
	return renderChecklist(sh.cc.Renderer, m)
}

func (sh *shell) show() error {
	st := sh.cc.Session.State()
	switch {
	case st.MaintenanceVisible():
		return renderChecklist(sh.cc.Renderer, *st.Maintenance)
	case st.ActionsVisible():
		return renderActions(sh.cc.Renderer, st)
	case st.SubIssuesVisible():
		return renderList(sh.cc.Renderer, "Sub-issues", "sub_issues", st.SubIssues)
	default:
		return renderList(sh.cc.Renderer, "Categories", "categories", sh.cc.Session.Engine().Categories())
	}
}

func (sh *shell) withNumber(arg string, fn func(int) error) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("expected a number, got %q", arg)
	}
	return fn(n)
}

func printShellHelp(w io.Writer) {
	help := `
Commands:
  categories        List categories
  category <name>   Choose a category (no name resets the guide)
  subissues         List sub-issues of the chosen category
  sub <name>        Choose a sub-issue and list its actions
  skip              Skip the sub-issue and list every action of the category
  actions           List the current actions again
  confirm <n>       Confirm action n and show its maintenance checklist
  howto <n>         Open the SOP procedure of action n
  toggle <n>        Tick or untick checklist item n
  show              Show the current step
  copy              Copy the checklist text to the clipboard
  schema            Show the field mapping
  clear             Clear the screen
  quit / exit       Leave the shell

Tips:
  - Tab completes commands, categories and sub-issues
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

func (sh *shell) completer() *readline.PrefixCompleter {
	categories := func(string) []string { return sh.cc.Session.Engine().Categories() }
	subIssues := func(string) []string { return sh.cc.Session.State().SubIssues }

	return readline.NewPrefixCompleter(
		readline.PcItem("categories"),
		readline.PcItem("category", readline.PcItemDynamic(categories)),
		readline.PcItem("subissues"),
		readline.PcItem("sub", readline.PcItemDynamic(subIssues)),
		readline.PcItem("skip"),
		readline.PcItem("actions"),
		readline.PcItem("confirm"),
		readline.PcItem("howto"),
		readline.PcItem("toggle"),
		readline.PcItem("show"),
		readline.PcItem("copy"),
		readline.PcItem("schema"),
		readline.PcItem("clear"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
		readline.PcItem("exit"),
	)
}
