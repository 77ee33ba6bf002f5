package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/fieldguide/internal/cli/output"
	"github.com/leapstack-labs/fieldguide/internal/guide"
	"github.com/spf13/cobra"
)

// ChecklistOptions holds options for the checklist command.
type ChecklistOptions struct {
	selectionFlags
	Action int
	Check  []int
	Copy   bool
}

// NewChecklistCommand creates the checklist command.
func NewChecklistCommand() *cobra.Command {
	opts := &ChecklistOptions{}

	cmd := &cobra.Command{
		Use:   "checklist <category>",
		Short: "Show the maintenance checklist for a confirmed action",
		Long: `Confirm an action line (by its number from 'fieldguide actions') and
print the maintenance checklist aggregated over every record of that line.

--copy places the plain-text export on the clipboard, using the system
clipboard when available and an OSC52 terminal escape otherwise.`,
		Example: `  fieldguide checklist Cooling --sub-issue "Fan noise" --action 1
  fieldguide checklist Cooling --skip --action 2 --check 1 --copy`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCategories,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runChecklist(cc, args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVarP(&opts.Action, "action", "a", 0, "Action number to confirm (1-based)")
	cmd.Flags().IntSliceVar(&opts.Check, "check", nil, "Checklist items to mark done (1-based, repeatable)")
	cmd.Flags().BoolVar(&opts.Copy, "copy", false, "Copy the checklist text to the clipboard")
	_ = cmd.MarkFlagRequired("action")

	return cmd
}

func runChecklist(cc *CommandContext, category string, opts *ChecklistOptions) error {
	if _, err := cc.selectActions(category, opts.SubIssue, opts.Skip); err != nil {
		return err
	}
	m, err := cc.confirmAction(opts.Action)
	if err != nil {
		return err
	}
	for _, n := range opts.Check {
		if n < 1 || n > len(m.Items()) {
			return fmt.Errorf("checklist item %d out of range (1-%d)", n, len(m.Items()))
		}
		cc.Session.Dispatch(guide.ToggleItem{Index: n - 1})
	}
	m, _ = cc.Session.Maintenance()

	if err := renderChecklist(cc.Renderer, m); err != nil {
		return err
	}
	if opts.Copy {
		return copyChecklist(cc)
	}
	return nil
}

func copyChecklist(cc *CommandContext) error {
	text, err := cc.Session.ExportText()
	if err != nil {
		return err
	}
	method, err := newCopier(cc.Cfg).Copy(text)
	if err != nil {
		return fmt.Errorf("copy checklist: %w", err)
	}
	cc.Logger.Debug("checklist copied", "method", string(method), "bytes", len(text))
	if cc.Renderer.EffectiveMode() != output.ModeJSON {
		_, _ = fmt.Fprintln(cc.Renderer.ErrWriter(), "Copied checklist to clipboard ("+string(method)+")")
	}
	return nil
}

var errNoHowTo = errors.New("this action has no how-to procedure")

// NewHowToCommand creates the howto command.
func NewHowToCommand() *cobra.Command {
	var (
		sel       selectionFlags
		action    int
		printOnly bool
	)

	cmd := &cobra.Command{
		Use:   "howto <category>",
		Short: "Open the SOP procedure linked to an action",
		Long: `Open the SOP link of an action line with the desktop's default handler.
Actions whose SOP cell is empty, "/" or "I" (internal) have no link.`,
		Example: `  fieldguide howto Cooling --sub-issue "Fan noise" --action 1
  fieldguide howto Cooling --skip --action 3 --print`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCategories,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			st, err := cc.selectActions(args[0], sel.SubIssue, sel.Skip)
			if err != nil {
				return err
			}
			if action < 1 || action > len(st.Groups) {
				return fmt.Errorf("action %d out of range (1-%d)", action, len(st.Groups))
			}
			link, ok := cc.Session.HowTo(action - 1)
			if !ok {
				return errNoHowTo
			}
			if printOnly {
				cc.Renderer.Println(link)
				return nil
			}
			if err := openLink(link); err != nil {
				return err
			}
			cc.Logger.Info("opened how-to", "link", link)
			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().IntVarP(&action, "action", "a", 0, "Action number (1-based)")
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the link instead of opening it")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}
