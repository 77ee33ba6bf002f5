package commands

import (
	"github.com/leapstack-labs/fieldguide/internal/guide"
	"github.com/spf13/cobra"
)

// selectionFlags are shared by commands that narrow a category to actions.
type selectionFlags struct {
	SubIssue string
	Skip     bool
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.SubIssue, "sub-issue", "s", "", "Sub-issue to narrow the actions to")
	cmd.Flags().BoolVar(&f.Skip, "skip", false, "Skip the sub-issue and list actions for the whole category")
	cmd.MarkFlagsMutuallyExclusive("sub-issue", "skip")
	cmd.MarkFlagsOneRequired("sub-issue", "skip")
}

func selectCategory(c string) guide.Action { return guide.SelectCategory{Category: c} }

// NewActionsCommand creates the actions command.
func NewActionsCommand() *cobra.Command {
	var sel selectionFlags

	cmd := &cobra.Command{
		Use:   "actions <category>",
		Short: "List support actions for a category",
		Long: `List the support actions observed for a category, one line per
(sub-issue, support action) pair. Records whose support action is "/" are
never listed. Action numbers are used by the checklist and howto commands.`,
		Example: `  fieldguide actions Cooling --sub-issue "Fan noise"
  fieldguide actions Cooling --skip -o json`,
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
			return renderActions(cc.Renderer, st)
		},
	}
	sel.register(cmd)
	return cmd
}
