package commands

import (
	"context"

	"github.com/leapstack-labs/fieldguide/internal/guide"
	"github.com/leapstack-labs/fieldguide/internal/tui"
	"github.com/spf13/cobra"
)

// AnnotationInteractive marks commands that own the terminal. The root
// command silences stderr logging for them unless a log file is set.
const AnnotationInteractive = "fieldguide/interactive"

// NewGuideCommand creates the guide command.
func NewGuideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Open the interactive troubleshooting guide",
		Long: `Open the full-screen guide. Pick a category, pick or skip a sub-issue,
confirm the support action you observed, then work through the
maintenance checklist and copy it for your report.

Keys: enter choose, s skip sub-issue, h open how-to, space tick,
c copy, esc back, / filter, q quit.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{AnnotationInteractive: "true"},
		RunE:        RunGuide,
	}
}

// RunGuide runs the TUI. The root command uses it as its default action.
func RunGuide(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContextWithoutEngine(cmd)
	if err := cc.Cfg.RequireDataset(); err != nil {
		return err
	}
	cp := newCopier(cc.Cfg)

	return tui.Run(cmd.Context(), tui.Options{
		Load: func(ctx context.Context) (*guide.Session, error) {
			sess, _, err := LoadSession(ctx, cc.Cfg, cc.Logger)
			return sess, err
		},
		Copy:   cp.Copy,
		Open:   openLink,
		Logger: cc.Logger,
	})
}
