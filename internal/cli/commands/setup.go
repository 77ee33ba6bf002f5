package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/leapstack-labs/fieldguide/internal/cli/config"
	"github.com/leapstack-labs/fieldguide/internal/cli/output"
	"github.com/leapstack-labs/fieldguide/internal/clipboard"
	"github.com/leapstack-labs/fieldguide/internal/dataset"
	"github.com/leapstack-labs/fieldguide/internal/guide"
	"github.com/leapstack-labs/fieldguide/internal/opener"
	"github.com/leapstack-labs/fieldguide/internal/schema"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Session  *guide.Session
	// Inference is the schema result the session's engine was built with.
	Inference schema.Result
}

// Seams replaced by tests.
var (
	newCopier = func(cfg *config.Config) copier {
		return clipboard.New(os.Stderr, cfg.Clipboard)
	}
	openLink opener.Func = opener.Open
)

type copier interface {
	Copy(text string) (clipboard.Method, error)
}

// NewCommandContext loads the dataset and starts a guide session.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cc := NewCommandContextWithoutEngine(cmd)
	sess, res, err := LoadSession(cmd.Context(), cc.Cfg, cc.Logger)
	if err != nil {
		return nil, err
	}
	cc.Session = sess
	cc.Inference = res
	return cc, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without loading
// the dataset. The renderer set up by the root command is reused when present.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r, ok := output.FromContext(cmd.Context())
	if !ok {
		mode, err := output.ParseMode(cfg.Output)
		if err != nil {
			mode = output.ModeAuto
		}
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// LoadSession reads the configured dataset, infers its schema and returns a
// fresh session over it. Schema diagnostics are logged as warnings.
func LoadSession(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*guide.Session, schema.Result, error) {
	if err := cfg.RequireDataset(); err != nil {
		return nil, schema.Result{}, err
	}
	overrides, err := cfg.SchemaOverrides()
	if err != nil {
		return nil, schema.Result{}, err
	}

	ds, err := dataset.Load(ctx, datasetOptions(cfg, logger))
	if err != nil {
		return nil, schema.Result{}, fmt.Errorf("load dataset: %w", err)
	}

	eng, res, err := guide.FromDataset(ds, schema.Options{
		Strict:    cfg.Schema.Strict,
		Overrides: overrides,
	}, cfg.LocaleTag())
	if err != nil {
		return nil, schema.Result{}, err
	}
	res.LogDiagnostics(logger)

	return guide.NewSession(eng, logger), res, nil
}

func datasetOptions(cfg *config.Config, logger *slog.Logger) dataset.Options {
	return dataset.Options{
		Location:    cfg.Dataset,
		Format:      cfg.Format,
		Table:       cfg.Table,
		Timeout:     cfg.Fetch.Timeout,
		InsecureTLS: cfg.Fetch.Insecure,
		MaxBytes:    cfg.Fetch.MaxBytes,
		Logger:      logger,
	}
}

// getConfig returns the loaded configuration, or defaults when the root
// command's pre-run did not load one.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// selectActions walks the session to the action lines of a category.
func (c *CommandContext) selectActions(category, subIssue string, skip bool) (guide.State, error) {
	if cats := c.Session.Engine().Categories(); !contains(cats, category) {
		return c.Session.State(), unknownValue("category", category, cats)
	}
	st := c.Session.Dispatch(guide.SelectCategory{Category: category})
	if skip {
		return c.Session.Dispatch(guide.SkipSubIssue{}), nil
	}
	if !contains(st.SubIssues, subIssue) {
		return st, unknownValue("sub-issue", subIssue, st.SubIssues)
	}
	return c.Session.Dispatch(guide.SelectSubIssue{SubIssue: subIssue}), nil
}

// confirmAction confirms a 1-based action number.
func (c *CommandContext) confirmAction(n int) (guide.Maintenance, error) {
	groups := c.Session.State().Groups
	if n < 1 || n > len(groups) {
		return guide.Maintenance{}, fmt.Errorf("action %d out of range (1-%d)", n, len(groups))
	}
	c.Session.Dispatch(guide.ConfirmGroup{Index: n - 1})
	m, ok := c.Session.Maintenance()
	if !ok {
		return guide.Maintenance{}, guide.ErrNoChecklist
	}
	return m, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func unknownValue(kind, v string, valid []string) error {
	if len(valid) == 0 {
		return fmt.Errorf("unknown %s %q", kind, v)
	}
	shown := append([]string(nil), valid...)
	sort.Strings(shown)
	const maxShown = 10
	suffix := ""
	if len(shown) > maxShown {
		suffix = fmt.Sprintf(", ... (%d more)", len(shown)-maxShown)
		shown = shown[:maxShown]
	}
	return fmt.Errorf("unknown %s %q\nHint: valid values are %s%s", kind, v, strings.Join(shown, ", "), suffix)
}

// completeCategories is a ValidArgsFunction for commands taking a category.
func completeCategories(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg := getConfig()
	sess, _, err := LoadSession(cmd.Context(), cfg, config.GetLogger(cmd.Context()))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return sess.Engine().Categories(), cobra.ShellCompDirectiveNoFileComp
}
