package commands

import (
	"github.com/spf13/cobra"
)

// NewCategoriesCommand creates the categories command.
func NewCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cats"},
		Short:   "List issue categories",
		Long:    `List the distinct categories in the dataset, sorted for the configured locale.`,
		Example: `  fieldguide categories -d issues.json
  fieldguide categories -d issues.csv -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return renderList(cc.Renderer, "Categories", "categories", cc.Session.Engine().Categories())
		},
	}
}

// NewSubIssuesCommand creates the subissues command.
func NewSubIssuesCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "subissues <category>",
		Aliases:           []string{"subs"},
		Short:             "List the sub-issues of a category",
		Example:           `  fieldguide subissues "Cooling" -d issues.json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCategories,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			cats := cc.Session.Engine().Categories()
			if !contains(cats, args[0]) {
				return unknownValue("category", args[0], cats)
			}
			st := cc.Session.Dispatch(selectCategory(args[0]))
			return renderList(cc.Renderer, "Sub-issues", "sub_issues", st.SubIssues)
		},
	}
}
