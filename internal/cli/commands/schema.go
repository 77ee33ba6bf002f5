package commands

import (
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show which dataset fields were mapped to each role",
		Long: `Show the field chosen for each role (category, sub-issue, symptom id,
symptom description, support action, field action, spare part, SOP link).

Roles are inferred once from the first record. Unresolved or ambiguous
roles are reported as warnings; pin them in fieldguide.yaml:

  schema:
    fields:
      symptom_id: Code`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return renderSchema(cc.Renderer, cc.Inference)
		},
	}
}
