package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/stubhost/application/schema"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "schema [kind]",
		Short:     "Print the JSON schema of a document kind",
		Long:      "Print the JSON schema of a catalogue, manifest, config or snapshot document. Without a kind, list the kinds.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: schema.Kinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, k := range schema.Kinds() {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
				return nil
			}
			data, err := schema.ForKind(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
