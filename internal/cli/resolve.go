package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/domain/policy"
)

type resolveFlags struct {
	intent       entities.Intent
	patterns     []string
	exportedOnly bool
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(app *App) *cobra.Command {
	flags := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "resolve <manifest-dir>",
		Short: "Show which plugin components accept an intent",
		Long: `Match an intent against the intent filters of the discovered plugin
manifests and list the accepting components, best match first.

Examples:
  stubhost resolve ./plugins --action view --data https://example.com/docs/a.pdf
  stubhost resolve ./plugins --action send --mime image/png --exported-only`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, app, args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.intent.Action, "action", "", "Intent action")
	cmd.Flags().StringVar(&flags.intent.Data, "data", "", "Intent data URI")
	cmd.Flags().StringVar(&flags.intent.MimeType, "mime", "", "Intent MIME type")
	cmd.Flags().StringSliceVar(&flags.intent.Categories, "category", nil, "Intent category (repeatable)")
	cmd.Flags().StringSliceVar(&flags.patterns, "pattern", nil, "Manifest glob pattern (default **/plugin.{yaml,yml})")
	cmd.Flags().BoolVar(&flags.exportedOnly, "exported-only", false, "Only consider exported components")
	return cmd
}

func runResolve(cmd *cobra.Command, app *App, dir string, flags *resolveFlags) error {
	manifests, err := app.loadManifests(dir, flags.patterns)
	if err != nil {
		return err
	}

	p := policy.NewIntentPolicy(
		policy.WithMissHandler(&policy.LogMissHandler{Logger: app.Logger}),
		policy.WithExportedOnly(flags.exportedOnly),
	)
	matches := p.Resolve(flags.intent, manifests)

	if app.JSON {
		if matches == nil {
			matches = []entities.ComponentMatch{}
		}
		return writeJSON(cmd.OutOrStdout(), matches)
	}

	w := cmd.OutOrStdout()
	if len(matches) == 0 {
		fmt.Fprintln(w, "No component accepts the intent.")
		return nil
	}
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, []string{
			strconv.Itoa(m.Priority), m.Key.Plugin, m.Key.Class, string(m.Key.Kind),
			m.Decl.Process.Normalize().String(),
		})
	}
	renderTable(w, []string{"PRIORITY", "PLUGIN", "COMPONENT", "KIND", "PROCESS"}, rows)
	return nil
}
