package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/host"
	"github.com/reglet-dev/stubhost/host/stubpool"
)

// NewCatalogueCommand creates the catalogue command group.
func NewCatalogueCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalogue",
		Aliases: []string{"catalog"},
		Short:   "Work with stub catalogues",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a stub catalogue and list its stubs",
		Long: `Load a stub catalogue (YAML or HCL), check it against its schema and
validation rules, and print every stub it declares.

Examples:
  stubhost catalogue validate stubs.yaml
  stubhost --set slots=4 catalogue validate stubs.hcl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				app.Config.CataloguePath = args[0]
			}
			return runCatalogueValidate(cmd, app)
		},
	})
	return cmd
}

// loadCatalogue loads the configured catalogue into a pool.
func (a *App) loadCatalogue() (*entities.StubCatalogue, *stubpool.Pool, error) {
	if a.Config.CataloguePath == "" {
		return nil, nil, fmt.Errorf("no catalogue given: pass a file or --catalogue")
	}
	loader := host.NewLoader(host.WithHostConfig(a.Config))
	catalogue, err := loader.LoadCatalogueFile(a.Config.CataloguePath, a.Values)
	if err != nil {
		return nil, nil, err
	}
	pool, err := stubpool.New(catalogue.Expand(),
		stubpool.WithHostName(a.Config.HostName),
		stubpool.WithLogger(a.Logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return catalogue, pool, nil
}

func runCatalogueValidate(cmd *cobra.Command, app *App) error {
	_, pool, err := app.loadCatalogue()
	if err != nil {
		return err
	}
	stubs := pool.Stubs()

	if app.JSON {
		return writeJSON(cmd.OutOrStdout(), stubs)
	}

	rows := make([][]string, 0, len(stubs))
	for _, s := range stubs {
		rows = append(rows, []string{s.ID, string(s.Kind), s.Affinity.String(), s.LaunchMode.String()})
	}
	renderTitle(cmd.OutOrStdout(), fmt.Sprintf("%s: %d stubs", app.Config.CataloguePath, len(stubs)))
	renderTable(cmd.OutOrStdout(), []string{"STUB", "KIND", "PROCESS", "LAUNCH MODE"}, rows)
	return nil
}
