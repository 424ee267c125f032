package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/stubhost"
	"github.com/reglet-dev/stubhost/application/extractor"
	"github.com/reglet-dev/stubhost/domain/entities"
	domerrors "github.com/reglet-dev/stubhost/domain/errors"
	"github.com/reglet-dev/stubhost/infrastructure/bindingstore"
)

type planFlags struct {
	patterns []string
	save     string
}

// planFailure is a component that could not be bound.
type planFailure struct {
	Key   entities.PluginComponentKey `json:"key"`
	Error *entities.ErrorDetail       `json:"error"`
}

type planResult struct {
	Bindings  []entities.Binding     `json:"bindings"`
	Processes []entities.ProcessInfo `json:"processes"`
	Failures  []planFailure          `json:"failures,omitempty"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(app *App) *cobra.Command {
	flags := &planFlags{}

	cmd := &cobra.Command{
		Use:   "plan <manifest-dir>",
		Short: "Dry-run binding every component of the discovered plugins",
		Long: `Discover plugin manifests under a directory, then bind every declared
component against the stub catalogue in declaration order, as if each
were launched. Prints the resulting bindings, process placement and any
component that could not be bound.

Examples:
  stubhost --catalogue stubs.yaml plan ./plugins
  stubhost --catalogue stubs.hcl --slots 2 plan ./plugins --save bindings.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, app, args[0], flags)
		},
	}
	cmd.Flags().StringSliceVar(&flags.patterns, "pattern", nil, "Manifest glob pattern (default **/plugin.{yaml,yml})")
	cmd.Flags().StringVar(&flags.save, "save", "", "Write the resulting binding snapshot to this file")
	return cmd
}

func runPlan(cmd *cobra.Command, app *App, dir string, flags *planFlags) error {
	catalogue, _, err := app.loadCatalogue()
	if err != nil {
		return err
	}
	manifests, err := app.loadManifests(dir, flags.patterns)
	if err != nil {
		return err
	}

	h, err := stubhost.New(app.Config, catalogue, stubhost.WithLogger(app.Logger))
	if err != nil {
		return err
	}

	planner := extractor.NewManifestPlanner()
	result := planResult{}
	for _, m := range manifests {
		reqs, err := planner.Plan(m)
		if err != nil {
			return fmt.Errorf("plan %s: %w", m.Name, err)
		}
		for _, req := range reqs {
			if _, err := h.Launch(cmd.Context(), req); err != nil {
				result.Failures = append(result.Failures, planFailure{Key: req.Key, Error: domerrors.ToErrorDetail(err)})
			}
		}
	}
	result.Bindings = h.Broker().Bindings()
	result.Processes = h.Dispatcher().Processes()

	if flags.save != "" {
		store := bindingstore.NewFileStore(bindingstore.WithPath(flags.save))
		if err := store.Save(h.Snapshot()); err != nil {
			return err
		}
	}

	if app.JSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	printPlan(cmd, result)
	return nil
}

func printPlan(cmd *cobra.Command, result planResult) {
	w := cmd.OutOrStdout()

	rows := make([][]string, 0, len(result.Bindings))
	for _, b := range result.Bindings {
		rows = append(rows, []string{b.Key.Plugin, b.Key.Class, string(b.Key.Kind), b.StubID, b.Process.String()})
	}
	renderTitle(w, fmt.Sprintf("Bindings (%d)", len(result.Bindings)))
	renderTable(w, []string{"PLUGIN", "COMPONENT", "KIND", "STUB", "PROCESS"}, rows)

	rows = rows[:0]
	for _, p := range result.Processes {
		rows = append(rows, []string{strconv.Itoa(p.Target.ID), p.Target.Name, string(p.Target.Kind), strings.Join(p.Plugins, ","), strconv.Itoa(p.Refs)})
	}
	renderTitle(w, "Processes")
	renderTable(w, []string{"ID", "NAME", "KIND", "PLUGINS", "REFS"}, rows)

	if len(result.Failures) == 0 {
		return
	}
	rows = rows[:0]
	for _, f := range result.Failures {
		rows = append(rows, []string{f.Key.String(), f.Error.Code, f.Error.Message})
	}
	renderTitle(w, fmt.Sprintf("Unbound (%d)", len(result.Failures)))
	renderTable(w, []string{"COMPONENT", "CODE", "REASON"}, rows)
}
