package cli

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/infrastructure/bindingstore"
)

// NewDiffCommand creates the diff command.
func NewDiffCommand(app *App) *cobra.Command {
	var context int

	cmd := &cobra.Command{
		Use:   "diff <old-snapshot> <new-snapshot>",
		Short: "Compare two binding snapshots",
		Long: `Print a unified diff of the bindings recorded in two snapshot files,
one binding per line. Timestamps are ignored.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldSnap, err := bindingstore.LoadFile(args[0])
			if err != nil {
				return err
			}
			newSnap, err := bindingstore.LoadFile(args[1])
			if err != nil {
				return err
			}

			out, err := DiffSnapshots(args[0], args[1], oldSnap, newSnap, context)
			if err != nil {
				return err
			}
			if app.JSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"changed": out != "", "diff": out})
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Snapshots bind the same components.")
				return nil
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().IntVarP(&context, "context", "U", 3, "Lines of context")
	return cmd
}

// snapshotLines renders one line per binding, in the broker's order.
func snapshotLines(s *entities.BindingSnapshot) []string {
	lines := make([]string, 0, len(s.Bindings))
	for _, b := range s.Bindings {
		lines = append(lines, fmt.Sprintf("%s -> %s @ %s\n", b.Key, b.StubID, b.Process))
	}
	return lines
}

// DiffSnapshots returns a unified diff of the bindings of two snapshots, or
// "" when they bind the same components to the same stubs and processes.
func DiffSnapshots(oldName, newName string, oldSnap, newSnap *entities.BindingSnapshot, context int) (string, error) {
	a, b := snapshotLines(oldSnap), snapshotLines(newSnap)
	if strings.Join(a, "") == strings.Join(b, "") {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: oldName,
		ToFile:   newName,
		Context:  context,
	})
}
