// Package cli implements the stubhost command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/stubhost"
	appconfig "github.com/reglet-dev/stubhost/application/config"
	"github.com/reglet-dev/stubhost/domain/entities"
	hostlog "github.com/reglet-dev/stubhost/log"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// App holds the state shared by every command.
type App struct {
	Config entities.Config
	Values appconfig.Values
	Logger *slog.Logger
	JSON   bool

	out io.Writer
	err io.Writer
}

type rootFlags struct {
	configPath string
	catalogue  string
	hostName   string
	slots      int
	perSlot    int
	logLevel   string
	logFormat  string
	set        []string
}

// NewRootCommand builds the stubhost command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	app := &App{out: out, err: errOut}
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "stubhost",
		Short: "Inspect and dry-run plugin stub bindings",
		Long: `stubhost validates stub catalogues and plugin manifests, and dry-runs
how plugin components would be bound to stubs and placed in processes.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.configure(cmd, flags)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\n", BuildTime))

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Host config file (YAML)")
	pf.StringVar(&flags.catalogue, "catalogue", "", "Stub catalogue file (.yaml, .yml or .hcl)")
	pf.StringVar(&flags.hostName, "host", "", "Host package name")
	pf.IntVar(&flags.slots, "slots", 0, "Number of auto process slots")
	pf.IntVar(&flags.perSlot, "plugins-per-slot", 0, "Plugins allowed to share an auto slot")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format (text, json)")
	pf.StringArrayVar(&flags.set, "set", nil, "Template value or host setting as key=value (repeatable)")
	pf.BoolVar(&app.JSON, "json", false, "Print machine-readable JSON")

	rootCmd.AddCommand(NewCatalogueCommand(app))
	rootCmd.AddCommand(NewSchemaCommand(app))
	rootCmd.AddCommand(NewPlanCommand(app))
	rootCmd.AddCommand(NewResolveCommand(app))
	rootCmd.AddCommand(NewDiffCommand(app))

	return rootCmd
}

// configure layers the config file, --set values and flags, then validates.
func (a *App) configure(cmd *cobra.Command, flags *rootFlags) error {
	file, err := appconfig.Load(flags.configPath)
	if err != nil {
		return err
	}
	cfg := file.Config

	set, err := appconfig.ParseSet(flags.set)
	if err != nil {
		return err
	}
	if err := appconfig.Apply(&cfg, set); err != nil {
		return err
	}

	for _, opt := range []entities.ConfigOption{
		entities.WithHostName(flags.hostName),
		entities.WithProcessSlots(flags.slots),
		entities.WithPluginsPerSlot(flags.perSlot),
	} {
		opt(&cfg)
	}
	if flags.catalogue != "" {
		cfg.CataloguePath = flags.catalogue
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.LogFormat = flags.logFormat
	}
	if err := stubhost.ValidateConfig(cfg); err != nil {
		return err
	}

	values := file.Values
	for k, v := range set {
		values[k] = v
	}

	a.Config = cfg
	a.Values = values
	a.Logger = hostlog.New(
		hostlog.WithLevelName(cfg.LogLevel),
		hostlog.WithFormat(cfg.LogFormat),
		hostlog.WithWriter(a.err),
	)
	cmd.SetContext(hostlog.WithLogger(cmd.Context(), a.Logger))
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		printError(cmd, err)
		return 1
	}
	return 0
}
