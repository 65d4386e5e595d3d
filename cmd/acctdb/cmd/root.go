package cmd

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/G-Research/acctdb/internal/acctdb"
	"github.com/G-Research/acctdb/internal/acctdb/acctdberrors"
	"github.com/G-Research/acctdb/internal/acctdb/configuration"
	"github.com/G-Research/acctdb/internal/common"
)

const (
	CustomConfigLocation = "config"
	defaultConfigPath    = "./config/acctdb/config.yaml"

	ExitOK    = 0
	ExitFatal = 1
	ExitUsage = 2
)

var usageHints = []string{
	"Please specify one or more accounting file(s) in .gz with -a or --accounting",
	"Please specify a SQLite database filename with -b or --database",
}

// RootCmd is the root Cobra command that gets called from the main func.
// Running it without a sub-command performs an ingestion.
func RootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "acctdb [flags] [accounting.gz ...]",
		Short: "acctdb loads Grid Engine accounting files into a freshly created database table.",
		Long: `acctdb reads gzip-compressed Grid Engine accounting files and loads the jobs of the
given owners into a table named "accounting". The destination is recreated on every run.

Accounting files may be given with -a/--accounting or as positional arguments.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetCount("verbose")
			quiet, _ := cmd.Flags().GetCount("quiet")
			configureLogging(verbose, quiet)
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return common.BindCommandlineArguments(v, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd, v, args)
			if err != nil {
				return err
			}
			summary, err := acctdb.Ingest(cmd.Context(), config)
			if err != nil {
				return err
			}
			if log.IsLevelEnabled(log.InfoLevel) {
				printSummary(cmd.OutOrStdout(), summary)
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return errors.WithStack(&acctdberrors.ErrUsage{Message: err.Error()})
	})

	cmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity; repeat for more")
	cmd.PersistentFlags().CountP("quiet", "q", "Decrease log verbosity; repeat for less")

	defaults := acctdb.DefaultConfiguration
	cmd.Flags().String(CustomConfigLocation, "", "Path to a YAML config file merged over the defaults")
	cmd.Flags().StringSliceP("accounting", "a", nil, "Gzip-compressed accounting file(s), loaded in the given order")
	cmd.Flags().StringP("database", "b", "", "SQLite database file, or connection string when --databaseType=postgres")
	cmd.Flags().StringSliceP("owner", "o", nil, "Owner(s) whose jobs are loaded")
	cmd.Flags().String("databaseType", defaults.DatabaseType, "Destination type: sqlite or postgres")
	cmd.Flags().Int("insertBatchSize", defaults.InsertBatchSize, "Number of records sent to the database per insert batch")
	cmd.Flags().String("fieldLayout", defaults.FieldLayout, "Accounting line layout")
	cmd.Flags().String("metricsTextfile", "", "Write Prometheus metrics for the run to this file")

	cmd.AddCommand(
		versionCmd(),
		schemaCmd(),
	)
	return cmd
}

// configureLogging keeps the plain command-line output by default and switches to
// timestamped logrus lines once -v is given.
func configureLogging(verbose, quiet int) {
	if verbose > 0 {
		common.ConfigureLogging()
	} else {
		common.ConfigureCommandLineLogging()
	}
	log.SetLevel(common.LevelFromVerbosity(verbose, quiet))
}

func loadConfig(cmd *cobra.Command, v *viper.Viper, args []string) (*configuration.IngestConfiguration, error) {
	userConfig, err := cmd.Flags().GetString(CustomConfigLocation)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var config configuration.IngestConfiguration
	if err := common.LoadConfig(v, &config, defaultConfigPath, userConfig); err != nil {
		return nil, errors.WithStack(&acctdberrors.ErrUsage{Message: err.Error()})
	}
	config.Accounting = append(config.Accounting, args...)
	return &config, nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return run(RootCmd(), nil)
}

func run(cmd *cobra.Command, args []string) int {
	if args != nil {
		cmd.SetArgs(args)
	}
	err := cmd.Execute()
	if err == nil {
		return ExitOK
	}
	if acctdberrors.IsUsage(err) {
		out := cmd.ErrOrStderr()
		fmt.Fprintf(out, "Error: %v\n\n", err)
		fmt.Fprintln(out, cmd.UsageString())
		printHints(out)
		return ExitUsage
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return ExitFatal
}

func printHints(out io.Writer) {
	for _, hint := range usageHints {
		fmt.Fprintln(out, hint)
	}
}
