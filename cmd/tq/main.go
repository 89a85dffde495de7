package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abatilo/tq/internal/config"
	"github.com/abatilo/tq/internal/logging"
	"github.com/abatilo/tq/internal/output"
	"github.com/abatilo/tq/internal/query/filter"
	"github.com/abatilo/tq/internal/storage"
)

//nolint:gochecknoglobals // CLI flags, settings and formatter are package-level by design
var (
	jsonOutput bool
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
	formatter  output.Formatter
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "tq",
		Short: "Query the checklist tasks in a folder of markdown notes",
		Long:  "tq - Filter markdown checklist tasks with a line-per-filter query language.",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			formatter = newFormatter(jsonOutput)

			projectRoot, _ := storage.FindProjectRoot("")
			loaded, err := config.Load(configFile, projectRoot, cmd.Flags())
			if err != nil {
				printError(fmt.Errorf("loading config: %w", err))
			}
			cfg = loaded

			formatter = newFormatter(cfg.Output.JSON)
			logger = logging.Configure(os.Stderr, cfg.Logging.Level, logging.Format(cfg.Logging.Format))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	flags.StringVar(&configFile, "config", "", "Config file (default: .tq/config.yaml, then $XDG_CONFIG_HOME/tq/config.yaml)")
	flags.String("vault", "", "Directory of markdown notes to scan (default: project root)")
	flags.String("global-filter", "", "Tag a checklist line must carry to count as a task")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.String("store-dir", "", "Directory for saved queries (default: ~/.tq/<project>)")

	rootCmd.AddCommand(
		initCmd(),
		runCmd(),
		explainCmd(),
		saveCmd(),
		listCmd(),
		showCmd(),
		rmCmd(),
		fieldsCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newFormatter(asJSON bool) output.Formatter {
	if asJSON {
		return output.NewJSONFormatter()
	}
	return output.NewHumanFormatter()
}

func printOutput(s string) {
	os.Stdout.WriteString(s) //nolint:gosec // stdout write errors are unrecoverable
}

func printError(err error) {
	os.Stdout.WriteString(formatter.FormatError(err)) //nolint:gosec // stdout write errors are unrecoverable
	os.Exit(1)
}

// getStore opens the saved query store from store.dir, or the per-project default.
func getStore() (*storage.Store, error) {
	if cfg.Store.Dir != "" {
		return storage.NewStoreWithPath(cfg.Store.Dir), nil
	}
	root, err := storage.FindProjectRoot("")
	if err != nil {
		return nil, err
	}
	return storage.NewStore(root)
}

// vaultRoot resolves the vault directory: the configured one, else the project root.
func vaultRoot() (string, error) {
	if cfg.Vault != "" {
		return filepath.Abs(cfg.Vault)
	}
	return storage.FindProjectRoot("")
}

func filterOptions() []filter.Option {
	return []filter.Option{filter.WithGlobalFilter(cfg.GlobalFilter)}
}

// initCmd implements 'tq init'.
func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the saved query store and a default config",
		Run: func(_ *cobra.Command, _ []string) {
			store, err := getStore()
			if err != nil {
				printError(err)
			}
			if err = store.Init(force); err != nil {
				printError(err)
			}

			if dir, dirErr := config.UserConfigDir(); dirErr == nil {
				path := filepath.Join(dir, "config.yaml")
				switch err = config.WriteDefault(path); {
				case err == nil:
					logger.Info("wrote default config", "path", path)
				case os.IsExist(err):
					logger.Debug("config already present", "path", path)
				default:
					logger.Warn("could not write default config", "path", path, "error", err)
				}
			}

			printOutput(formatter.FormatMessage(fmt.Sprintf("Initialized tq at %s", store.BasePath())))
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Reinitialize even if already exists")
	return cmd
}

// fieldsCmd implements 'tq fields'.
func fieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the query fields in dispatch order",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fields := filter.NewRegistry(filterOptions()...).Fields()
			infos := make([]output.FieldInfo, len(fields))
			for i, f := range fields {
				infos[i] = output.FieldInfo{Name: f.Name(), Grammar: f.Grammar().String()}
			}
			printOutput(formatter.FormatFields(infos))
		},
	}
}
