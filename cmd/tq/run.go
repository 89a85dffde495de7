package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	tqerrors "github.com/abatilo/tq/internal/errors"
	"github.com/abatilo/tq/internal/query"
	"github.com/abatilo/tq/internal/task"
	"github.com/abatilo/tq/internal/vault"
)

// readSource builds query source from positional args (one line each) or from file.
// A file of "-" reads stdin.
func readSource(args []string, file string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, "\n"), nil
	}

	switch file {
	case "":
		return "", tqerrors.MissingQueryError{}
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// resolveSource picks the query source from --saved, positional args, or --file.
func resolveSource(args []string, file, saved string) (string, error) {
	if saved == "" {
		return readSource(args, file, os.Stdin)
	}

	store, err := getStore()
	if err != nil {
		return "", err
	}
	q, err := store.Load(saved)
	if err != nil {
		return "", err
	}
	return q.Source, nil
}

func loadTasks(ctx context.Context) ([]*task.Task, error) {
	root, err := vaultRoot()
	if err != nil {
		return nil, err
	}
	reader := vault.NewReader(root,
		vault.WithGlobalFilter(cfg.GlobalFilter),
		vault.WithLogger(logger),
	)
	return reader.Tasks(ctx)
}

// runCmd implements 'tq run'.
func runCmd() *cobra.Command {
	var file, saved string
	var strict bool
	cmd := &cobra.Command{
		Use:   "run [instruction...]",
		Short: "Run a query against the tasks in the vault",
		Long: `Run a query against the tasks in the vault.

Each argument is one instruction line. Lines that cannot be understood are
reported alongside the results and contribute no filter.`,
		Run: func(cmd *cobra.Command, args []string) {
			source, err := resolveSource(args, file, saved)
			if err != nil {
				printError(err)
			}

			q := query.New(source, filterOptions()...)
			tasks, err := loadTasks(cmd.Context())
			if err != nil {
				printError(err)
			}

			result := q.Run(tasks)
			logger.Debug("ran query",
				"filters", len(q.Filters()),
				"errors", len(result.Errors),
				"matched", len(result.Tasks),
				"total", result.Total,
			)
			printOutput(formatter.FormatResult(result))

			if strict && q.HasErrors() {
				printError(tqerrors.InvalidQueryError{Messages: q.ErrorMessages()})
			}
		},
	}
	cmd.Flags().StringVarP(&file, "file", "F", "", "Read the query from a file ('-' for stdin)")
	cmd.Flags().StringVarP(&saved, "saved", "s", "", "Run a saved query by ID")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any instruction is not understood")
	return cmd
}

// explainCmd implements 'tq explain'.
func explainCmd() *cobra.Command {
	var file, saved string
	cmd := &cobra.Command{
		Use:   "explain [instruction...]",
		Short: "Show what each instruction line compiles to",
		Run: func(_ *cobra.Command, args []string) {
			source, err := resolveSource(args, file, saved)
			if err != nil {
				printError(err)
			}
			q := query.New(source, filterOptions()...)
			printOutput(formatter.FormatExplain(q.Explain()))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "F", "", "Read the query from a file ('-' for stdin)")
	cmd.Flags().StringVarP(&saved, "saved", "s", "", "Explain a saved query by ID")
	return cmd
}
