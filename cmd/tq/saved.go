package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	tqerrors "github.com/abatilo/tq/internal/errors"
	"github.com/abatilo/tq/internal/query"
	"github.com/abatilo/tq/internal/storage"
)

// findByName returns the saved query with the given name, if any.
func findByName(store *storage.Store, name string) (*storage.SavedQuery, error) {
	queries, err := store.List()
	if err != nil {
		return nil, err
	}
	for _, q := range queries {
		if q.Name == name {
			return q, nil
		}
	}
	return nil, nil //nolint:nilnil // absence is not an error here
}

// saveCmd implements 'tq save'.
func saveCmd() *cobra.Command {
	var file string
	var force bool
	cmd := &cobra.Command{
		Use:   "save <name> [instruction...]",
		Short: "Save a query under a name",
		Args:  cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			name := args[0]
			source, err := readSource(args[1:], file, os.Stdin)
			if err != nil {
				printError(err)
			}

			q := query.New(source, filterOptions()...)
			if q.HasErrors() && !force {
				printError(tqerrors.InvalidQueryError{Messages: q.ErrorMessages()})
			}

			store, err := getStore()
			if err != nil {
				printError(err)
			}

			existing, err := findByName(store, name)
			if err != nil {
				printError(err)
			}
			if existing != nil {
				if !force {
					printError(tqerrors.AlreadyExistsError{ID: existing.ID})
				}
				existing.Source = storage.TrimSource(source)
				if err = store.Save(existing); err != nil {
					printError(err)
				}
				printOutput(formatter.FormatSavedQuery(existing))
				return
			}

			saved, err := store.CreateQuery(name, source)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatSavedQuery(saved))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "F", "", "Read the query from a file ('-' for stdin)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Save despite invalid lines, replacing a query with the same name")
	return cmd
}

// listCmd implements 'tq list'.
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved queries",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			store, err := getStore()
			if err != nil {
				printError(err)
			}
			queries, err := store.List()
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatSavedQueryList(queries))
		},
	}
}

// showCmd implements 'tq show'.
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved query",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			store, err := getStore()
			if err != nil {
				printError(err)
			}
			q, err := store.Load(args[0])
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatSavedQuery(q))
		},
	}
}

// rmCmd implements 'tq rm'.
func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a saved query",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			store, err := getStore()
			if err != nil {
				printError(err)
			}
			if err = store.Delete(args[0]); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Removed %s", args[0])))
		},
	}
}
