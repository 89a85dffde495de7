//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import (
	"fmt"
	"strings"
)

// NotInitializedError indicates the saved query directory doesn't exist.
type NotInitializedError struct{}

func (e NotInitializedError) Error() string {
	return "tq not initialized: run 'tq init' first"
}

// AlreadyInitializedError indicates the saved query directory already exists.
type AlreadyInitializedError struct{}

func (e AlreadyInitializedError) Error() string {
	return "tq already initialized"
}

// QueryNotFoundError indicates the saved query ID doesn't match any file.
type QueryNotFoundError struct {
	ID string
}

func (e QueryNotFoundError) Error() string {
	return fmt.Sprintf("saved query not found: %s", e.ID)
}

// AlreadyExistsError indicates an ID collision.
type AlreadyExistsError struct {
	ID string
}

func (e AlreadyExistsError) Error() string {
	return fmt.Sprintf("saved query already exists: %s", e.ID)
}

// NotInRepoError indicates the command was run outside a git repository.
type NotInRepoError struct{}

func (e NotInRepoError) Error() string {
	return "not in a git repository (tq requires a project root or --vault)"
}

// VaultNotFoundError indicates the configured vault path is missing or not a directory.
type VaultNotFoundError struct {
	Path string
}

func (e VaultNotFoundError) Error() string {
	return fmt.Sprintf("vault not found: %s", e.Path)
}

// MissingQueryError indicates a command needed query source but got none.
type MissingQueryError struct{}

func (e MissingQueryError) Error() string {
	return "no query given: pass it as an argument, with --file, or with --saved"
}

// InvalidQueryError reports the lines of a query that could not be parsed.
type InvalidQueryError struct {
	Messages []string
}

func (e InvalidQueryError) Error() string {
	return fmt.Sprintf("query has %d invalid line(s): %s", len(e.Messages), strings.Join(e.Messages, "; "))
}
