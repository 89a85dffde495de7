package output

import (
	"github.com/abatilo/tq/internal/query"
	"github.com/abatilo/tq/internal/storage"
	"github.com/abatilo/tq/internal/task"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTaskList(tasks []*task.Task) string
	FormatResult(r *query.Result) string
	FormatExplain(steps []query.Step) string
	FormatSavedQuery(q *storage.SavedQuery) string
	FormatSavedQueryList(queries []*storage.SavedQuery) string
	FormatFields(fields []FieldInfo) string
	FormatError(err error) string
	FormatMessage(msg string) string
}

// FieldInfo describes one query field for the fields listing.
type FieldInfo struct {
	Name    string
	Grammar string
}
