package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abatilo/tq/internal/query/filter"
	"github.com/abatilo/tq/internal/task"
)

// requireFilter asserts that r holds a filter and no error, and returns the filter.
func requireFilter(t *testing.T, r filter.FilterOrErrorMessage) filter.Filter {
	t.Helper()
	require.Empty(t, r.Error)
	require.NotNil(t, r.Filter)
	require.True(t, r.OK())
	return r.Filter
}

// requireError asserts that r holds the given error and no filter.
func requireError(t *testing.T, r filter.FilterOrErrorMessage, want string) {
	t.Helper()
	assert.Nil(t, r.Filter)
	assert.False(t, r.OK())
	assert.Equal(t, want, r.Error)
}

// assertTaskFilter compiles line with field and checks the verdict on tk.
func assertTaskFilter(t *testing.T, field filter.Field, line string, tk *task.Task, expected bool) {
	t.Helper()
	f := requireFilter(t, field.CreateFilterOrErrorMessage(line))
	assert.Equal(t, expected, f(tk), "%q on %q", line, tk.String())
}

// fromLine builds a task from a checklist line, failing the test if it is not one.
func fromLine(t *testing.T, line string) *task.Task {
	t.Helper()
	tk, ok := task.FromLine(line, task.Location{})
	require.True(t, ok, "not a task line: %q", line)
	return tk
}

func withTags(tags ...string) *task.Task {
	return &task.Task{Status: task.StatusTodo, Priority: task.PriorityNone, Tags: tags}
}
