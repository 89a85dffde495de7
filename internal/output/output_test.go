package output_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abatilo/tq/internal/output"
	"github.com/abatilo/tq/internal/query"
	"github.com/abatilo/tq/internal/storage"
	"github.com/abatilo/tq/internal/task"
)

func sampleTasks(t *testing.T) []*task.Task {
	t.Helper()
	lines := []string{
		"- [ ] Pay rent #home 📅 2024-02-01",
		"- [x] Ship release #work ⏫",
	}
	tasks := make([]*task.Task, 0, len(lines))
	for i, line := range lines {
		tk, ok := task.FromLine(line, task.Location{Path: "notes/todo.md", SectionIndex: i, PrecedingHeader: "Inbox"})
		require.True(t, ok, line)
		tasks = append(tasks, tk)
	}
	return tasks
}

func TestHumanFormatter_TaskList(t *testing.T) {
	f := output.NewHumanFormatter()

	assert.Equal(t, "No tasks found.\n", f.FormatTaskList(nil))

	out := f.FormatTaskList(sampleTasks(t))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[ ] Pay rent #home 📅 2024-02-01  (notes/todo.md > Inbox)", lines[0])
	assert.Equal(t, "[x] Ship release #work ⏫  (notes/todo.md > Inbox)", lines[1])
}

func TestHumanFormatter_Result(t *testing.T) {
	f := output.NewHumanFormatter()
	q := query.New("not done\nbanana")
	tasks := sampleTasks(t)

	out := f.FormatResult(q.Run(tasks))

	assert.True(t, strings.HasPrefix(out, "Error: line 2: do not understand query: banana\n"))
	assert.Contains(t, out, "Pay rent")
	assert.NotContains(t, out, "Ship release")
	assert.True(t, strings.HasSuffix(out, "1 of 2 tasks\n"))
}

func TestHumanFormatter_Explain(t *testing.T) {
	f := output.NewHumanFormatter()

	assert.Equal(t, "Empty query: every task matches.\n", f.FormatExplain(nil))

	out := f.FormatExplain(query.New("done\n\nlimit 5\ndue someday").Explain())
	assert.Contains(t, out, "  1  filter  done\n")
	assert.Contains(t, out, "  3  limit   limit 5\n")
	assert.Contains(t, out, "  4  ERROR   due someday\n")
	assert.Contains(t, out, "do not understand query filter (due date)")
}

func TestHumanFormatter_SavedQueries(t *testing.T) {
	f := output.NewHumanFormatter()
	q := &storage.SavedQuery{
		ID:        "work-abc",
		Name:      "Work",
		CreatedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Source:    "tags include work\nnot done",
	}

	assert.Equal(t, "No saved queries.\n", f.FormatSavedQueryList(nil))
	assert.Equal(t, "[work-abc] Work (2 lines)\n", f.FormatSavedQueryList([]*storage.SavedQuery{q}))

	out := f.FormatSavedQuery(q)
	assert.True(t, strings.HasPrefix(out, "[work-abc] Work\n"))
	assert.True(t, strings.HasSuffix(out, "\ntags include work\nnot done\n"))
}

func TestHumanFormatter_Misc(t *testing.T) {
	f := output.NewHumanFormatter()

	assert.Equal(t, "Error: boom\n", f.FormatError(errors.New("boom")))
	assert.Equal(t, "hello\n", f.FormatMessage("hello"))
	assert.Contains(t, f.FormatFields([]output.FieldInfo{{Name: "tag/tags", Grammar: "^tags?"}}), "tag/tags")
}

func TestJSONFormatter_Result(t *testing.T) {
	f := output.NewJSONFormatter()
	q := query.New("tags include home\nbanana")

	var got struct {
		Tasks []struct {
			Status      string   `json:"status"`
			Description string   `json:"description"`
			Tags        []string `json:"tags"`
			Priority    string   `json:"priority"`
			DueDate     *string  `json:"due_date"`
			Path        string   `json:"path"`
		} `json:"tasks"`
		Errors []query.ParseError `json:"errors"`
		Total  int                `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(f.FormatResult(q.Run(sampleTasks(t)))), &got))

	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "todo", got.Tasks[0].Status)
	assert.Equal(t, []string{"#home"}, got.Tasks[0].Tags)
	assert.Equal(t, "none", got.Tasks[0].Priority)
	require.NotNil(t, got.Tasks[0].DueDate)
	assert.Equal(t, "2024-02-01", *got.Tasks[0].DueDate)
	assert.Equal(t, "notes/todo.md", got.Tasks[0].Path)

	require.Len(t, got.Errors, 1)
	assert.Equal(t, query.ParseError{Line: 2, Instruction: "banana", Message: "do not understand query"}, got.Errors[0])
	assert.Equal(t, 2, got.Total)
}

func TestJSONFormatter_EmptyCollections(t *testing.T) {
	f := output.NewJSONFormatter()

	assert.Equal(t, "[]\n", f.FormatTaskList(nil))
	assert.Equal(t, "[]\n", f.FormatExplain(nil))
	assert.Equal(t, "[]\n", f.FormatSavedQueryList(nil))
	assert.JSONEq(t, `{"tasks":[],"errors":[],"total":0}`, f.FormatResult(query.New("").Run(nil)))
}

func TestJSONFormatter_Misc(t *testing.T) {
	f := output.NewJSONFormatter()

	assert.JSONEq(t, `{"error":"boom"}`, f.FormatError(errors.New("boom")))
	assert.JSONEq(t, `{"message":"hi"}`, f.FormatMessage("hi"))
	assert.JSONEq(t, `[{"name":"done/not done","grammar":"^(done|not done)$"}]`,
		f.FormatFields([]output.FieldInfo{{Name: "done/not done", Grammar: "^(done|not done)$"}}))

	q := &storage.SavedQuery{ID: "a-1", Name: "A", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Source: "done"}
	assert.JSONEq(t, `{"id":"a-1","name":"A","created_at":"2024-01-01T00:00:00Z","source":"done"}`, f.FormatSavedQuery(q))
}
