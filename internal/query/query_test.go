package query_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abatilo/tq/internal/query"
	"github.com/abatilo/tq/internal/query/filter"
	"github.com/abatilo/tq/internal/task"
)

func fromLines(t *testing.T, lines ...string) []*task.Task {
	t.Helper()
	tasks := make([]*task.Task, 0, len(lines))
	for _, line := range lines {
		tk, ok := task.FromLine(line, task.Location{})
		require.True(t, ok, "not a task line: %q", line)
		tasks = append(tasks, tk)
	}
	return tasks
}

func render(tasks []*task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, tk := range tasks {
		out = append(out, "- [ ] "+tk.String())
	}
	return out
}

// shouldSupportFiltering runs the joined filters over the task lines and compares the
// rendered result with expected.
func shouldSupportFiltering(t *testing.T, filters []string, taskLines []string, expected []string) {
	t.Helper()
	q := query.New(strings.Join(filters, "\n"))
	require.Empty(t, q.Errors())

	got := q.Apply(fromLines(t, taskLines...))
	assert.Equal(t, expected, render(got))
}

func TestQueryEndToEnd(t *testing.T) {
	shouldSupportFiltering(t,
		[]string{"tags include #work", "priority is high"},
		[]string{
			"- [ ] do thing #work ⏫",
			"- [ ] other task ⏫",
			"- [ ] low thing #work 🔽",
			"- [ ] second #Work/Meeting ⏫",
		},
		[]string{
			"- [ ] do thing #work ⏫",
			"- [ ] second #Work/Meeting ⏫",
		},
	)
}

func TestQueryEndToEndWithoutPriority(t *testing.T) {
	shouldSupportFiltering(t,
		[]string{"tags include #work", "priority is high"},
		[]string{"- [ ] do thing #work", "- [ ] other task"},
		[]string{},
	)
	shouldSupportFiltering(t,
		[]string{"tags include #work"},
		[]string{"- [ ] do thing #work", "- [ ] other task"},
		[]string{"- [ ] do thing #work"},
	)
}

func TestQueryEmptySourceKeepsEverything(t *testing.T) {
	tasks := fromLines(t, "- [ ] a", "- [x] b")
	q := query.New("\n  \n\t\n")

	assert.Empty(t, q.Filters())
	assert.Empty(t, q.Errors())
	assert.Equal(t, tasks, q.Apply(tasks))
}

func TestQueryMixedValidAndInvalidLines(t *testing.T) {
	source := strings.Join([]string{
		"tags include #work",
		"bogus nonsense line",
		"",
		"not done",
		"tags maybe include x",
		"  priority is above none  ",
		"due someday",
	}, "\n")

	q := query.New(source)

	assert.Len(t, q.Filters(), 3)
	assert.True(t, q.HasErrors())
	assert.Equal(t, []query.ParseError{
		{Line: 2, Instruction: "bogus nonsense line", Message: "do not understand query"},
		{Line: 5, Instruction: "tags maybe include x", Message: "do not understand query"},
		{Line: 7, Instruction: "due someday", Message: "do not understand query filter (due date)"},
	}, q.Errors())
	assert.Equal(t, []string{
		"do not understand query",
		"do not understand query",
		"do not understand query filter (due date)",
	}, q.ErrorMessages())

	// Bad lines contribute no filter: only the three good ones narrow the list.
	tasks := fromLines(t,
		"- [ ] a #work ⏫",
		"- [x] b #work ⏫",
		"- [ ] c #work",
		"- [ ] d ⏫",
	)
	assert.Equal(t, []string{"- [ ] a #work ⏫"}, render(q.Apply(tasks)))
}

func TestQueryExplain(t *testing.T) {
	q := query.New("done\n\nfoo\nlimit 5")

	assert.Equal(t, []query.Step{
		{Line: 1, Instruction: "done", Kind: query.StepFilter},
		{Line: 3, Instruction: "foo", Kind: query.StepError, Message: "do not understand query"},
		{Line: 4, Instruction: "limit 5", Kind: query.StepLimit},
	}, q.Explain())
}

func TestQueryLimit(t *testing.T) {
	tasks := fromLines(t, "- [ ] a", "- [ ] b", "- [ ] c", "- [x] d")

	tests := []struct {
		source string
		want   []string
		limit  int
		has    bool
	}{
		{"limit 2", []string{"- [ ] a", "- [ ] b"}, 2, true},
		{"limit to 1 tasks", []string{"- [ ] a"}, 1, true},
		{"limit to 1 task", []string{"- [ ] a"}, 1, true},
		{"done\nlimit 10", []string{"- [ ] d"}, 10, true},
		{"limit 0", []string{}, 0, true},
		{"limit 3\nlimit 1", []string{"- [ ] a"}, 1, true},
		{"not done", []string{"- [ ] a", "- [ ] b", "- [ ] c"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			q := query.New(tt.source)
			require.Empty(t, q.Errors())
			n, has := q.Limit()
			assert.Equal(t, tt.has, has)
			if has {
				assert.Equal(t, tt.limit, n)
			}
			assert.Equal(t, tt.want, render(q.Apply(tasks)))
		})
	}
}

func TestQueryInvalidLimit(t *testing.T) {
	for _, source := range []string{"limit", "limit many", "limit -1", "limit 5 things"} {
		t.Run(source, func(t *testing.T) {
			q := query.New(source)
			assert.Equal(t, []string{"do not understand query limit"}, q.ErrorMessages())
			_, has := q.Limit()
			assert.False(t, has)
		})
	}
}

func TestQueryApplyIsIdempotentAndPure(t *testing.T) {
	tasks := fromLines(t,
		"- [ ] one #home",
		"- [ ] two #work",
		"- [x] three #work",
		"- [ ] four #work 🔼",
	)
	before := render(tasks)
	q := query.New("tags include work\nnot done")

	first := q.Apply(tasks)
	second := q.Apply(tasks)

	assert.Equal(t, render(first), render(second))
	assert.Equal(t, []string{"- [ ] two #work", "- [ ] four #work 🔼"}, render(first))
	assert.Equal(t, before, render(tasks), "input list must not be modified")
}

func TestQueryFilterOrderDoesNotChangeResult(t *testing.T) {
	tasks := fromLines(t,
		"- [ ] a #work ⏫ 📅 2024-01-01",
		"- [ ] b #work 📅 2024-01-01",
		"- [x] c #work ⏫",
		"- [ ] d ⏫ 📅 2023-12-01",
		"- [ ] e #work ⏫ 📅 2023-12-01",
	)
	lines := []string{"tags include work", "priority is high", "due before 2024-01-02", "not done"}
	now := filter.WithClock(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) })

	forward := query.New(strings.Join(lines, "\n"), now)
	reversed := make([]string, len(lines))
	for i, l := range lines {
		reversed[len(lines)-1-i] = l
	}
	backward := query.New(strings.Join(reversed, "\n"), now)

	assert.Equal(t, render(forward.Apply(tasks)), render(backward.Apply(tasks)))
	assert.Equal(t, []string{
		"- [ ] a #work ⏫ 📅 2024-01-01",
		"- [ ] e #work ⏫ 📅 2023-12-01",
	}, render(forward.Apply(tasks)))
}

func TestQueryFiltersMatchApply(t *testing.T) {
	tasks := fromLines(t, "- [ ] a #x", "- [ ] b #y", "- [ ] c #x ⏫")
	q := query.New("tags include x\npriority is high")

	// Chaining Filters() by hand is the same as Apply.
	manual := tasks
	for _, f := range q.Filters() {
		var next []*task.Task
		for _, tk := range manual {
			if f(tk) {
				next = append(next, tk)
			}
		}
		manual = next
	}
	assert.Equal(t, manual, q.Apply(tasks))
}

func TestQueryConcurrentApply(t *testing.T) {
	q := query.New("tags include work")
	lists := [][]*task.Task{
		fromLines(t, "- [ ] a #work", "- [ ] b"),
		fromLines(t, "- [ ] c", "- [ ] d #work", "- [ ] e #work"),
	}

	var wg sync.WaitGroup
	results := make([]int, len(lists))
	for i, list := range lists {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = len(q.Apply(list))
		}()
	}
	wg.Wait()

	assert.Equal(t, []int{1, 2}, results)
}

func TestQueryRun(t *testing.T) {
	tasks := fromLines(t, "- [ ] a #work", "- [ ] b")
	q := query.New("tags include work\nwhat")

	res := q.Run(tasks)
	assert.Equal(t, 2, res.Total)
	assert.Len(t, res.Tasks, 1)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "line 2: do not understand query: what", res.Errors[0].String())
}
