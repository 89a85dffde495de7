// Package query turns multi-line query source into an ordered set of task filters.
package query

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/abatilo/tq/internal/query/filter"
	"github.com/abatilo/tq/internal/task"
)

const (
	invalidLimit = "do not understand query limit"
	noLimit      = -1
)

//nolint:gochecknoglobals // compiled patterns are read-only
var (
	limitKeyword = regexp.MustCompile(`^limit(?: |$)`)
	limitGrammar = regexp.MustCompile(`^limit (?:to )?(\d+)(?: tasks?)?$`)
)

// StepKind says what a single instruction line became.
type StepKind string

const (
	StepFilter StepKind = "filter"
	StepLimit  StepKind = "limit"
	StepError  StepKind = "error"
)

// Step records the outcome of one non-blank instruction line.
type Step struct {
	Line        int      `json:"line"`
	Instruction string   `json:"instruction"`
	Kind        StepKind `json:"kind"`
	Message     string   `json:"message,omitempty"`
}

// ParseError pairs a failed instruction with its line number (1-based) and reason.
type ParseError struct {
	Line        int    `json:"line"`
	Instruction string `json:"instruction"`
	Message     string `json:"message"`
}

func (e ParseError) String() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Message, e.Instruction)
}

// Query is the parsed form of a query source. It is read-only once built, so one Query
// can filter any number of task lists, concurrently or not.
type Query struct {
	source  string
	filters []filter.Filter
	errors  []ParseError
	steps   []Step
	limit   int
}

// New parses source line by line. Blank lines are skipped; every other line becomes
// either a filter or a ParseError, in source order.
func New(source string, opts ...filter.Option) *Query {
	registry := filter.NewRegistry(opts...)
	q := &Query{source: source, limit: noLimit}

	for i, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		q.parseLine(registry, i+1, line)
	}

	return q
}

func (q *Query) parseLine(registry *filter.Registry, lineNo int, line string) {
	if limitKeyword.MatchString(line) {
		n, ok := parseLimit(line)
		if !ok {
			q.fail(lineNo, line, invalidLimit)
			return
		}
		q.limit = n
		q.steps = append(q.steps, Step{Line: lineNo, Instruction: line, Kind: StepLimit})
		return
	}

	r := registry.Parse(line)
	if r.Error != "" {
		q.fail(lineNo, line, r.Error)
		return
	}
	q.filters = append(q.filters, r.Filter)
	q.steps = append(q.steps, Step{Line: lineNo, Instruction: line, Kind: StepFilter})
}

func parseLimit(line string) (int, bool) {
	m := limitGrammar.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (q *Query) fail(lineNo int, line, msg string) {
	q.errors = append(q.errors, ParseError{Line: lineNo, Instruction: line, Message: msg})
	q.steps = append(q.steps, Step{Line: lineNo, Instruction: line, Kind: StepError, Message: msg})
}

// Source returns the text the query was built from.
func (q *Query) Source() string {
	return q.source
}

// Filters returns the compiled filters in source order.
func (q *Query) Filters() []filter.Filter {
	return slices.Clone(q.filters)
}

// Errors returns one ParseError per line that failed to compile, in source order.
func (q *Query) Errors() []ParseError {
	return slices.Clone(q.errors)
}

// ErrorMessages returns the bare error messages, in source order.
func (q *Query) ErrorMessages() []string {
	msgs := make([]string, len(q.errors))
	for i, e := range q.errors {
		msgs[i] = e.Message
	}
	return msgs
}

// HasErrors reports whether any line failed to compile.
func (q *Query) HasErrors() bool {
	return len(q.errors) > 0
}

// Limit returns the maximum number of tasks Apply returns. The last limit line wins.
func (q *Query) Limit() (int, bool) {
	return q.limit, q.limit != noLimit
}

// Explain returns the outcome of every non-blank line.
func (q *Query) Explain() []Step {
	return slices.Clone(q.steps)
}

// Apply returns the tasks every filter accepts, in their original order, capped by the
// limit. The input slice and its tasks are left untouched.
func (q *Query) Apply(tasks []*task.Task) []*task.Task {
	result := slices.Clone(tasks)
	for _, f := range q.filters {
		result = slices.DeleteFunc(result, func(t *task.Task) bool {
			return !f(t)
		})
	}
	if q.limit != noLimit && len(result) > q.limit {
		result = result[:q.limit]
	}
	return result
}

// Result is a filtered task list together with the query's parse errors.
type Result struct {
	Tasks  []*task.Task
	Errors []ParseError
	Total  int
}

// Run applies the query to tasks and bundles the outcome with every parse error.
func (q *Query) Run(tasks []*task.Task) *Result {
	return &Result{
		Tasks:  q.Apply(tasks),
		Errors: q.Errors(),
		Total:  len(tasks),
	}
}
