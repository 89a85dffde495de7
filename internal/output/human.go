package output

import (
	"fmt"
	"strings"

	"github.com/abatilo/tq/internal/query"
	"github.com/abatilo/tq/internal/storage"
	"github.com/abatilo/tq/internal/task"
)

const timeLayout = "2006-01-02 15:04"

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct{}

// NewHumanFormatter creates a new HumanFormatter.
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// FormatTaskList formats a list of tasks for display.
func (f *HumanFormatter) FormatTaskList(tasks []*task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(f.formatTaskLine(t))
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner with its location.
func (f *HumanFormatter) formatTaskLine(t *task.Task) string {
	location := t.Path
	if t.PrecedingHeader != "" {
		location += " > " + t.PrecedingHeader
	}
	return fmt.Sprintf("%s %s  (%s)\n", f.statusIcon(t.Status), t.String(), location)
}

func (f *HumanFormatter) statusIcon(s task.Status) string {
	switch s {
	case task.StatusTodo:
		return "[ ]"
	case task.StatusDone:
		return "[x]"
	default:
		return "[?]"
	}
}

// FormatResult formats the query's parse errors followed by the matching tasks.
func (f *HumanFormatter) FormatResult(r *query.Result) string {
	var sb strings.Builder

	for _, e := range r.Errors {
		fmt.Fprintf(&sb, "Error: %s\n", e.String())
	}
	if len(r.Errors) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString(f.FormatTaskList(r.Tasks))
	fmt.Fprintf(&sb, "\n%d of %d tasks\n", len(r.Tasks), r.Total)
	return sb.String()
}

// FormatExplain formats what every instruction line compiled to.
func (f *HumanFormatter) FormatExplain(steps []query.Step) string {
	if len(steps) == 0 {
		return "Empty query: every task matches.\n"
	}

	var sb strings.Builder
	for _, s := range steps {
		switch s.Kind {
		case query.StepError:
			fmt.Fprintf(&sb, "%3d  ERROR   %s\n       %s\n", s.Line, s.Instruction, s.Message)
		case query.StepLimit:
			fmt.Fprintf(&sb, "%3d  limit   %s\n", s.Line, s.Instruction)
		default:
			fmt.Fprintf(&sb, "%3d  filter  %s\n", s.Line, s.Instruction)
		}
	}
	return sb.String()
}

// FormatSavedQuery formats a single saved query with its source.
func (f *HumanFormatter) FormatSavedQuery(q *storage.SavedQuery) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s\n", q.ID, q.Name)
	fmt.Fprintf(&sb, "  Created: %s\n", q.CreatedAt.Local().Format(timeLayout))
	if q.Source != "" {
		sb.WriteString("\n")
		sb.WriteString(q.Source)
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatSavedQueryList formats saved queries one per line.
func (f *HumanFormatter) FormatSavedQueryList(queries []*storage.SavedQuery) string {
	if len(queries) == 0 {
		return "No saved queries.\n"
	}

	var sb strings.Builder
	for _, q := range queries {
		lines := len(strings.Split(q.Source, "\n"))
		if q.Source == "" {
			lines = 0
		}
		fmt.Fprintf(&sb, "[%s] %s (%d lines)\n", q.ID, q.Name, lines)
	}
	return sb.String()
}

// FormatFields formats the field listing in dispatch order.
func (f *HumanFormatter) FormatFields(fields []FieldInfo) string {
	var sb strings.Builder
	for _, fi := range fields {
		fmt.Fprintf(&sb, "%-16s %s\n", fi.Name, fi.Grammar)
	}
	return sb.String()
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
