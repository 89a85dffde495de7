package filter

import (
	"regexp"
	"strings"

	"github.com/abatilo/tq/internal/task"
)

// TextField matches a case-insensitive substring against one string attribute of a task.
// Description, path and heading instructions are all TextFields.
type TextField struct {
	name    string
	grammar *regexp.Regexp
	value   func(t *task.Task) string
}

func newTextField(name string, value func(t *task.Task) string) *TextField {
	return &TextField{
		name:    name,
		grammar: regexp.MustCompile(`^` + regexp.QuoteMeta(name) + ` (includes|does not include|include|do not include) (.*)`),
		value:   value,
	}
}

// NewDescriptionField matches against the task description. When globalFilter is set its
// first occurrence is removed from the description, since every task carries it.
func NewDescriptionField(globalFilter string) *TextField {
	return newTextField("description", func(t *task.Task) string {
		if globalFilter == "" {
			return t.Description
		}
		return strings.TrimSpace(strings.Replace(t.Description, globalFilter, "", 1))
	})
}

// NewPathField matches against the path of the file holding the task.
func NewPathField() *TextField {
	return newTextField("path", func(t *task.Task) string {
		return t.Path
	})
}

// NewHeadingField matches against the heading preceding the task.
// A task with no heading never includes anything.
func NewHeadingField() *TextField {
	return newTextField("heading", func(t *task.Task) string {
		return t.PrecedingHeader
	})
}

func (f *TextField) Name() string {
	return f.name
}

func (f *TextField) Grammar() *regexp.Regexp {
	return f.grammar
}

func (f *TextField) CreateFilterOrErrorMessage(line string) FilterOrErrorMessage {
	m := f.grammar.FindStringSubmatch(line)
	if m == nil {
		return notUnderstood(f)
	}

	search := strings.ToLower(m[2])
	include := func(t *task.Task) bool {
		v := f.value(t)
		if v == "" {
			return false
		}
		return strings.Contains(strings.ToLower(v), search)
	}

	switch m[1] {
	case "include", "includes":
		return Success(include)
	case "do not include", "does not include":
		return Success(negate(include))
	default:
		return notUnderstood(f)
	}
}
