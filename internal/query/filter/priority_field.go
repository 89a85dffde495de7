package filter

import (
	"regexp"

	"github.com/abatilo/tq/internal/task"
)

//nolint:gochecknoglobals // compiled pattern is read-only
var priorityGrammar = regexp.MustCompile(`^priority (?:is )?(?:(above|below) )?(low|none|medium|high)$`)

// PriorityField supports 'priority is [above|below] <level>'.
// Levels order high > medium > none > low.
type PriorityField struct{}

// NewPriorityField creates a PriorityField.
func NewPriorityField() *PriorityField {
	return &PriorityField{}
}

func (f *PriorityField) Name() string {
	return "priority"
}

func (f *PriorityField) Grammar() *regexp.Regexp {
	return priorityGrammar
}

func (f *PriorityField) CreateFilterOrErrorMessage(line string) FilterOrErrorMessage {
	m := priorityGrammar.FindStringSubmatch(line)
	if m == nil {
		return notUnderstood(f)
	}

	want := task.PriorityOrder(task.Priority(m[2]))
	switch m[1] {
	case "":
		return Success(func(t *task.Task) bool {
			return task.PriorityOrder(t.Priority) == want
		})
	case "above":
		return Success(func(t *task.Task) bool {
			return task.PriorityOrder(t.Priority) < want
		})
	case "below":
		return Success(func(t *task.Task) bool {
			return task.PriorityOrder(t.Priority) > want
		})
	default:
		return notUnderstood(f)
	}
}
