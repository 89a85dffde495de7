package filter

import (
	"regexp"

	"github.com/abatilo/tq/internal/task"
)

//nolint:gochecknoglobals // compiled pattern is read-only
var statusGrammar = regexp.MustCompile(`^(done|not done)$`)

// StatusField supports the bare 'done' and 'not done' instructions.
type StatusField struct{}

// NewStatusField creates a StatusField.
func NewStatusField() *StatusField {
	return &StatusField{}
}

func (f *StatusField) Name() string {
	return "done/not done"
}

func (f *StatusField) Grammar() *regexp.Regexp {
	return statusGrammar
}

func (f *StatusField) CreateFilterOrErrorMessage(line string) FilterOrErrorMessage {
	m := statusGrammar.FindStringSubmatch(line)
	if m == nil {
		return notUnderstood(f)
	}

	done := func(t *task.Task) bool {
		return t.Status == task.StatusDone
	}
	switch m[1] {
	case "done":
		return Success(done)
	case "not done":
		return Success(negate(done))
	default:
		return notUnderstood(f)
	}
}
