package task

import (
	"strings"
	"time"
)

// DateLayout is the day-precision format used for every task date.
const DateLayout = "2006-01-02"

// Status represents the checkbox state of a task.
type Status string

const (
	StatusTodo Status = "todo"
	StatusDone Status = "done"
)

// Priority represents the importance level of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
)

// PriorityOrder returns the sort order for a priority (lower = higher priority).
// A task without an explicit priority sits between medium and low.
func PriorityOrder(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityNone:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Location describes where a task line sits inside a markdown file.
type Location struct {
	Path            string
	SectionStart    int
	SectionIndex    int
	PrecedingHeader string
}

// Task is a single checklist item read from a markdown note.
type Task struct {
	Status        Status
	Description   string
	Tags          []string
	Priority      Priority
	StartDate     *time.Time
	ScheduledDate *time.Time
	DueDate       *time.Time
	DoneDate      *time.Time

	Path            string
	SectionStart    int
	SectionIndex    int
	PrecedingHeader string
	Indentation     string
	OriginalLine    string
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusTodo, StatusDone:
		return true
	default:
		return false
	}
}

// IsValidPriority checks if a priority string is valid.
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityNone, PriorityLow:
		return true
	default:
		return false
	}
}

// String renders the task the way it is written after the checkbox.
func (t *Task) String() string {
	var sb strings.Builder
	sb.WriteString(t.Description)

	if sig, ok := prioritySignifiers[t.Priority]; ok {
		sb.WriteString(" ")
		sb.WriteString(sig)
	}
	writeDate(&sb, startSignifier, t.StartDate)
	writeDate(&sb, scheduledSignifier, t.ScheduledDate)
	writeDate(&sb, dueSignifier, t.DueDate)
	writeDate(&sb, doneSignifier, t.DoneDate)

	return sb.String()
}

// ToFileLine renders the full markdown line, including indentation and checkbox.
func (t *Task) ToFileLine() string {
	box := "[ ]"
	if t.Status == StatusDone {
		box = "[x]"
	}
	return t.Indentation + "- " + box + " " + t.String()
}

func writeDate(sb *strings.Builder, signifier string, d *time.Time) {
	if d == nil {
		return
	}
	sb.WriteString(" ")
	sb.WriteString(signifier)
	sb.WriteString(" ")
	sb.WriteString(d.Format(DateLayout))
}
