package filter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/abatilo/tq/internal/task"
)

// DateField supports '<property> [before|after|on] <date>' plus the
// 'has <property> date' and 'no <property> date' instructions.
type DateField struct {
	property     string
	grammar      *regexp.Regexp
	value        func(t *task.Task) *time.Time
	matchMissing bool
	now          func() time.Time
}

func newDateField(property string, value func(t *task.Task) *time.Time, matchMissing bool, now func() time.Time) *DateField {
	return &DateField{
		property:     property,
		grammar:      regexp.MustCompile(fmt.Sprintf(`^(?:(has|no) %[1]s date|%[1]s(?: (before|after|on))? (.*))$`, property)),
		value:        value,
		matchMissing: matchMissing,
		now:          now,
	}
}

// NewDueDateField filters on the 📅 due date.
func NewDueDateField(now func() time.Time) *DateField {
	return newDateField("due", func(t *task.Task) *time.Time { return t.DueDate }, false, now)
}

// NewStartDateField filters on the 🛫 start date. A task without a start date can be
// started at any time, so it matches every comparison.
func NewStartDateField(now func() time.Time) *DateField {
	return newDateField("start", func(t *task.Task) *time.Time { return t.StartDate }, true, now)
}

// NewScheduledDateField filters on the ⏳ scheduled date.
func NewScheduledDateField(now func() time.Time) *DateField {
	return newDateField("scheduled", func(t *task.Task) *time.Time { return t.ScheduledDate }, false, now)
}

// NewDoneDateField filters on the ✅ done date.
func NewDoneDateField(now func() time.Time) *DateField {
	return newDateField("done", func(t *task.Task) *time.Time { return t.DoneDate }, false, now)
}

func (f *DateField) Name() string {
	return f.property + " date"
}

func (f *DateField) Grammar() *regexp.Regexp {
	return f.grammar
}

func (f *DateField) CreateFilterOrErrorMessage(line string) FilterOrErrorMessage {
	m := f.grammar.FindStringSubmatch(line)
	if m == nil {
		return notUnderstood(f)
	}

	has := func(t *task.Task) bool {
		return f.value(t) != nil
	}
	switch m[1] {
	case "has":
		return Success(has)
	case "no":
		return Success(negate(has))
	}

	target, ok := ParseDate(strings.TrimSpace(m[3]), f.now())
	if !ok {
		return notUnderstood(f)
	}

	var cmp func(d time.Time) bool
	switch m[2] {
	case "before":
		cmp = func(d time.Time) bool { return d.Before(target) }
	case "after":
		cmp = func(d time.Time) bool { return d.After(target) }
	case "on", "":
		cmp = func(d time.Time) bool { return d.Equal(target) }
	default:
		return notUnderstood(f)
	}

	return Success(func(t *task.Task) bool {
		d := f.value(t)
		if d == nil {
			return f.matchMissing
		}
		return cmp(truncateDay(*d))
	})
}

// ParseDate understands YYYY-MM-DD and the relative words today, tomorrow and yesterday.
// The result is midnight UTC of that day.
func ParseDate(value string, now time.Time) (time.Time, bool) {
	today := truncateDay(now)
	switch strings.ToLower(value) {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	case "yesterday":
		return today.AddDate(0, 0, -1), true
	}

	d, err := time.Parse(task.DateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// truncateDay keeps the calendar day of t and drops the clock and zone.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
