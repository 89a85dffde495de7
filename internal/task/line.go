package task

import (
	"regexp"
	"strings"
	"time"
)

const (
	startSignifier     = "🛫"
	scheduledSignifier = "⏳"
	dueSignifier       = "📅"
	doneSignifier      = "✅"

	// maxSignifierRuns bounds the trailing-signifier scan; each run strips one signifier.
	maxSignifierRuns = 10
)

//nolint:gochecknoglobals // compiled patterns and lookup tables are read-only
var (
	taskRegexp          = regexp.MustCompile(`^([\s\t]*)[-*] +\[(.)\] *(.*)`)
	priorityRegexp      = regexp.MustCompile(`(⏫|🔼|🔽)$`)
	startDateRegexp     = regexp.MustCompile(startSignifier + ` *(\d{4}-\d{2}-\d{2})$`)
	scheduledDateRegexp = regexp.MustCompile(scheduledSignifier + ` *(\d{4}-\d{2}-\d{2})$`)
	dueDateRegexp       = regexp.MustCompile(dueSignifier + ` *(\d{4}-\d{2}-\d{2})$`)
	doneDateRegexp      = regexp.MustCompile(doneSignifier + ` *(\d{4}-\d{2}-\d{2})$`)
	hashTagRegexp       = regexp.MustCompile(`(^|\s)#[^ !@#$%^&*(),.?":{}|<>]+`)

	prioritySignifiers = map[Priority]string{
		PriorityHigh:   "⏫",
		PriorityMedium: "🔼",
		PriorityLow:    "🔽",
	}
)

// FromLine builds a Task from a markdown checklist line.
// It returns false when the line is not a checklist item.
func FromLine(line string, loc Location) (*Task, bool) {
	m := taskRegexp.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}

	t := &Task{
		Status:          StatusTodo,
		Priority:        PriorityNone,
		Path:            loc.Path,
		SectionStart:    loc.SectionStart,
		SectionIndex:    loc.SectionIndex,
		PrecedingHeader: loc.PrecedingHeader,
		Indentation:     m[1],
		OriginalLine:    line,
	}
	if m[2] != " " {
		t.Status = StatusDone
	}

	body := strings.TrimSpace(m[3])
	for range maxSignifierRuns {
		var matched bool
		body, matched = stripSignifier(t, body)
		if !matched {
			break
		}
	}
	t.Description = body
	t.Tags = ExtractTags(body)

	return t, true
}

// stripSignifier removes one trailing signifier from body and records it on t.
func stripSignifier(t *Task, body string) (string, bool) {
	if m := priorityRegexp.FindStringSubmatchIndex(body); m != nil {
		t.Priority = priorityFromSignifier(body[m[2]:m[3]])
		return strings.TrimSpace(body[:m[0]]), true
	}

	dates := []struct {
		re     *regexp.Regexp
		target **time.Time
	}{
		{doneDateRegexp, &t.DoneDate},
		{dueDateRegexp, &t.DueDate},
		{scheduledDateRegexp, &t.ScheduledDate},
		{startDateRegexp, &t.StartDate},
	}
	for _, d := range dates {
		m := d.re.FindStringSubmatchIndex(body)
		if m == nil {
			continue
		}
		parsed, err := time.Parse(DateLayout, body[m[2]:m[3]])
		if err != nil {
			// Looks like a date but is not one (2024-13-45): leave it in the description.
			return body, false
		}
		*d.target = &parsed
		return strings.TrimSpace(body[:m[0]]), true
	}

	return body, false
}

func priorityFromSignifier(sig string) Priority {
	for p, s := range prioritySignifiers {
		if s == sig {
			return p
		}
	}
	return PriorityNone
}

// ExtractTags returns every hashtag in text, in order of appearance, with the leading '#'.
func ExtractTags(text string) []string {
	matches := hashTagRegexp.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, strings.TrimSpace(m))
	}
	return tags
}
