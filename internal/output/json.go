package output

import (
	"encoding/json"
	"time"

	"github.com/abatilo/tq/internal/query"
	"github.com/abatilo/tq/internal/storage"
	"github.com/abatilo/tq/internal/task"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// taskJSON is the JSON representation of a task.
type taskJSON struct {
	Status          string   `json:"status"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags"`
	Priority        string   `json:"priority"`
	StartDate       *string  `json:"start_date,omitempty"`
	ScheduledDate   *string  `json:"scheduled_date,omitempty"`
	DueDate         *string  `json:"due_date,omitempty"`
	DoneDate        *string  `json:"done_date,omitempty"`
	Path            string   `json:"path"`
	SectionStart    int      `json:"section_start"`
	SectionIndex    int      `json:"section_index"`
	PrecedingHeader string   `json:"preceding_header,omitempty"`
	Line            string   `json:"line"`
}

func formatDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(task.DateLayout)
	return &s
}

func toTaskJSON(t *task.Task) taskJSON {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return taskJSON{
		Status:          string(t.Status),
		Description:     t.Description,
		Tags:            tags,
		Priority:        string(t.Priority),
		StartDate:       formatDate(t.StartDate),
		ScheduledDate:   formatDate(t.ScheduledDate),
		DueDate:         formatDate(t.DueDate),
		DoneDate:        formatDate(t.DoneDate),
		Path:            t.Path,
		SectionStart:    t.SectionStart,
		SectionIndex:    t.SectionIndex,
		PrecedingHeader: t.PrecedingHeader,
		Line:            t.OriginalLine,
	}
}

func toTaskListJSON(tasks []*task.Task) []taskJSON {
	jsonTasks := make([]taskJSON, len(tasks))
	for i, t := range tasks {
		jsonTasks[i] = toTaskJSON(t)
	}
	return jsonTasks
}

// FormatTaskList formats a list of tasks as JSON.
func (f *JSONFormatter) FormatTaskList(tasks []*task.Task) string {
	return marshalJSON(toTaskListJSON(tasks))
}

// resultJSON is the JSON representation of a query run.
type resultJSON struct {
	Tasks  []taskJSON         `json:"tasks"`
	Errors []query.ParseError `json:"errors"`
	Total  int                `json:"total"`
}

// FormatResult formats a query run as JSON.
func (f *JSONFormatter) FormatResult(r *query.Result) string {
	errs := r.Errors
	if errs == nil {
		errs = []query.ParseError{}
	}
	return marshalJSON(resultJSON{
		Tasks:  toTaskListJSON(r.Tasks),
		Errors: errs,
		Total:  r.Total,
	})
}

// FormatExplain formats the per-line outcomes as JSON.
func (f *JSONFormatter) FormatExplain(steps []query.Step) string {
	if steps == nil {
		steps = []query.Step{}
	}
	return marshalJSON(steps)
}

// savedQueryJSON is the JSON representation of a saved query.
type savedQueryJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	Source    string `json:"source"`
}

func toSavedQueryJSON(q *storage.SavedQuery) savedQueryJSON {
	return savedQueryJSON{
		ID:        q.ID,
		Name:      q.Name,
		CreatedAt: q.CreatedAt.Format(time.RFC3339),
		Source:    q.Source,
	}
}

// FormatSavedQuery formats a single saved query as JSON.
func (f *JSONFormatter) FormatSavedQuery(q *storage.SavedQuery) string {
	return marshalJSON(toSavedQueryJSON(q))
}

// FormatSavedQueryList formats saved queries as JSON.
func (f *JSONFormatter) FormatSavedQueryList(queries []*storage.SavedQuery) string {
	out := make([]savedQueryJSON, len(queries))
	for i, q := range queries {
		out[i] = toSavedQueryJSON(q)
	}
	return marshalJSON(out)
}

// fieldJSON is the JSON representation of a query field.
type fieldJSON struct {
	Name    string `json:"name"`
	Grammar string `json:"grammar"`
}

// FormatFields formats the field listing as JSON.
func (f *JSONFormatter) FormatFields(fields []FieldInfo) string {
	out := make([]fieldJSON, len(fields))
	for i, fi := range fields {
		out[i] = fieldJSON(fi)
	}
	return marshalJSON(out)
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}
