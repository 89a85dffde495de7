package filter

import "time"

// unknownInstruction is reported when no Field grammar matches a line.
const unknownInstruction = "do not understand query"

// Option configures a Registry.
type Option func(*options)

type options struct {
	now          func() time.Time
	globalFilter string
}

// WithClock sets the clock used to resolve relative dates such as "today".
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithGlobalFilter sets the tag every task carries, which description matching ignores.
func WithGlobalFilter(tag string) Option {
	return func(o *options) {
		o.globalFilter = tag
	}
}

// Registry dispatches instruction lines to Fields in a fixed order.
type Registry struct {
	fields []Field
}

// NewRegistry creates a Registry holding every known Field.
func NewRegistry(opts ...Option) *Registry {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	// StatusField precedes the done date field; both handle lines starting with "done".
	return &Registry{
		fields: []Field{
			NewStatusField(),
			NewTagsField(),
			NewPriorityField(),
			NewDescriptionField(o.globalFilter),
			NewPathField(),
			NewHeadingField(),
			NewDueDateField(o.now),
			NewStartDateField(o.now),
			NewScheduledDateField(o.now),
			NewDoneDateField(o.now),
		},
	}
}

// Fields returns the Fields in dispatch order.
func (r *Registry) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Parse hands line to the first Field whose grammar matches it. A line no grammar
// matches yields the registry-level "do not understand query" error.
func (r *Registry) Parse(line string) FilterOrErrorMessage {
	for _, f := range r.fields {
		if f.Grammar().MatchString(line) {
			return f.CreateFilterOrErrorMessage(line)
		}
	}
	return Failure(unknownInstruction)
}
