// Package filter compiles single query instruction lines into task predicates.
//
// Each Field owns one instruction grammar ("tags include #work", "priority is high",
// "due before 2024-05-01"). A Registry holds the Fields in a fixed order and hands each
// line to the first Field whose grammar matches it.
package filter

import (
	"fmt"
	"regexp"

	"github.com/abatilo/tq/internal/task"
)

// Filter is a pure predicate over a single task.
type Filter func(t *task.Task) bool

// FilterOrErrorMessage is the result of compiling one instruction line.
// Exactly one of Filter and Error is set.
type FilterOrErrorMessage struct {
	Filter Filter
	Error  string
}

// Success wraps a compiled filter.
func Success(f Filter) FilterOrErrorMessage {
	if f == nil {
		panic("filter: Success called with nil filter")
	}
	return FilterOrErrorMessage{Filter: f}
}

// Failure wraps an error message.
func Failure(msg string) FilterOrErrorMessage {
	if msg == "" {
		panic("filter: Failure called with empty message")
	}
	return FilterOrErrorMessage{Error: msg}
}

// OK reports whether the line compiled into a filter.
func (r FilterOrErrorMessage) OK() bool {
	return r.Error == "" && r.Filter != nil
}

// Field recognizes and compiles the instruction lines of one task attribute.
type Field interface {
	// Name is the human-readable field name used in error messages.
	Name() string
	// Grammar is the anchored pattern a line must match for this field to own it.
	Grammar() *regexp.Regexp
	// CreateFilterOrErrorMessage compiles the line or explains why it cannot.
	CreateFilterOrErrorMessage(line string) FilterOrErrorMessage
}

// notUnderstood is the uniform field-level failure.
func notUnderstood(f Field) FilterOrErrorMessage {
	return Failure(fmt.Sprintf("do not understand query filter (%s)", f.Name()))
}

// negate returns the exact logical negation of f.
func negate(f Filter) Filter {
	return func(t *task.Task) bool {
		return !f(t)
	}
}
