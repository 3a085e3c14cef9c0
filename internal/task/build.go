package task

import (
	"errors"
	"fmt"
	"strings"

	"github.com/twiced-technology-gmbh/tada/internal/date"
)

// Builder errors.
var (
	ErrInvalidPriority      = errors.New("priority must be a single letter A-Z")
	ErrAmbiguousDescription = errors.New("description would be read back as prefix fields")
)

// Option sets one field while building a task.
type Option func(*Task) error

// WithCompleted sets the completion marker.
func WithCompleted(completed bool) Option {
	return func(t *Task) error {
		t.completed = completed
		return nil
	}
}

// WithPriority sets the priority letter. An empty string removes it.
func WithPriority(p string) Option {
	return func(t *Task) error {
		if p != "" && !IsPriority(p) {
			return fmt.Errorf("%w: %q", ErrInvalidPriority, p)
		}
		t.priority = p
		return nil
	}
}

// WithCompletionDate sets the completion date. Without a creation date it
// cannot survive a round trip: the lone date is read back as a creation date.
func WithCompletionDate(d date.Date) Option {
	return func(t *Task) error {
		t.completionDate = &d
		return nil
	}
}

// WithoutCompletionDate removes the completion date.
func WithoutCompletionDate() Option {
	return func(t *Task) error {
		t.completionDate = nil
		return nil
	}
}

// WithCreationDate sets the creation date.
func WithCreationDate(d date.Date) Option {
	return func(t *Task) error {
		t.creationDate = &d
		return nil
	}
}

// WithoutCreationDate removes the creation date.
func WithoutCreationDate() Option {
	return func(t *Task) error {
		t.creationDate = nil
		return nil
	}
}

// WithDescription sets the description. It must fit on one line.
func WithDescription(s string) Option {
	return func(t *Task) error {
		if strings.Contains(s, "\n") {
			return fmt.Errorf("%w: description spans multiple lines", ErrParse)
		}
		t.description = s
		return nil
	}
}

// Build creates a task from the empty task and the given options.
func Build(opts ...Option) (*Task, error) {
	return New().With(opts...)
}

// With returns a copy of t with the options applied; t itself is untouched.
// The result is rejected when its description would not read back
// unchanged, e.g. a description starting with "x " on an open task.
func (t *Task) With(opts ...Option) (*Task, error) {
	out := t.clone()
	for _, opt := range opts {
		if err := opt(out); err != nil {
			return nil, err
		}
	}

	back, err := Parse(out.Content())
	if err != nil {
		return nil, err
	}
	if back.description != out.description {
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousDescription, out.description)
	}
	return out, nil
}

func (t *Task) clone() *Task {
	out := *t
	if t.completionDate != nil {
		d := *t.completionDate
		out.completionDate = &d
	}
	if t.creationDate != nil {
		d := *t.creationDate
		out.creationDate = &d
	}
	return &out
}

// IsPriority reports whether p is a valid priority letter.
func IsPriority(p string) bool {
	return len(p) == 1 && p[0] >= 'A' && p[0] <= 'Z'
}
