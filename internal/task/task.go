// Package task parses and formats todo.txt task lines.
//
// A line has up to four optional prefix fields followed by a free-text
// description:
//
//	x (A) 2020-09-02 2020-09-01 call mom +family @phone due:2020-09-05
//	| |   |          |          `- description
//	| |   |          `- creation date
//	| |   `- completion date (only when a creation date follows)
//	| `- priority
//	`- completion marker
//
// Projects (+name), contexts (@name) and key:value pairs are extracted from
// the description on demand.
package task

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/twiced-technology-gmbh/tada/internal/date"
)

// Sentinel errors.
var (
	ErrParse       = errors.New("line does not match the todo.txt grammar")
	ErrKeyNotFound = errors.New("key not found")
)

// lineRe is the full line grammar. The completion-date group is greedy, so
// the two-date form wins whenever both dates are present; a single date
// falls through to the creation-date group.
var lineRe = regexp.MustCompile(`^` +
	`(?P<completion>x )?` +
	`(?P<priority>\([A-Z]\) )?` +
	`(?:(?P<completion_date>` + date.Pattern + ` )?(?P<creation_date>` + date.Pattern + ` ))?` +
	`(?P<description>.*)$`)

var (
	groupCompletion     = lineRe.SubexpIndex("completion")
	groupPriority       = lineRe.SubexpIndex("priority")
	groupCompletionDate = lineRe.SubexpIndex("completion_date")
	groupCreationDate   = lineRe.SubexpIndex("creation_date")
	groupDescription    = lineRe.SubexpIndex("description")
)

var (
	projectTagRe  = regexp.MustCompile(`\s\+(\S+)`)
	contextTagRe  = regexp.MustCompile(`\s@(\S+)`)
	keyValueTagRe = regexp.MustCompile(`\s([^\s:]+):(\S+)`)
)

// Task is a single todo.txt line.
//
// Only the completion flag can change after construction. A Task is safe for
// concurrent readers as long as nobody calls SetCompleted at the same time.
type Task struct {
	completed      bool
	priority       string
	completionDate *date.Date
	creationDate   *date.Date
	description    string
}

// New returns an empty task, identical to Parse("").
func New() *Task {
	return &Task{}
}

// Parse builds a Task from one raw line. The line must not contain a
// newline. Date literals are converted here, so an impossible date such as
// 2020-13-40 makes Parse fail with date.ErrInvalid.
func Parse(line string) (*Task, error) {
	m := lineRe.FindStringSubmatchIndex(line)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrParse, line)
	}
	group := func(i int) (string, bool) {
		if m[2*i] < 0 {
			return "", false
		}
		return line[m[2*i]:m[2*i+1]], true
	}

	t := &Task{}
	if _, ok := group(groupCompletion); ok {
		t.completed = true
	}
	if raw, ok := group(groupPriority); ok {
		t.priority = raw[1:2]
	}
	if raw, ok := group(groupCompletionDate); ok {
		d, err := date.Parse(strings.TrimSuffix(raw, " "))
		if err != nil {
			return nil, fmt.Errorf("completion date: %w", err)
		}
		t.completionDate = &d
	}
	if raw, ok := group(groupCreationDate); ok {
		d, err := date.Parse(strings.TrimSuffix(raw, " "))
		if err != nil {
			return nil, fmt.Errorf("creation date: %w", err)
		}
		t.creationDate = &d
	}
	t.description, _ = group(groupDescription)
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(line string) *Task {
	t, err := Parse(line)
	if err != nil {
		panic(err)
	}
	return t
}

// Completed reports whether the line starts with the "x " marker.
func (t *Task) Completed() bool { return t.completed }

// SetCompleted toggles the completion marker.
func (t *Task) SetCompleted(completed bool) { t.completed = completed }

// Priority returns the priority letter, or "" when the task has none.
func (t *Task) Priority() string { return t.priority }

// HasPriority reports whether the task has a priority.
func (t *Task) HasPriority() bool { return t.priority != "" }

// CompletionDate returns the completion date, if any.
func (t *Task) CompletionDate() (date.Date, bool) {
	if t.completionDate == nil {
		return date.Date{}, false
	}
	return *t.completionDate, true
}

// HasCompletionDate reports whether the task has a completion date.
func (t *Task) HasCompletionDate() bool { return t.completionDate != nil }

// CreationDate returns the creation date, if any.
func (t *Task) CreationDate() (date.Date, bool) {
	if t.creationDate == nil {
		return date.Date{}, false
	}
	return *t.creationDate, true
}

// HasCreationDate reports whether the task has a creation date.
func (t *Task) HasCreationDate() bool { return t.creationDate != nil }

// Description returns everything after the prefix fields.
func (t *Task) Description() string { return t.description }

// Content renders the task back into its canonical todo.txt line.
func (t *Task) Content() string {
	var b strings.Builder
	if t.completed {
		b.WriteString("x ")
	}
	if t.priority != "" {
		b.WriteString("(" + t.priority + ") ")
	}
	if t.completionDate != nil {
		b.WriteString(t.completionDate.String() + " ")
	}
	if t.creationDate != nil {
		b.WriteString(t.creationDate.String() + " ")
	}
	b.WriteString(t.description)
	return b.String()
}

// String implements fmt.Stringer.
func (t *Task) String() string { return t.Content() }

// Equal reports whether two tasks have the same field values.
func (t *Task) Equal(o *Task) bool {
	return t.completed == o.completed &&
		t.priority == o.priority &&
		equalDates(t.completionDate, o.completionDate) &&
		equalDates(t.creationDate, o.creationDate) &&
		t.description == o.description
}

func equalDates(a, b *date.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// ProjectTagsSeq yields the +project tags in order of appearance.
func (t *Task) ProjectTagsSeq() iter.Seq[ProjectTag] {
	return scan(t.description, projectTagRe, projectTagFromMatch)
}

// ProjectTags returns the project names in order of appearance.
func (t *Task) ProjectTags() []string {
	return names(t.ProjectTagsSeq())
}

// ContextTagsSeq yields the @context tags in order of appearance.
func (t *Task) ContextTagsSeq() iter.Seq[ContextTag] {
	return scan(t.description, contextTagRe, contextTagFromMatch)
}

// ContextTags returns the context names in order of appearance.
func (t *Task) ContextTags() []string {
	return names(t.ContextTagsSeq())
}

// KeyValueTagsSeq yields the key:value tags in order of appearance.
func (t *Task) KeyValueTagsSeq() iter.Seq[KeyValueTag] {
	return scan(t.description, keyValueTagRe, keyValueTagFromMatch)
}

// KeyValueTags returns the keys of all key:value tags in order of appearance.
func (t *Task) KeyValueTags() []string {
	return names(t.KeyValueTagsSeq())
}

// ValueForKey returns the value of the first key:value tag with the given
// key, or ErrKeyNotFound when no such tag exists.
func (t *Task) ValueForKey(key string) (string, error) {
	if v, ok := t.Lookup(key); ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: no key value tag with %q key is present", ErrKeyNotFound, key)
}

// Lookup is the comma-ok form of ValueForKey.
func (t *Task) Lookup(key string) (string, bool) {
	for kv := range t.KeyValueTagsSeq() {
		if kv.Key() == key {
			return kv.Value(), true
		}
	}
	return "", false
}

// scan matches re lazily, one match per step, so a consumer that stops early
// never pays for the rest of the description.
func scan[T Tag](s string, re *regexp.Regexp, build func(string, []int) T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for off := 0; off < len(s); {
			loc := re.FindStringSubmatchIndex(s[off:])
			if loc == nil {
				return
			}
			for i := range loc {
				if loc[i] >= 0 {
					loc[i] += off
				}
			}
			if !yield(build(s, loc)) {
				return
			}
			off = loc[1]
		}
	}
}

func names[T Tag](seq iter.Seq[T]) []string {
	out := []string{}
	for tag := range seq {
		out = append(out, tag.Name())
	}
	return out
}
