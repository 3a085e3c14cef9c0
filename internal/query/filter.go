// Package query provides list-level operations on parsed todo items.
package query

import (
	"strings"

	"github.com/twiced-technology-gmbh/tada/internal/date"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

// DueKey is the key:value tag holding a due date.
const DueKey = "due"

// FilterOptions defines which items to include.
type FilterOptions struct {
	Projects   []string          // every project must be present
	Contexts   []string          // every context must be present
	Priorities []string          // any of these priorities
	Completed  *bool             // nil=no filter
	Keys       map[string]string // key:value pairs that must all match; "" matches any value
	Search     []string          // case-insensitive terms that must all appear in the line
	DueBefore  *date.Date        // only items due strictly before this date
}

// Filter returns items matching all specified criteria (AND logic).
func Filter(items []task.Item, opts FilterOptions) []task.Item {
	var result []task.Item
	for _, it := range items {
		if matchesFilter(it.Task, opts) {
			result = append(result, it)
		}
	}
	return result
}

func matchesFilter(t *task.Task, opts FilterOptions) bool {
	if opts.Completed != nil && t.Completed() != *opts.Completed {
		return false
	}
	if len(opts.Priorities) > 0 && !containsStr(opts.Priorities, t.Priority()) {
		return false
	}
	if !containsAll(t.ProjectTags(), opts.Projects) {
		return false
	}
	if !containsAll(t.ContextTags(), opts.Contexts) {
		return false
	}
	for k, want := range opts.Keys {
		got, ok := t.Lookup(k)
		if !ok || (want != "" && got != want) {
			return false
		}
	}
	if len(opts.Search) > 0 && !matchesSearch(t, opts.Search) {
		return false
	}
	if opts.DueBefore != nil {
		due, ok := Due(t)
		if !ok || !due.Before(*opts.DueBefore) {
			return false
		}
	}
	return true
}

// matchesSearch performs case-insensitive substring matching against the
// whole line.
func matchesSearch(t *task.Task, terms []string) bool {
	content := strings.ToLower(t.Content())
	for _, term := range terms {
		if !strings.Contains(content, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

// Due returns the task's due date. A missing or malformed due value
// reports false.
func Due(t *task.Task) (date.Date, bool) {
	v, ok := t.Lookup(DueKey)
	if !ok {
		return date.Date{}, false
	}
	d, err := date.Parse(v)
	if err != nil {
		return date.Date{}, false
	}
	return d, true
}

// IsOverdue reports whether an open task is due before today.
func IsOverdue(t *task.Task, today date.Date) bool {
	if t.Completed() {
		return false
	}
	due, ok := Due(t)
	return ok && due.Before(today)
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		if !containsStr(have, w) {
			return false
		}
	}
	return true
}

func containsStr(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
