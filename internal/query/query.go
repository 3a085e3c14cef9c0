package query

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
	"github.com/twiced-technology-gmbh/tada/internal/date"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

// ListOptions controls how items are listed.
type ListOptions struct {
	Filter  FilterOptions
	SortBy  string
	Reverse bool
	Limit   int
}

// List applies filters, sorting and the limit. The input slice is not
// reordered.
func List(items []task.Item, opts ListOptions) []task.Item {
	result := Filter(items, opts.Filter)

	sortField := opts.SortBy
	if sortField == "" {
		sortField = "line"
	}
	Sort(result, sortField, opts.Reverse)

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result
}

// PriorityCount holds a count for a priority level.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

// TagCount holds pending and completed counts for a project or context.
type TagCount struct {
	Name      string `json:"name"`
	Pending   int    `json:"pending"`
	Completed int    `json:"completed"`
}

// Overview is the aggregate view of a todo file.
type Overview struct {
	File       string          `json:"file"`
	Total      int             `json:"total"`
	Pending    int             `json:"pending"`
	Completed  int             `json:"completed"`
	Overdue    int             `json:"overdue"`
	Priorities []PriorityCount `json:"priorities"`
	Projects   []TagCount      `json:"projects"`
	Contexts   []TagCount      `json:"contexts"`
}

// Summary computes an overview of items. Priorities count open tasks only
// and list letters in order; projects and contexts are ordered by name.
func Summary(file string, items []task.Item, today date.Date) Overview {
	ov := Overview{File: file, Total: len(items)}
	prio := make(map[string]int)
	projects := make(map[string]*TagCount)
	contexts := make(map[string]*TagCount)

	for _, it := range items {
		t := it.Task
		if t.Completed() {
			ov.Completed++
		} else {
			ov.Pending++
			if t.HasPriority() {
				prio[t.Priority()]++
			}
		}
		if IsOverdue(t, today) {
			ov.Overdue++
		}
		countTags(projects, orNone(t.ProjectTags()), t.Completed())
		countTags(contexts, orNone(t.ContextTags()), t.Completed())
	}

	ov.Priorities = make([]PriorityCount, 0, len(prio))
	for p, n := range prio {
		ov.Priorities = append(ov.Priorities, PriorityCount{Priority: p, Count: n})
	}
	slices.SortFunc(ov.Priorities, func(a, b PriorityCount) int { return cmp.Compare(a.Priority, b.Priority) })

	ov.Projects = sortedCounts(projects)
	ov.Contexts = sortedCounts(contexts)
	return ov
}

func countTags(m map[string]*TagCount, names []string, completed bool) {
	for _, name := range names {
		tc, ok := m[name]
		if !ok {
			tc = &TagCount{Name: name}
			m[name] = tc
		}
		if completed {
			tc.Completed++
		} else {
			tc.Pending++
		}
	}
}

func sortedCounts(m map[string]*TagCount) []TagCount {
	out := make([]TagCount, 0, len(m))
	for _, tc := range m {
		out = append(out, *tc)
	}
	slices.SortFunc(out, func(a, b TagCount) int {
		switch {
		case a.Name == noneKey:
			return 1
		case b.Name == noneKey:
			return -1
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// ParseLines splits a comma-separated line number string into deduplicated
// line numbers.
func ParseLines(arg string) ([]int, error) {
	parts := strings.Split(arg, ",")
	seen := make(map[int]bool, len(parts))
	lines := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := task.ValidateLineNumber(p)
		if err != nil {
			return nil, err
		}
		if !seen[n] {
			lines = append(lines, n)
			seen[n] = true
		}
	}
	if len(lines) == 0 {
		return nil, clierr.New(clierr.InvalidLine, "no valid line numbers provided")
	}
	return lines, nil
}

// FormatLines renders line numbers as "1,2,3".
func FormatLines(lines []int) string {
	parts := make([]string, len(lines))
	for i, n := range lines {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
