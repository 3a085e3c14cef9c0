package query

import (
	"sort"

	"github.com/twiced-technology-gmbh/tada/internal/task"
)

const (
	fieldPriority = "priority"
	fieldStatus   = "status"
	fieldProject  = "project"
	fieldContext  = "context"

	noneKey    = "(none)"
	statusOpen = "pending"
	statusDone = "done"
)

// Grouped holds items grouped by a field.
type Grouped struct {
	Field  string  `json:"field"`
	Groups []Group `json:"groups"`
}

// Group is one group within a grouped view. An item with several projects
// or contexts appears in each of their groups.
type Group struct {
	Key       string      `json:"key"`
	Items     []task.Item `json:"items"`
	Pending   int         `json:"pending"`
	Completed int         `json:"completed"`
}

// GroupBy groups items by the specified field, keeping line order inside
// each group.
func GroupBy(items []task.Item, field string) Grouped {
	groups := make(map[string][]task.Item)

	for _, it := range items {
		for _, key := range extractGroupKeys(it.Task, field) {
			groups[key] = append(groups[key], it)
		}
	}

	result := Grouped{
		Field:  field,
		Groups: make([]Group, 0, len(groups)),
	}
	for _, key := range sortGroupKeys(groups, field) {
		g := Group{Key: key, Items: groups[key]}
		for _, it := range g.Items {
			if it.Task.Completed() {
				g.Completed++
			} else {
				g.Pending++
			}
		}
		result.Groups = append(result.Groups, g)
	}
	return result
}

func extractGroupKeys(t *task.Task, field string) []string {
	switch field {
	case fieldProject:
		return orNone(t.ProjectTags())
	case fieldContext:
		return orNone(t.ContextTags())
	case fieldPriority:
		if !t.HasPriority() {
			return []string{noneKey}
		}
		return []string{t.Priority()}
	case fieldStatus:
		if t.Completed() {
			return []string{statusDone}
		}
		return []string{statusOpen}
	default:
		return []string{"(all)"}
	}
}

// orNone deduplicates keys and substitutes noneKey for an empty list.
func orNone(keys []string) []string {
	if len(keys) == 0 {
		return []string{noneKey}
	}
	seen := make(map[string]bool, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

func sortGroupKeys(groups map[string][]task.Item, field string) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	if field == fieldStatus {
		sort.Slice(keys, func(i, j int) bool { return keys[i] == statusOpen && keys[j] != statusOpen })
		return keys
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == noneKey || keys[j] == noneKey {
			return keys[j] == noneKey && keys[i] != noneKey
		}
		return keys[i] < keys[j]
	})
	return keys
}

// ValidGroupByFields returns the list of valid --group-by field names.
func ValidGroupByFields() []string {
	return []string{fieldProject, fieldContext, fieldPriority, fieldStatus}
}
