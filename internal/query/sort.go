package query

import (
	"sort"
	"strings"

	"github.com/twiced-technology-gmbh/tada/internal/date"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

// Sort sorts items by the given field. Items missing the field sort last
// (first when reversed); ties keep line order.
func Sort(items []task.Item, field string, reverse bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if reverse {
			return compareItems(items[j], items[i], field)
		}
		return compareItems(items[i], items[j], field)
	})
}

func compareItems(a, b task.Item, field string) bool {
	switch field {
	case fieldPriority:
		return compareOptional(a.Task.Priority(), a.Task.HasPriority(), b.Task.Priority(), b.Task.HasPriority(),
			func(x, y string) bool { return x < y })
	case "created":
		ad, aok := a.Task.CreationDate()
		bd, bok := b.Task.CreationDate()
		return compareOptional(ad, aok, bd, bok, date.Date.Before)
	case "completed":
		ad, aok := a.Task.CompletionDate()
		bd, bok := b.Task.CompletionDate()
		return compareOptional(ad, aok, bd, bok, date.Date.Before)
	case "due":
		ad, aok := Due(a.Task)
		bd, bok := Due(b.Task)
		return compareOptional(ad, aok, bd, bok, date.Date.Before)
	case "description":
		return strings.ToLower(a.Task.Description()) < strings.ToLower(b.Task.Description())
	default:
		return a.Line < b.Line
	}
}

// compareOptional orders present values with less and puts absent ones last.
func compareOptional[T any](a T, aok bool, b T, bok bool, less func(T, T) bool) bool {
	switch {
	case !aok:
		return false
	case !bok:
		return true
	default:
		return less(a, b)
	}
}
