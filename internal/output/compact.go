package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/tada/internal/query"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

// TaskCompact renders items as their raw todo.txt lines, prefixed with the
// line number.
func TaskCompact(w io.Writer, items []task.Item) {
	if len(items) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, it := range items {
		fmt.Fprintln(w, formatItemLine(it))
	}
}

// TaskDetailCompact renders a single item followed by its tags.
func TaskDetailCompact(w io.Writer, it task.Item) {
	fmt.Fprintln(w, formatItemLine(it))

	t := it.Task
	var parts []string
	if p := t.ProjectTags(); len(p) > 0 {
		parts = append(parts, "projects:"+strings.Join(p, ","))
	}
	if c := t.ContextTags(); len(c) > 0 {
		parts = append(parts, "contexts:"+strings.Join(c, ","))
	}
	for kv := range t.KeyValueTagsSeq() {
		parts = append(parts, kv.String())
	}
	if len(parts) > 0 {
		fmt.Fprintln(w, "  "+strings.Join(parts, " "))
	}
}

// OverviewCompact renders a summary in compact format.
func OverviewCompact(w io.Writer, s query.Overview) {
	line := fmt.Sprintf("%s (%d tasks: %d pending, %d done", s.File, s.Total, s.Pending, s.Completed)
	if s.Overdue > 0 {
		line += ", " + strconv.Itoa(s.Overdue) + " overdue"
	}
	fmt.Fprintln(w, line+")")

	if len(s.Priorities) > 0 {
		parts := make([]string, 0, len(s.Priorities))
		for _, pc := range s.Priorities {
			parts = append(parts, pc.Priority+"="+strconv.Itoa(pc.Count))
		}
		fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))
	}
	writeTagCounts(w, "Projects", "+", s.Projects)
	writeTagCounts(w, "Contexts", "@", s.Contexts)
}

func writeTagCounts(w io.Writer, label, sigil string, counts []query.TagCount) {
	if len(counts) == 0 {
		return
	}
	parts := make([]string, 0, len(counts))
	for _, tc := range counts {
		name := tc.Name
		if !strings.HasPrefix(name, "(") {
			name = sigil + name
		}
		parts = append(parts, name+"="+strconv.Itoa(tc.Pending)+"/"+strconv.Itoa(tc.Pending+tc.Completed))
	}
	fmt.Fprintln(w, label+": "+strings.Join(parts, " "))
}

// GroupedCompact renders a grouped view as "key:" headings followed by lines.
func GroupedCompact(w io.Writer, gs query.Grouped) {
	for _, g := range gs.Groups {
		fmt.Fprintf(w, "%s:\n", g.Key)
		for _, it := range g.Items {
			fmt.Fprintln(w, "  "+formatItemLine(it))
		}
	}
}

// formatItemLine builds the one-line representation of an item.
func formatItemLine(it task.Item) string {
	return strconv.Itoa(it.Line) + " " + it.Task.Content()
}
