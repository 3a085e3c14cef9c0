package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/tada/internal/date"
	"github.com/twiced-technology-gmbh/tada/internal/query"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Strikethrough(true)

	// Priority colors matching the TUI palette; letters past C stay plain.
	priorityStyles = map[string]lipgloss.Style{
		"A": lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		"B": lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"C": lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	}

	projectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("44"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// DisableColor strips all styling from table output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	doneStyle = lipgloss.NewStyle()
	priorityStyles = map[string]lipgloss.Style{}
	projectStyle = lipgloss.NewStyle()
	contextStyle = lipgloss.NewStyle()
	overdueStyle = lipgloss.NewStyle()
	colorDisabled = true
}

var colorDisabled bool

// today is replaced in tests.
var today = date.Today

const maxDescription = 60

// TaskTable renders items as a formatted table.
func TaskTable(w io.Writer, items []task.Item) {
	if len(items) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	lineW, descW, projW, ctxW := 4, 13, 10, 10
	for _, it := range items {
		lineW = max(lineW, len(strconv.Itoa(it.Line))+pad)
		descW = max(descW, min(lipgloss.Width(it.Task.Description())+pad, maxDescription+pad))
		projW = max(projW, min(len(strings.Join(it.Task.ProjectTags(), ","))+pad, 30)) //nolint:mnd // max projects column width
		ctxW = max(ctxW, min(len(strings.Join(it.Task.ContextTags(), ","))+pad, 30))   //nolint:mnd // max contexts column width
	}
	const doneW, prioW, dateW = 5, 4, 11

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %-*s %s",
		lineW, "LINE", doneW, "DONE", prioW, "PRI", dateW, "CREATED",
		descW, "DESCRIPTION", projW, "PROJECTS", ctxW, "CONTEXTS", "DUE")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, it := range items {
		t := it.Task
		done := dimStyle.Render("--")
		if t.Completed() {
			done = "x"
		}
		desc := truncate(t.Description(), maxDescription)
		if t.Completed() {
			desc = doneStyle.Render(desc)
		}

		row := fmt.Sprintf("%-*d %s %s %s %s %s %s %s",
			lineW, it.Line,
			padRight(done, doneW),
			padRight(priorityDisplay(t), prioW),
			padRight(dateOrDash(t.CreationDate()), dateW),
			padRight(desc, descW),
			padRight(joinOrDash(t.ProjectTags(), projectStyle), projW),
			padRight(joinOrDash(t.ContextTags(), contextStyle), ctxW),
			dueDisplay(t))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single item with full detail. Line 0 means the task
// did not come from a file.
func TaskDetail(w io.Writer, it task.Item) {
	t := it.Task
	titleLine := "Task: " + t.Description()
	if it.Line > 0 {
		titleLine = fmt.Sprintf("Line %d: %s", it.Line, t.Description())
	}
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	status := "pending"
	if t.Completed() {
		status = "done"
	}
	printField(w, "Status", status)
	printField(w, "Priority", priorityDisplay(t))
	printField(w, "Created", dateOrDash(t.CreationDate()))
	printField(w, "Completed", dateOrDash(t.CompletionDate()))
	printField(w, "Projects", joinOrDash(t.ProjectTags(), projectStyle))
	printField(w, "Contexts", joinOrDash(t.ContextTags(), contextStyle))

	var kvs []string
	for kv := range t.KeyValueTagsSeq() {
		kvs = append(kvs, kv.String())
	}
	printField(w, "Tags", joinOrDash(kvs, lipgloss.NewStyle()))
	printField(w, "Raw", t.Content())
}

// OverviewTable renders a todo file summary as a formatted dashboard.
func OverviewTable(w io.Writer, s query.Overview) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(s.File))
	fmt.Fprintf(w, "Total: %d tasks (%d pending, %d done", s.Total, s.Pending, s.Completed)
	if s.Overdue > 0 {
		fmt.Fprint(w, ", "+overdueStyle.Render(strconv.Itoa(s.Overdue)+" overdue"))
	}
	fmt.Fprint(w, ")\n")

	if len(s.Priorities) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-16s %6s", "PRIORITY", "OPEN")))
		for _, pc := range s.Priorities {
			const prioColW = 16
			fmt.Fprintf(w, "%s %6d\n", padRight(styledValue(pc.Priority, priorityStyles), prioColW), pc.Count)
		}
	}

	tagCountTable(w, "PROJECT", s.Projects, projectStyle)
	tagCountTable(w, "CONTEXT", s.Contexts, contextStyle)
}

func tagCountTable(w io.Writer, label string, counts []query.TagCount, style lipgloss.Style) {
	if len(counts) == 0 {
		return
	}
	const nameColW = 20
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %8s %6s", nameColW, label, "PENDING", "DONE")))
	for _, tc := range counts {
		fmt.Fprintf(w, "%s %8d %6d\n", padRight(style.Render(tc.Name), nameColW), tc.Pending, tc.Completed)
	}
}

// GroupedTable renders a grouped view with the items of every group.
func GroupedTable(w io.Writer, gs query.Grouped) {
	if len(gs.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No groups found.")
		return
	}

	for i, g := range gs.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := fmt.Sprintf("%s (%d pending, %d done)", g.Key, g.Pending, g.Completed)
		fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(title))

		lineW := 0
		for _, it := range g.Items {
			lineW = max(lineW, len(strconv.Itoa(it.Line)))
		}
		for _, it := range g.Items {
			content := it.Task.Content()
			if it.Task.Completed() {
				content = doneStyle.Render(content)
			}
			fmt.Fprintf(w, "  %*d %s\n", lineW, it.Line, content)
		}
	}
}

// LogTable renders activity log entries.
func LogTable(w io.Writer, entries []query.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-19s %-8s %5s  %s", "TIME", "ACTION", "LINE", "DETAIL")))
	for _, e := range entries {
		fmt.Fprintf(w, "%-19s %-8s %5d  %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Line, e.Detail)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// truncate shortens s to at most n visible runes, ending in "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func priorityDisplay(t *task.Task) string {
	if !t.HasPriority() {
		return dimStyle.Render("--")
	}
	return styledValue(t.Priority(), priorityStyles)
}

func dueDisplay(t *task.Task) string {
	due, ok := query.Due(t)
	if !ok {
		if v, present := t.Lookup(query.DueKey); present {
			return v
		}
		return dimStyle.Render("--")
	}
	if !t.Completed() && due.Before(today()) {
		return overdueStyle.Render(due.String())
	}
	return due.String()
}

func dateOrDash(d date.Date, ok bool) string {
	if !ok {
		return dimStyle.Render("--")
	}
	return d.String()
}

func joinOrDash(items []string, style lipgloss.Style) string {
	if len(items) == 0 {
		return dimStyle.Render("--")
	}
	return style.Render(strings.Join(items, ","))
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
