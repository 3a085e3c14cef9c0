package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/twiced-technology-gmbh/tada/internal/query"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

const reportWrap = 100

// ReportMarkdown builds a markdown summary of a todo file: counts, then the
// open tasks grouped by the given field.
func ReportMarkdown(s query.Overview, grouped query.Grouped) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.File)
	fmt.Fprintf(&b, "**%d** tasks: **%d** pending, **%d** done", s.Total, s.Pending, s.Completed)
	if s.Overdue > 0 {
		fmt.Fprintf(&b, ", **%d** overdue", s.Overdue)
	}
	b.WriteString(".\n\n")

	if len(s.Priorities) > 0 {
		b.WriteString("## Priorities\n\n| Priority | Open |\n|---|---|\n")
		for _, pc := range s.Priorities {
			fmt.Fprintf(&b, "| %s | %d |\n", pc.Priority, pc.Count)
		}
		b.WriteString("\n")
	}

	writeCountSection(&b, "Projects", s.Projects)
	writeCountSection(&b, "Contexts", s.Contexts)

	if len(grouped.Groups) > 0 {
		fmt.Fprintf(&b, "## Open tasks by %s\n\n", grouped.Field)
		for _, g := range grouped.Groups {
			if g.Pending == 0 {
				continue
			}
			fmt.Fprintf(&b, "### %s\n\n", escapeMarkdown(g.Key))
			for _, it := range g.Items {
				if it.Task.Completed() {
					continue
				}
				fmt.Fprintf(&b, "- %s\n", reportItem(it))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeCountSection(b *strings.Builder, title string, counts []query.TagCount) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n| Name | Pending | Done |\n|---|---|---|\n", title)
	for _, tc := range counts {
		fmt.Fprintf(b, "| %s | %d | %d |\n", escapeMarkdown(tc.Name), tc.Pending, tc.Completed)
	}
	b.WriteString("\n")
}

func reportItem(it task.Item) string {
	t := it.Task
	var b strings.Builder
	fmt.Fprintf(&b, "`%d` ", it.Line)
	if t.HasPriority() {
		fmt.Fprintf(&b, "**(%s)** ", t.Priority())
	}
	b.WriteString(escapeMarkdown(t.Description()))
	if due, ok := query.Due(t); ok {
		fmt.Fprintf(&b, " _due %s_", due)
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "|", `\|`, "#", `\#`, "[", `\[`, "]", `\]`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// Report renders the markdown summary for the terminal with glamour. With
// colors disabled the plain notty style is used.
func Report(w io.Writer, s query.Overview, grouped query.Grouped) error {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(reportWrap)}
	if colorDisabled {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(ReportMarkdown(s, grouped))
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
