package output

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/twiced-technology-gmbh/tada/internal/date"
	"github.com/twiced-technology-gmbh/tada/internal/query"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

func TestMain(m *testing.M) {
	DisableColor()
	today = func() date.Date { return date.MustParse("2020-09-10") }
	os.Exit(m.Run())
}

func items(t *testing.T, lines ...string) []task.Item {
	t.Helper()
	out := make([]task.Item, len(lines))
	for i, l := range lines {
		out[i] = task.Item{Line: i + 1, Task: task.MustParse(l)}
	}
	return out
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name                 string
		json, table, compact bool
		env                  string
		want                 Format
	}{
		{name: "default", want: FormatTable},
		{name: "json flag", json: true, want: FormatJSON},
		{name: "compact flag", compact: true, want: FormatCompact},
		{name: "json beats compact", json: true, compact: true, want: FormatJSON},
		{name: "table flag beats env", table: true, env: "json", want: FormatTable},
		{name: "env json", env: "json", want: FormatJSON},
		{name: "env raw", env: "raw", want: FormatCompact},
		{name: "env unknown", env: "yaml", want: FormatTable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvFormat, tt.env)
			if got := Detect(tt.json, tt.table, tt.compact); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, "TASK_NOT_FOUND", "no task on line 4", map[string]any{"line": 4})

	var got ErrorResponse
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Code != "TASK_NOT_FOUND" || got.Error != "no task on line 4" || got.Details["line"] != float64(4) {
		t.Errorf("envelope = %+v", got)
	}
}

func TestTaskCompact(t *testing.T) {
	var buf bytes.Buffer
	TaskCompact(&buf, items(t, "(A) call mom", "x done"))
	if got, want := buf.String(), "1 (A) call mom\n2 x done\n"; got != want {
		t.Errorf("TaskCompact() = %q, want %q", got, want)
	}
}

func TestTaskDetailCompact(t *testing.T) {
	var buf bytes.Buffer
	TaskDetailCompact(&buf, items(t, "call mom +family @phone due:2020-09-05")[0])
	want := "1 call mom +family @phone due:2020-09-05\n  projects:family contexts:phone due:2020-09-05\n"
	if buf.String() != want {
		t.Errorf("TaskDetailCompact() = %q, want %q", buf.String(), want)
	}
}

func TestTaskTable(t *testing.T) {
	var buf bytes.Buffer
	TaskTable(&buf, items(t,
		"(A) 2020-09-01 call mom +family @phone due:2020-09-05",
		"x 2020-09-03 2020-09-01 pay rent +home",
	))
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	for _, col := range []string{"LINE", "DONE", "PRI", "CREATED", "DESCRIPTION", "PROJECTS", "CONTEXTS", "DUE"} {
		if !strings.Contains(lines[0], col) {
			t.Errorf("header missing %s: %q", col, lines[0])
		}
	}
	for _, want := range []string{"1", "A", "2020-09-01", "call mom", "family", "phone", "2020-09-05"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row 1 missing %q: %q", want, lines[1])
		}
	}
	if !strings.HasPrefix(lines[2], "2") || !strings.Contains(lines[2], "x") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestTaskDetail(t *testing.T) {
	var buf bytes.Buffer
	TaskDetail(&buf, items(t, "(B) 2020-09-01 call mom +family due:2020-09-05")[0])
	out := buf.String()
	for _, want := range []string{"Line 1: call mom", "Priority:", "B", "Created:", "2020-09-01", "family", "due:2020-09-05", "Raw:"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	TaskDetail(&buf, task.Item{Task: task.MustParse("loose")})
	if !strings.HasPrefix(buf.String(), "Task: loose") {
		t.Errorf("detail without line = %q", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("abcdefghij", 8); got != "abcde..." {
		t.Errorf("truncate() = %q", got)
	}
}

func TestDueDisplay(t *testing.T) {
	if got := dueDisplay(task.MustParse("a due:2020-09-01")); got != "2020-09-01" {
		t.Errorf("dueDisplay() = %q", got)
	}
	if got := dueDisplay(task.MustParse("a due:soon")); got != "soon" {
		t.Errorf("dueDisplay() with a non-date = %q", got)
	}
	if got := dueDisplay(task.MustParse("a")); got != "--" {
		t.Errorf("dueDisplay() without due = %q", got)
	}
}

func sampleOverview(t *testing.T) (query.Overview, query.Grouped) {
	t.Helper()
	its := items(t,
		"(A) call mom +family due:2020-09-05",
		"x pay rent +home",
		"fix sink +home @house",
	)
	return query.Summary("todo.txt", its, date.MustParse("2020-09-10")), query.GroupBy(its, "project")
}

func TestOverview(t *testing.T) {
	ov, _ := sampleOverview(t)

	var buf bytes.Buffer
	OverviewCompact(&buf, ov)
	want := "todo.txt (3 tasks: 2 pending, 1 done, 1 overdue)\n" +
		"Priority: A=1\n" +
		"Projects: +family=1/1 +home=1/2\n" +
		"Contexts: @house=1/1 (none)=1/2\n"
	if buf.String() != want {
		t.Errorf("OverviewCompact() =\n%s\nwant\n%s", buf.String(), want)
	}

	buf.Reset()
	OverviewTable(&buf, ov)
	for _, s := range []string{"todo.txt", "Total: 3 tasks", "1 overdue", "PRIORITY", "PROJECT", "CONTEXT", "home"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("OverviewTable() missing %q:\n%s", s, buf.String())
		}
	}
}

func TestGrouped(t *testing.T) {
	_, grouped := sampleOverview(t)

	var buf bytes.Buffer
	GroupedCompact(&buf, grouped)
	want := "family:\n  1 (A) call mom +family due:2020-09-05\nhome:\n  2 x pay rent +home\n  3 fix sink +home @house\n"
	if buf.String() != want {
		t.Errorf("GroupedCompact() =\n%s\nwant\n%s", buf.String(), want)
	}

	buf.Reset()
	GroupedTable(&buf, grouped)
	if !strings.Contains(buf.String(), "home (1 pending, 1 done)") {
		t.Errorf("GroupedTable() =\n%s", buf.String())
	}
}

func TestReportMarkdown(t *testing.T) {
	ov, grouped := sampleOverview(t)
	md := ReportMarkdown(ov, grouped)

	for _, want := range []string{
		"# todo.txt",
		"**3** tasks",
		"| A | 1 |",
		"## Open tasks by project",
		"### home",
		"- `3` fix sink +home @house",
		"- `1` **(A)** call mom +family due:2020-09-05 _due 2020-09-05_",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "pay rent") {
		t.Errorf("completed task listed under open tasks:\n%s", md)
	}
}

func TestReport(t *testing.T) {
	ov, grouped := sampleOverview(t)
	var buf bytes.Buffer
	if err := Report(&buf, ov, grouped); err != nil {
		t.Fatalf("Report() error: %v", err)
	}
	if !strings.Contains(buf.String(), "fix sink") {
		t.Errorf("rendered report missing task text:\n%s", buf.String())
	}
}

func TestLogTable(t *testing.T) {
	var buf bytes.Buffer
	LogTable(&buf, []query.LogEntry{{Action: "add", Line: 3, Detail: "buy milk"}})
	if !strings.Contains(buf.String(), "buy milk") || !strings.Contains(buf.String(), "add") {
		t.Errorf("LogTable() = %q", buf.String())
	}
}
