package query

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/twiced-technology-gmbh/tada/internal/date"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

const sample = `(B) 2020-09-01 call mom +family @phone due:2020-09-05
x 2020-09-03 2020-09-01 pay rent +home due:2020-09-01
(A) fix sink +home @house
buy milk @store due:2020-10-01

write report +work +home
`

func sampleItems(t *testing.T) []task.Item {
	t.Helper()
	items, err := task.ReadAll(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	return items
}

func lines(items []task.Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Line
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

func TestFilter(t *testing.T) {
	cutoff := date.MustParse("2020-09-10")
	tests := []struct {
		name string
		opts FilterOptions
		want []int
	}{
		{name: "none", want: []int{1, 2, 3, 4, 6}},
		{name: "project", opts: FilterOptions{Projects: []string{"home"}}, want: []int{2, 3, 6}},
		{name: "two projects", opts: FilterOptions{Projects: []string{"home", "work"}}, want: []int{6}},
		{name: "context", opts: FilterOptions{Contexts: []string{"phone"}}, want: []int{1}},
		{name: "priority", opts: FilterOptions{Priorities: []string{"A", "B"}}, want: []int{1, 3}},
		{name: "completed", opts: FilterOptions{Completed: boolPtr(true)}, want: []int{2}},
		{name: "pending", opts: FilterOptions{Completed: boolPtr(false)}, want: []int{1, 3, 4, 6}},
		{name: "key any value", opts: FilterOptions{Keys: map[string]string{"due": ""}}, want: []int{1, 2, 4}},
		{name: "key value", opts: FilterOptions{Keys: map[string]string{"due": "2020-10-01"}}, want: []int{4}},
		{name: "search", opts: FilterOptions{Search: []string{"MOM"}}, want: []int{1}},
		{name: "search all terms", opts: FilterOptions{Search: []string{"home", "sink"}}, want: []int{3}},
		{name: "due before", opts: FilterOptions{DueBefore: &cutoff}, want: []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lines(Filter(sampleItems(t), tt.opts))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Filter() lines = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		field   string
		reverse bool
		want    []int
	}{
		{field: "line", want: []int{1, 2, 3, 4, 6}},
		{field: "line", reverse: true, want: []int{6, 4, 3, 2, 1}},
		{field: "priority", want: []int{3, 1, 2, 4, 6}},
		{field: "created", want: []int{1, 2, 3, 4, 6}},
		{field: "completed", want: []int{2, 1, 3, 4, 6}},
		{field: "due", want: []int{2, 1, 4, 3, 6}},
		{field: "description", want: []int{4, 1, 3, 2, 6}},
	}

	for _, tt := range tests {
		name := tt.field
		if tt.reverse {
			name += " reversed"
		}
		t.Run(name, func(t *testing.T) {
			items := sampleItems(t)
			Sort(items, tt.field, tt.reverse)
			if got := lines(items); !slices.Equal(got, tt.want) {
				t.Errorf("Sort(%s) lines = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestList(t *testing.T) {
	items := sampleItems(t)
	got := List(items, ListOptions{
		Filter: FilterOptions{Completed: boolPtr(false)},
		SortBy: "priority",
		Limit:  2,
	})
	if want := []int{3, 1}; !slices.Equal(lines(got), want) {
		t.Errorf("List() lines = %v, want %v", lines(got), want)
	}
	if want := []int{1, 2, 3, 4, 6}; !slices.Equal(lines(items), want) {
		t.Errorf("input reordered to %v", lines(items))
	}
}

func TestGroupBy(t *testing.T) {
	tests := []struct {
		field    string
		wantKeys []string
	}{
		{field: "project", wantKeys: []string{"family", "home", "work", "(none)"}},
		{field: "context", wantKeys: []string{"house", "phone", "store", "(none)"}},
		{field: "priority", wantKeys: []string{"A", "B", "(none)"}},
		{field: "status", wantKeys: []string{"pending", "done"}},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			g := GroupBy(sampleItems(t), tt.field)
			keys := make([]string, len(g.Groups))
			for i, grp := range g.Groups {
				keys[i] = grp.Key
			}
			if !slices.Equal(keys, tt.wantKeys) {
				t.Errorf("keys = %q, want %q", keys, tt.wantKeys)
			}
		})
	}

	home := GroupBy(sampleItems(t), "project").Groups[1]
	if home.Pending != 2 || home.Completed != 1 {
		t.Errorf("home group = %d pending, %d completed", home.Pending, home.Completed)
	}
}

func TestGroupByDuplicateTag(t *testing.T) {
	items, err := task.ReadAll(strings.NewReader("a +x +x\n"))
	if err != nil {
		t.Fatal(err)
	}
	g := GroupBy(items, "project")
	if len(g.Groups) != 1 || len(g.Groups[0].Items) != 1 {
		t.Errorf("groups = %+v", g.Groups)
	}
}

func TestSummary(t *testing.T) {
	ov := Summary("todo.txt", sampleItems(t), date.MustParse("2020-09-10"))

	if ov.Total != 5 || ov.Pending != 4 || ov.Completed != 1 {
		t.Errorf("total/pending/completed = %d/%d/%d", ov.Total, ov.Pending, ov.Completed)
	}
	if ov.Overdue != 1 {
		t.Errorf("Overdue = %d, want 1", ov.Overdue)
	}
	wantPrio := []PriorityCount{{"A", 1}, {"B", 1}}
	if !slices.Equal(ov.Priorities, wantPrio) {
		t.Errorf("Priorities = %v, want %v", ov.Priorities, wantPrio)
	}
	if len(ov.Projects) != 4 || ov.Projects[1] != (TagCount{Name: "home", Pending: 2, Completed: 1}) {
		t.Errorf("Projects = %+v", ov.Projects)
	}
	if last := ov.Contexts[len(ov.Contexts)-1]; last.Name != "(none)" {
		t.Errorf("last context = %q, want (none)", last.Name)
	}
}

func TestParseLines(t *testing.T) {
	got, err := ParseLines("3, 1,3,,7")
	if err != nil {
		t.Fatalf("ParseLines() error: %v", err)
	}
	if want := []int{3, 1, 7}; !slices.Equal(got, want) {
		t.Errorf("ParseLines() = %v, want %v", got, want)
	}
	if FormatLines(got) != "3,1,7" {
		t.Errorf("FormatLines() = %q", FormatLines(got))
	}

	for _, in := range []string{"", ",", "a", "0", "2,x"} {
		if _, err := ParseLines(in); err == nil {
			t.Errorf("ParseLines(%q) accepted", in)
		}
	}
}

func TestActivityLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl")

	entries, err := ReadLog(path, 0)
	if err != nil || len(entries) != 0 {
		t.Fatalf("ReadLog(missing) = %v, %v", entries, err)
	}

	LogMutation(path, "add", 1, "buy milk")
	LogMutation(path, "do", 1, "buy milk")
	LogMutation(path, "delete", 2, "old")

	entries, err = ReadLog(path, 2)
	if err != nil {
		t.Fatalf("ReadLog() error: %v", err)
	}
	if len(entries) != 2 || entries[0].Action != "do" || entries[1].Line != 2 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestTruncateLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl")
	for i := 1; i <= 5; i++ {
		LogMutation(path, "add", i, "")
	}
	if err := truncateLogIfNeeded(path, 3); err != nil {
		t.Fatal(err)
	}
	entries, err := ReadLog(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || entries[0].Line != 3 {
		t.Errorf("entries after truncation = %+v", entries)
	}
}
