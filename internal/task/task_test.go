package task

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/tada/internal/date"
)

func mustDate(t *testing.T, s string) date.Date {
	t.Helper()
	d, err := date.Parse(s)
	if err != nil {
		t.Fatalf("date.Parse(%q): %v", s, err)
	}
	return d
}

func dateString(d date.Date, ok bool) string {
	if !ok {
		return ""
	}
	return d.String()
}

func TestParse(t *testing.T) {
	tests := []struct {
		name           string
		line           string
		completed      bool
		priority       string
		completionDate string
		creationDate   string
		description    string
	}{
		{name: "empty", line: ""},
		{name: "completed", line: "x done", completed: true, description: "done"},
		{name: "not completed", line: "not done", description: "not done"},
		{name: "x without space", line: "xylophone", description: "xylophone"},
		{name: "priority", line: "(A) task", priority: "A", description: "task"},
		{name: "no priority", line: "task", description: "task"},
		{name: "lowercase priority is text", line: "(a) task", description: "(a) task"},
		{name: "priority needs space", line: "(A)task", description: "(A)task"},
		{
			name:           "two dates",
			line:           "2020-09-02 2020-09-01 desc",
			completionDate: "2020-09-02",
			creationDate:   "2020-09-01",
			description:    "desc",
		},
		{name: "one date", line: "2020-09-01 desc", creationDate: "2020-09-01", description: "desc"},
		{name: "short date is text", line: "2020-9-01 desc", description: "2020-9-01 desc"},
		{
			name:           "all fields",
			line:           "x (A) 2020-09-02 2020-09-01 call mom +family @phone due:2020-09-05",
			completed:      true,
			priority:       "A",
			completionDate: "2020-09-02",
			creationDate:   "2020-09-01",
			description:    "call mom +family @phone due:2020-09-05",
		},
		{name: "priority after marker only", line: "(A) x task", priority: "A", description: "x task"},
		{name: "lone date only", line: "2020-09-01 ", creationDate: "2020-09-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.line, err)
			}
			if got.Completed() != tt.completed {
				t.Errorf("Completed() = %v, want %v", got.Completed(), tt.completed)
			}
			if got.Priority() != tt.priority {
				t.Errorf("Priority() = %q, want %q", got.Priority(), tt.priority)
			}
			if s := dateString(got.CompletionDate()); s != tt.completionDate {
				t.Errorf("CompletionDate() = %q, want %q", s, tt.completionDate)
			}
			if s := dateString(got.CreationDate()); s != tt.creationDate {
				t.Errorf("CreationDate() = %q, want %q", s, tt.creationDate)
			}
			if got.Description() != tt.description {
				t.Errorf("Description() = %q, want %q", got.Description(), tt.description)
			}
			if got.Content() != tt.line {
				t.Errorf("Content() = %q, want %q", got.Content(), tt.line)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{name: "internal newline", line: "first\nsecond", want: ErrParse},
		{name: "impossible creation date", line: "2020-13-40 desc", want: date.ErrInvalid},
		{name: "impossible completion date", line: "x 2021-02-29 2021-01-01 desc", want: date.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse(%q) = %v, %v; want error %v", tt.line, got, err, tt.want)
			}
			if got != nil {
				t.Errorf("Parse(%q) returned a task alongside the error", tt.line)
			}
		})
	}
}

func TestNewMatchesEmptyLine(t *testing.T) {
	if !New().Equal(MustParse("")) {
		t.Errorf("New() = %q, want the same task as Parse(\"\")", New().Content())
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse with a newline did not panic")
		}
	}()
	MustParse("a\nb")
}

func TestSetCompleted(t *testing.T) {
	task := MustParse("Cool task.")

	task.SetCompleted(true)
	if got := task.Content(); got != "x Cool task." {
		t.Errorf("after completing, Content() = %q", got)
	}

	task.SetCompleted(false)
	if got := task.Content(); got != "Cool task." {
		t.Errorf("after reopening, Content() = %q", got)
	}
}

func TestProjectTags(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{line: "desc with +proj +tags", want: []string{"proj", "tags"}},
		{line: "no tags here", want: []string{}},
		{line: "+leading is not a tag", want: []string{}},
		{line: "(A) +leading after priority", want: []string{}},
		{line: "a+b glued", want: []string{}},
		{line: "dup +x +x", want: []string{"x", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := MustParse(tt.line).ProjectTags()
			if !slices.Equal(got, tt.want) {
				t.Errorf("ProjectTags() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContextTags(t *testing.T) {
	got := MustParse("desc with @ctx @tags").ContextTags()
	if want := []string{"ctx", "tags"}; !slices.Equal(got, want) {
		t.Errorf("ContextTags() = %q, want %q", got, want)
	}
	if got := MustParse("mail me@example.com").ContextTags(); len(got) != 0 {
		t.Errorf("ContextTags() on an email address = %q, want none", got)
	}
}

func TestKeyValueTags(t *testing.T) {
	task := MustParse("desc with due:2020-01-01 foo:bar url:http://example.com")

	if got, want := task.KeyValueTags(), []string{"due", "foo", "url"}; !slices.Equal(got, want) {
		t.Errorf("KeyValueTags() = %q, want %q", got, want)
	}

	v, err := task.ValueForKey("due")
	if err != nil || v != "2020-01-01" {
		t.Errorf("ValueForKey(due) = %q, %v", v, err)
	}

	v, err = task.ValueForKey("url")
	if err != nil || v != "http://example.com" {
		t.Errorf("ValueForKey(url) = %q, %v; want the value split at the first colon", v, err)
	}

	if _, err := task.ValueForKey("missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("ValueForKey(missing) error = %v, want ErrKeyNotFound", err)
	}

	if _, ok := task.Lookup("missing"); ok {
		t.Error("Lookup(missing) reported ok")
	}
}

func TestValueForKeyFirstWins(t *testing.T) {
	v, err := MustParse("a due:1 due:2").ValueForKey("due")
	if err != nil || v != "1" {
		t.Errorf("ValueForKey(due) = %q, %v; want first value", v, err)
	}
}

func TestTagSpans(t *testing.T) {
	task := MustParse("call +mom @phone due:today")

	var got []Tag
	for p := range task.ProjectTagsSeq() {
		got = append(got, p)
	}
	for c := range task.ContextTagsSeq() {
		got = append(got, c)
	}
	for kv := range task.KeyValueTagsSeq() {
		got = append(got, kv)
	}

	want := []struct {
		text       string
		start, end int
	}{
		{"+mom", 4, 9},
		{"@phone", 9, 16},
		{"due:today", 16, 26},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tags, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].String() != w.text || got[i].Start() != w.start || got[i].End() != w.end {
			t.Errorf("tag %d = %s [%d,%d), want %s [%d,%d)",
				i, got[i], got[i].Start(), got[i].End(), w.text, w.start, w.end)
		}
	}
}

func TestTagSeqStopsEarly(t *testing.T) {
	task := MustParse("do +a +b +c")
	var seen []string
	for p := range task.ProjectTagsSeq() {
		seen = append(seen, p.Name())
		if len(seen) == 2 {
			break
		}
	}
	if want := []string{"a", "b"}; !slices.Equal(seen, want) {
		t.Errorf("seen = %q, want %q", seen, want)
	}
}

func TestTagsFollowDescription(t *testing.T) {
	// Tags are read from the description only, so a completed task keeps them.
	task := MustParse("x 2020-09-02 2020-09-01 pay +bills")
	if got := task.ProjectTags(); !slices.Equal(got, []string{"bills"}) {
		t.Errorf("ProjectTags() = %q", got)
	}
}

func TestEqual(t *testing.T) {
	a := MustParse("(B) 2020-01-01 same")
	b := MustParse("(B) 2020-01-01 same")
	if !a.Equal(b) {
		t.Error("identical lines not Equal")
	}
	c := MustParse("(B) 2020-01-02 same")
	if a.Equal(c) {
		t.Error("different creation dates reported Equal")
	}
	d := MustParse("(B) same")
	if a.Equal(d) {
		t.Error("missing creation date reported Equal")
	}
}

func TestDateAccessors(t *testing.T) {
	task := MustParse("2020-09-02 2020-09-01 desc")
	got, ok := task.CompletionDate()
	if !ok || !got.Equal(date.New(2020, time.September, 2)) {
		t.Errorf("CompletionDate() = %v, %v", got, ok)
	}
	if !task.HasCompletionDate() || !task.HasCreationDate() {
		t.Error("Has*Date() reported a missing date")
	}
	if MustParse("desc").HasCreationDate() {
		t.Error("HasCreationDate() on a dateless task")
	}
}

func TestString(t *testing.T) {
	task := MustParse("(C) thing")
	if task.String() != task.Content() {
		t.Errorf("String() = %q, Content() = %q", task.String(), task.Content())
	}
}
