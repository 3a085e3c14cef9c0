package task

import (
	"encoding/json"
	"testing"
)

func TestFormat(t *testing.T) {
	task := MustParse("(A) 2020-09-01 call mom +family +home @phone due:2020-09-05")

	tests := []struct {
		layout string
		want   string
	}{
		{layout: "{{.Priority}}", want: "A"},
		{layout: `{{join .Projects ","}}`, want: "family,home"},
		{layout: "{{date .CreationDate}}|{{date .CompletionDate}}", want: "2020-09-01|"},
		{layout: `{{tag . "due"}}`, want: "2020-09-05"},
		{layout: `{{tag . "nope"}}`, want: ""},
		{layout: "{{lower .Description}}", want: "call mom +family +home @phone due:2020-09-05"},
		{layout: "{{if .Completed}}done{{else}}open{{end}}", want: "open"},
	}
	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			got, err := task.Format(tt.layout)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompileFormatError(t *testing.T) {
	if _, err := CompileFormat("{{.Priority"); err == nil {
		t.Error("CompileFormat() accepted an unterminated action")
	}
}

func TestItemJSON(t *testing.T) {
	it := Item{Line: 3, Task: MustParse("x 2020-09-02 2020-09-01 pay +bills due:now")}
	data, err := json.Marshal(it)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	checks := map[string]any{
		"line":            float64(3),
		"completed":       true,
		"completion_date": "2020-09-02",
		"creation_date":   "2020-09-01",
		"description":     "pay +bills due:now",
	}
	for k, want := range checks {
		if got[k] != want {
			t.Errorf("%s = %v, want %v", k, got[k], want)
		}
	}
	if _, ok := got["priority"]; ok {
		t.Error("priority present for a task without one")
	}
	tags, _ := got["tags"].(map[string]any)
	if tags["due"] != "now" {
		t.Errorf("tags = %v", got["tags"])
	}
}

func TestRecordIsSnapshot(t *testing.T) {
	task := MustParse("2020-09-01 thing")
	rec := task.Record()
	rec.CreationDate = nil
	if !task.HasCreationDate() {
		t.Error("changing the record changed the task")
	}
	if len(rec.Projects) != 0 || rec.Projects == nil {
		t.Errorf("Projects = %#v, want empty non-nil", rec.Projects)
	}
}
