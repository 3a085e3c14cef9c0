package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/twiced-technology-gmbh/tada/internal/date"
)

// Record is a flat, serializable view of a task.
type Record struct {
	Completed      bool              `json:"completed"`
	Priority       string            `json:"priority,omitempty"`
	CompletionDate *date.Date        `json:"completion_date,omitempty"`
	CreationDate   *date.Date        `json:"creation_date,omitempty"`
	Description    string            `json:"description"`
	Projects       []string          `json:"projects"`
	Contexts       []string          `json:"contexts"`
	Tags           map[string]string `json:"tags"`
	Content        string            `json:"content"`
}

// Record snapshots the task. Tags keeps the first value seen for each key.
func (t *Task) Record() Record {
	tags := make(map[string]string)
	for kv := range t.KeyValueTagsSeq() {
		if _, ok := tags[kv.Key()]; !ok {
			tags[kv.Key()] = kv.Value()
		}
	}
	c := t.clone()
	return Record{
		Completed:      t.completed,
		Priority:       t.priority,
		CompletionDate: c.completionDate,
		CreationDate:   c.creationDate,
		Description:    t.description,
		Projects:       t.ProjectTags(),
		Contexts:       t.ContextTags(),
		Tags:           tags,
		Content:        t.Content(),
	}
}

// MarshalJSON implements json.Marshaler.
func (t *Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Record())
}

// MarshalJSON implements json.Marshaler; the line number sits next to the
// task fields.
func (it Item) MarshalJSON() ([]byte, error) {
	var rec Record
	if it.Task != nil {
		rec = it.Task.Record()
	}
	return json.Marshal(struct {
		Line int `json:"line"`
		Record
	}{Line: it.Line, Record: rec})
}

var formatFuncs = template.FuncMap{
	"join":  strings.Join,
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"date": func(d *date.Date) string {
		if d == nil {
			return ""
		}
		return d.String()
	},
	"tag": func(r Record, key string) string {
		return r.Tags[key]
	},
}

// Formatter renders tasks through a text/template layout. The template sees
// the task's Record as dot.
type Formatter struct {
	tmpl *template.Template
}

// CompileFormat parses a layout such as
// `{{.Priority}} {{.Description}} {{join .Projects ","}}`.
func CompileFormat(layout string) (*Formatter, error) {
	tmpl, err := template.New("task").Funcs(formatFuncs).Option("missingkey=zero").Parse(layout)
	if err != nil {
		return nil, fmt.Errorf("parsing format: %w", err)
	}
	return &Formatter{tmpl: tmpl}, nil
}

// Render executes the layout for one task.
func (f *Formatter) Render(t *Task) (string, error) {
	var b strings.Builder
	if err := f.tmpl.Execute(&b, t.Record()); err != nil {
		return "", fmt.Errorf("rendering format: %w", err)
	}
	return b.String(), nil
}

// Format renders the task with a one-off layout.
func (t *Task) Format(layout string) (string, error) {
	f, err := CompileFormat(layout)
	if err != nil {
		return "", err
	}
	return f.Render(t)
}
