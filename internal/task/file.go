package task

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const fileMode = 0o600

// line is one physical line of a todo file. Lines that did not parse keep
// their raw text so a save never loses data.
type line struct {
	raw  string
	task *Task
}

// File is a todo.txt file held in memory. Line numbers are 1-based and
// stable until a line is removed without preserving numbering.
type File struct {
	Path  string
	lines []line
}

// Open reads path into a File. A missing file yields an empty File.
// Lines that fail to parse are kept verbatim and reported as warnings.
func Open(path string) (*File, []ReadWarning, error) {
	f := &File{Path: path}

	fh, err := os.Open(path) //nolint:gosec // todo file path from config
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening todo file: %w", err)
	}
	defer fh.Close()

	var warnings []ReadWarning
	for it, err := range NewList(fh).Items() {
		var lineErr *LineError
		switch {
		case errors.As(err, &lineErr):
			warnings = append(warnings, ReadWarning{Line: lineErr.Line, Raw: lineErr.Raw, Err: lineErr.Err})
			f.lines = append(f.lines, line{raw: lineErr.Raw})
			continue
		case err != nil:
			return nil, nil, fmt.Errorf("reading %s: %w", path, err)
		}
		f.lines = append(f.lines, line{raw: it.Task.Content(), task: it.Task})
	}
	return f, warnings, nil
}

// Len returns the number of physical lines, blank ones included.
func (f *File) Len() int { return len(f.lines) }

// Items returns every non-blank parsed task with its line number.
func (f *File) Items() []Item {
	items := make([]Item, 0, len(f.lines))
	for i, l := range f.lines {
		if isBlank(l.task) {
			continue
		}
		items = append(items, Item{Line: i + 1, Task: l.task})
	}
	return items
}

// Get returns the task on line n.
func (f *File) Get(n int) (*Task, bool) {
	if n < 1 || n > len(f.lines) {
		return nil, false
	}
	t := f.lines[n-1].task
	if isBlank(t) {
		return nil, false
	}
	return t, true
}

// Set replaces the task on line n.
func (f *File) Set(n int, t *Task) error {
	if _, ok := f.Get(n); !ok {
		return fmt.Errorf("line %d: %w", n, fs.ErrNotExist)
	}
	f.lines[n-1] = line{raw: t.Content(), task: t}
	return nil
}

// Append adds t as a new last line and returns its line number. Trailing
// blank lines are reused.
func (f *File) Append(t *Task) int {
	n := len(f.lines)
	for n > 0 && f.lines[n-1].raw == "" {
		n--
	}
	f.lines = append(f.lines[:n], line{raw: t.Content(), task: t})
	return len(f.lines)
}

// Remove deletes line n. With preserve set the line is blanked instead so
// the numbers of later lines do not shift.
func (f *File) Remove(n int, preserve bool) (*Task, error) {
	t, ok := f.Get(n)
	if !ok {
		return nil, fmt.Errorf("line %d: %w", n, fs.ErrNotExist)
	}
	if preserve {
		f.lines[n-1] = line{task: New()}
		return t, nil
	}
	f.lines = append(f.lines[:n-1], f.lines[n:]...)
	return t, nil
}

// Bytes renders the file, one line per entry, newline-terminated.
func (f *File) Bytes() []byte {
	var buf bytes.Buffer
	for _, l := range f.lines {
		buf.WriteString(l.raw)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Save writes the file atomically through a temp file in the same directory.
func (f *File) Save() error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(f.Bytes()); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(name, f.Path); err != nil {
		os.Remove(name)
		return fmt.Errorf("replacing %s: %w", f.Path, err)
	}
	return nil
}

// AppendTo appends tasks to the file at path without reading it first.
func AppendTo(path string, tasks ...*Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	fh, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode) //nolint:gosec // path from config
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	var buf bytes.Buffer
	for _, t := range tasks {
		buf.WriteString(t.Content())
		buf.WriteByte('\n')
	}
	if _, err := fh.Write(buf.Bytes()); err != nil {
		fh.Close()
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	return fh.Close()
}
