package task

import (
	"errors"
	"io"
	"strings"
)

// ReadAll reads every non-blank line of r. The first unparseable line aborts
// the read.
func ReadAll(r io.ReadSeeker) ([]Item, error) {
	var items []Item
	for it, err := range NewList(r).Items() {
		if err != nil {
			return nil, err
		}
		if isBlank(it.Task) {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// ReadWarning describes a line that was skipped during lenient reading.
type ReadWarning struct {
	Line int
	Raw  string
	Err  error
}

// ReadAllLenient reads every non-blank line of r, skipping lines that do not
// parse instead of aborting. Successfully parsed items are returned along with
// warnings for the lines that failed.
func ReadAllLenient(r io.ReadSeeker) ([]Item, []ReadWarning, error) {
	var items []Item
	var warnings []ReadWarning
	for it, err := range NewList(r).Items() {
		var lineErr *LineError
		switch {
		case errors.As(err, &lineErr):
			warnings = append(warnings, ReadWarning{Line: lineErr.Line, Raw: lineErr.Raw, Err: lineErr.Err})
			continue
		case err != nil:
			return nil, nil, err
		}
		if isBlank(it.Task) {
			continue
		}
		items = append(items, it)
	}
	return items, warnings, nil
}

// FindByLine returns the item at the given line number.
func FindByLine(items []Item, line int) (Item, bool) {
	for _, it := range items {
		if it.Line == line {
			return it, true
		}
	}
	return Item{}, false
}

func isBlank(t *Task) bool {
	return t == nil || strings.TrimSpace(t.Content()) == ""
}
