package task

import (
	"bufio"
	"fmt"
	"io"
	"iter"
)

// maxLineSize bounds a single todo.txt line.
const maxLineSize = 1 << 20

// Item is a task together with its 1-based line number in its source.
type Item struct {
	Line int
	Task *Task
}

// LineError reports a line that could not be turned into a Task.
type LineError struct {
	Line int
	Raw  string
	Err  error
}

// Error implements the error interface.
func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

// Unwrap returns the underlying parse or date error.
func (e *LineError) Unwrap() error { return e.Err }

// List is a lazy, restartable sequence of tasks read from a line source.
// Every iteration rewinds the source to its beginning.
type List struct {
	r io.ReadSeeker
}

// NewList wraps r.
func NewList(r io.ReadSeeker) *List {
	return &List{r: r}
}

// Items yields one Item per line. A line that fails to parse is yielded as a
// *LineError alongside an Item carrying only the line number; iteration
// continues if the consumer asks for more. Seek and read failures end the
// sequence after being yielded.
func (l *List) Items() iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		if _, err := l.r.Seek(0, io.SeekStart); err != nil {
			yield(Item{}, fmt.Errorf("rewinding source: %w", err))
			return
		}

		scanner := bufio.NewScanner(l.r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		n := 0
		for scanner.Scan() {
			n++
			raw := scanner.Text()
			t, err := Parse(raw)
			if err != nil {
				if !yield(Item{Line: n}, &LineError{Line: n, Raw: raw, Err: err}) {
					return
				}
				continue
			}
			if !yield(Item{Line: n, Task: t}, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Item{}, fmt.Errorf("reading source: %w", err))
		}
	}
}

// All yields the tasks without line numbers.
func (l *List) All() iter.Seq2[*Task, error] {
	return func(yield func(*Task, error) bool) {
		for it, err := range l.Items() {
			if !yield(it.Task, err) {
				return
			}
		}
	}
}
