package task

import (
	"errors"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
	"github.com/twiced-technology-gmbh/tada/internal/date"
)

// NormalizePriority upper-cases a priority typed by a user and checks it.
func NormalizePriority(input string) (string, error) {
	p := strings.ToUpper(strings.TrimSpace(input))
	if !IsPriority(p) {
		return "", clierr.Newf(clierr.InvalidPriority, "invalid priority %q: expected a letter A-Z", input).
			WithDetails(map[string]any{"priority": input}).
			WithCause(ErrInvalidPriority)
	}
	return p, nil
}

// ValidateDate returns a CLIError for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s date: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		}).
		WithCause(err)
}

// ParseDateFlag converts user input into a date. "today" is accepted.
func ParseDateFlag(field, input string, today date.Date) (date.Date, error) {
	if strings.EqualFold(input, "today") {
		return today, nil
	}
	d, err := date.Parse(input)
	if err != nil {
		return date.Date{}, ValidateDate(field, input, err)
	}
	return d, nil
}

// ValidateLineNumber parses a user-supplied line number.
func ValidateLineNumber(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 {
		return 0, clierr.Newf(clierr.InvalidLine, "invalid line number %q", input).
			WithDetails(map[string]any{"input": input})
	}
	return n, nil
}

// LineNotFound returns a CLIError for a line that holds no task.
func LineNotFound(line int) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "no task on line %d", line).
		WithDetails(map[string]any{"line": line})
}

// ParseFailure converts a parse error into a CLIError, keeping date
// conversion failures distinguishable from grammar failures.
func ParseFailure(input string, err error) *clierr.Error {
	code := clierr.ParseError
	if errors.Is(err, date.ErrInvalid) {
		code = clierr.InvalidDate
	}
	details := map[string]any{"input": input}
	var lineErr *LineError
	if errors.As(err, &lineErr) {
		details["line"] = lineErr.Line
	}
	return clierr.Wrap(code, err).WithDetails(details)
}

// MissingKey returns a CLIError for a failed key lookup.
func MissingKey(line int, key string, err error) *clierr.Error {
	return clierr.Newf(clierr.KeyNotFound, "task on line %d has no %q key", line, key).
		WithDetails(map[string]any{"line": line, "key": key}).
		WithCause(err)
}

// AmbiguousDescription returns a CLIError for text that would be absorbed
// into prefix fields when written back.
func AmbiguousDescription(text string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidInput,
		"text %q would change meaning when saved; it starts like a completion marker, priority or date", text).
		WithDetails(map[string]any{"text": text}).
		WithCause(err)
}
