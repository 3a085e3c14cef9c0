// Package date provides the calendar date used by todo.txt lines (YYYY-MM-DD).
package date

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.yaml.in/yaml/v3"
)

const layout = "2006-01-02"

// Pattern is the lexical form of a date literal: four digit year, two digit
// month, two digit day. It does not check calendar ranges.
const Pattern = `[0-9]{4}-[0-9]{2}-[0-9]{2}`

var literalRe = regexp.MustCompile(`^` + Pattern + `$`)

// ErrInvalid is returned when a literal is malformed or names a day that does
// not exist on the calendar (2020-13-40, 2021-02-29).
var ErrInvalid = errors.New("invalid date")

// Date is a calendar date without time or timezone.
type Date struct {
	time.Time
}

// New creates a Date from year, month, day.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns today's date in the local timezone.
func Today() Date {
	return Of(time.Now())
}

// Of truncates t to its calendar date.
func Of(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// IsLiteral reports whether s has the lexical shape of a date literal.
func IsLiteral(s string) bool {
	return literalRe.MatchString(s)
}

// Parse converts a YYYY-MM-DD literal into a Date. Literals with the right
// digit counts but impossible values fail here rather than being normalized.
func Parse(s string) (Date, error) {
	if !IsLiteral(s) {
		return Date{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalid, s)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w %q: not a calendar date", ErrInvalid, s)
	}
	return Date{t}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(layout)
}

// Equal reports whether two dates name the same day.
func (d Date) Equal(o Date) bool {
	return d.Year() == o.Year() && d.YearDay() == o.YearDay()
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.v3 Unmarshaler.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := Parse(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
