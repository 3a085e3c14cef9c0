package task

import (
	"errors"
	"testing"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
	"github.com/twiced-technology-gmbh/tada/internal/date"
)

func TestNormalizePriority(t *testing.T) {
	got, err := NormalizePriority(" b ")
	if err != nil || got != "B" {
		t.Errorf("NormalizePriority(b) = %q, %v", got, err)
	}

	_, err = NormalizePriority("high")
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) || cliErr.Code != clierr.InvalidPriority {
		t.Fatalf("NormalizePriority(high) error = %v", err)
	}
	if !errors.Is(err, ErrInvalidPriority) {
		t.Error("error does not wrap ErrInvalidPriority")
	}
}

func TestValidateLineNumber(t *testing.T) {
	if n, err := ValidateLineNumber("12"); err != nil || n != 12 {
		t.Errorf("ValidateLineNumber(12) = %d, %v", n, err)
	}
	for _, in := range []string{"0", "-3", "abc", ""} {
		if _, err := ValidateLineNumber(in); err == nil {
			t.Errorf("ValidateLineNumber(%q) accepted", in)
		}
	}
}

func TestParseDateFlag(t *testing.T) {
	today := date.Today()
	got, err := ParseDateFlag("due", "TODAY", today)
	if err != nil || !got.Equal(today) {
		t.Errorf("ParseDateFlag(today) = %v, %v", got, err)
	}
	_, err = ParseDateFlag("due", "2020-02-31", today)
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) || cliErr.Code != clierr.InvalidDate {
		t.Errorf("ParseDateFlag(2020-02-31) error = %v", err)
	}
}

func TestParseFailure(t *testing.T) {
	_, dateErr := Parse("2020-02-31 x")
	if got := ParseFailure("2020-02-31 x", dateErr).Code; got != clierr.InvalidDate {
		t.Errorf("date failure code = %s", got)
	}

	_, grammarErr := Parse("a\nb")
	cliErr := ParseFailure("a\nb", grammarErr)
	if cliErr.Code != clierr.ParseError {
		t.Errorf("grammar failure code = %s", cliErr.Code)
	}
	if !errors.Is(cliErr, ErrParse) {
		t.Error("ParseFailure does not wrap ErrParse")
	}

	lineErr := &LineError{Line: 7, Raw: "2020-02-31 x", Err: dateErr}
	if got := ParseFailure(lineErr.Raw, lineErr).Details["line"]; got != 7 {
		t.Errorf("details line = %v", got)
	}
}
