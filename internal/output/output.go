// Package output renders command results as tables, JSON, raw todo.txt
// lines or markdown.
package output

import (
	"os"
	"strings"
)

// EnvFormat selects the default output format when no flag is given.
const EnvFormat = "TADA_OUTPUT"

// Format represents an output format.
type Format int

const (
	// FormatAuto means no format was chosen; it renders as a table.
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs raw todo.txt lines prefixed with their line number.
	FormatCompact
)

// envFormats maps TADA_OUTPUT values to formats. "raw" and "oneline"
// are accepted for compact.
var envFormats = map[string]Format{
	"json":    FormatJSON,
	"table":   FormatTable,
	"compact": FormatCompact,
	"oneline": FormatCompact,
	"raw":     FormatCompact,
}

// Detect picks the format from the flags, then TADA_OUTPUT, then falls
// back to a table. --json wins over --compact, which wins over --table.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}
	if f, ok := envFormats[strings.ToLower(os.Getenv(EnvFormat))]; ok {
		return f
	}
	return FormatTable
}
