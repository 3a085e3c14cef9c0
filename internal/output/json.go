package output

import (
	"encoding/json"
	"fmt"
	"io"
)

func newEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc
}

// JSON writes v as indented JSON. Task text is written as-is, so "<" and
// "&" in descriptions are not escaped.
func JSON(w io.Writer, v any) error {
	if err := newEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the envelope printed for a failed command in JSON mode.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes an ErrorResponse. Write failures are ignored; the exit
// code still reports the error.
func JSONError(w io.Writer, code, msg string, details map[string]any) {
	_ = newEncoder(w).Encode(ErrorResponse{Error: msg, Code: code, Details: details})
}

// BatchResult is the outcome for one line of a multi-line mutation.
type BatchResult struct {
	Line    int    `json:"line"`
	OK      bool   `json:"ok"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}
