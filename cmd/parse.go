package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

var parseCmd = &cobra.Command{
	Use:   "parse [LINE...]",
	Short: "Parse todo.txt text without touching any file",
	Long: `Parses the arguments, joined by spaces, as one todo.txt line and prints its
fields. Without arguments every line of standard input is parsed.`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		text := strings.Join(args, " ")
		t, err := task.Parse(text)
		if err != nil {
			return task.ParseFailure(text, err)
		}
		return outputDetail(task.Item{Task: t})
	}
	return parseStream(cmd.InOrStdin())
}

// parseStream parses every line of r. The first bad line aborts with its
// line number in the error details.
func parseStream(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return clierr.Wrap(clierr.InternalError, fmt.Errorf("reading input: %w", err))
	}
	items, err := task.ReadAll(strings.NewReader(string(data)))
	if err != nil {
		var lineErr *task.LineError
		raw := ""
		if errors.As(err, &lineErr) {
			raw = lineErr.Raw
		}
		return task.ParseFailure(raw, err)
	}
	logger.Debug("parsed input", "tasks", len(items))
	return outputTaskList(items)
}
