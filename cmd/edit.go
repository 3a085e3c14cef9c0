package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

var editCmd = &cobra.Command{
	Use:     "edit LINE TEXT...",
	Aliases: []string{"replace"},
	Short:   "Replace the text of a task",
	Long: `Replaces a whole line with TEXT, parsed as a todo.txt line.

With --keep-dates the creation and completion dates of the old line are kept
when TEXT has none of its own.`,
	Args: cobra.MinimumNArgs(2), //nolint:mnd // line and text
	RunE: runEdit,
}

func init() {
	editCmd.Flags().Bool("keep-dates", false, "keep the old dates when TEXT has none")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	line, err := task.ValidateLineNumber(args[0])
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")
	next, err := task.Parse(text)
	if err != nil {
		return task.ParseFailure(text, err)
	}
	keepDates, _ := cmd.Flags().GetBool("keep-dates")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return runBatch(cfg, []int{line}, batch{
		action: "edit",
		verb:   "Replaced",
		apply: func(f *task.File, n int) (*task.Task, error) {
			old, err := taskOnLine(f, n)
			if err != nil {
				return nil, err
			}
			out := next
			if keepDates && !next.HasCreationDate() {
				out, err = carryDates(old, next)
				if err != nil {
					return nil, taskError(text, err)
				}
			}
			if out.Equal(old) {
				return nil, clierr.Newf(clierr.NoChanges, "line %d already reads %q", n, old.Content()).
					WithDetails(map[string]any{"line": n})
			}
			return out, f.Set(n, out)
		},
	})
}

// carryDates copies the dates of old onto next.
func carryDates(old, next *task.Task) (*task.Task, error) {
	var opts []task.Option
	if d, ok := old.CreationDate(); ok {
		opts = append(opts, task.WithCreationDate(d))
	}
	if d, ok := old.CompletionDate(); ok && next.Completed() {
		opts = append(opts, task.WithCompletionDate(d))
	}
	return next.With(opts...)
}
