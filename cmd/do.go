package cmd

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
	"github.com/twiced-technology-gmbh/tada/internal/config"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

var doCmd = &cobra.Command{
	Use:   "do LINE[,LINE,...]",
	Short: "Mark tasks as completed",
	Long: `Marks tasks as completed. A completion date is added when the task has a
creation date. defaults.complete_priority decides what happens to the priority
(keep, drop, or tag as pri:X). With auto_archive set, completed tasks move to
the done file.`,
	Args: cobra.ExactArgs(1),
	RunE: runDo,
}

var undoCmd = &cobra.Command{
	Use:   "undo LINE[,LINE,...]",
	Short: "Reopen completed tasks",
	Long: `Removes the completion marker and date. A priority kept in a pri:X tag is
restored.`,
	Args: cobra.ExactArgs(1),
	RunE: runUndo,
}

func init() {
	rootCmd.AddCommand(doCmd)
	rootCmd.AddCommand(undoCmd)
}

func runDo(_ *cobra.Command, args []string) error {
	lines, err := parseLines(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	policy, err := completePolicy(cfg)
	if err != nil {
		return err
	}

	b := batch{
		action: "do",
		verb:   "Completed",
		apply: func(f *task.File, n int) (*task.Task, error) {
			t, err := taskOnLine(f, n)
			if err != nil {
				return nil, err
			}
			if t.Completed() {
				return nil, clierr.Newf(clierr.NoChanges, "line %d is already completed", n).
					WithDetails(map[string]any{"line": n})
			}
			done, err := task.Complete(t, today(), policy)
			if err != nil {
				return nil, taskError(t.Content(), err)
			}
			return done, f.Set(n, done)
		},
	}
	if cfg.AutoArchive {
		b.finish = func(f *task.File, done []task.Item) error {
			_, err := archiveLines(cfg, f, itemLines(done))
			return err
		}
	}
	return runBatch(cfg, lines, b)
}

func runUndo(_ *cobra.Command, args []string) error {
	lines, err := parseLines(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return runBatch(cfg, lines, batch{
		action: "undo",
		verb:   "Reopened",
		apply: func(f *task.File, n int) (*task.Task, error) {
			t, err := taskOnLine(f, n)
			if err != nil {
				return nil, err
			}
			if !t.Completed() {
				return nil, clierr.Newf(clierr.NoChanges, "line %d is not completed", n).
					WithDetails(map[string]any{"line": n})
			}
			open, err := task.Reopen(t)
			if err != nil {
				return nil, taskError(t.Content(), err)
			}
			return open, f.Set(n, open)
		},
	})
}

func itemLines(items []task.Item) []int {
	lines := make([]int, len(items))
	for i, it := range items {
		lines[i] = it.Line
	}
	return lines
}

// archiveLines moves the given lines of f to the done file. Lines are
// removed bottom-up so earlier numbers stay valid. The done file is written
// before f is saved.
func archiveLines(cfg *config.Config, f *task.File, lines []int) ([]task.Item, error) {
	sorted := slices.Clone(lines)
	slices.Sort(sorted)

	moved := make([]task.Item, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		n := sorted[i]
		t, err := f.Remove(n, cfg.PreserveLineNumbers)
		if err != nil {
			return nil, task.LineNotFound(n)
		}
		moved = append(moved, task.Item{Line: n, Task: t})
	}
	slices.Reverse(moved)

	tasks := make([]*task.Task, len(moved))
	for i, it := range moved {
		tasks[i] = it.Task
	}
	if err := task.AppendTo(cfg.DonePath(), tasks...); err != nil {
		return nil, clierr.Wrap(clierr.InternalError, err)
	}
	logger.Debug("archived", "tasks", len(moved), "done", cfg.DonePath())
	return moved, nil
}
