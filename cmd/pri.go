package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

var priCmd = &cobra.Command{
	Use:     "pri LINE[,LINE,...] PRIORITY",
	Aliases: []string{"p"},
	Short:   "Set the priority of tasks",
	Args:    cobra.ExactArgs(2), //nolint:mnd // lines and priority
	RunE:    runPri,
}

var depriCmd = &cobra.Command{
	Use:     "depri LINE[,LINE,...]",
	Aliases: []string{"dp"},
	Short:   "Remove the priority of tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runDepri,
}

func init() {
	rootCmd.AddCommand(priCmd)
	rootCmd.AddCommand(depriCmd)
}

func runPri(_ *cobra.Command, args []string) error {
	lines, err := parseLines(args[0])
	if err != nil {
		return err
	}
	p, err := task.NormalizePriority(args[1])
	if err != nil {
		return err
	}
	return reprioritize(lines, p, "pri", "Prioritized")
}

func runDepri(_ *cobra.Command, args []string) error {
	lines, err := parseLines(args[0])
	if err != nil {
		return err
	}
	return reprioritize(lines, "", "depri", "Deprioritized")
}

func reprioritize(lines []int, p, action, verb string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return runBatch(cfg, lines, batch{
		action: action,
		verb:   verb,
		apply: func(f *task.File, n int) (*task.Task, error) {
			t, err := taskOnLine(f, n)
			if err != nil {
				return nil, err
			}
			if t.Priority() == p {
				return nil, clierr.Newf(clierr.NoChanges, "line %d already has priority %q", n, p).
					WithDetails(map[string]any{"line": n, "priority": p})
			}
			next, err := task.Reprioritize(t, p)
			if err != nil {
				return nil, taskError(t.Content(), err)
			}
			return next, f.Set(n, next)
		},
	})
}
