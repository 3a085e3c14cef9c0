package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tada/internal/output"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Move completed tasks to the done file",
	Long: `Moves every completed task from the todo file to the end of the done file
(done_file in the config).`,
	Args: cobra.NoArgs,
	RunE: runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var moved []task.Item
	err = updateTodo(cfg, func(f *task.File) error {
		var lines []int
		for _, it := range f.Items() {
			if it.Task.Completed() {
				lines = append(lines, it.Line)
			}
		}
		if len(lines) == 0 {
			return errUnchanged
		}
		moved, err = archiveLines(cfg, f, lines)
		return err
	})
	if err != nil {
		return err
	}

	for _, it := range moved {
		logActivity(cfg, "archive", it.Line, it.Task.Content())
	}

	switch outputFormat() {
	case output.FormatJSON:
		if moved == nil {
			moved = []task.Item{}
		}
		return output.JSON(os.Stdout, map[string]any{
			"done_file": cfg.DonePath(),
			"archived":  moved,
		})
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, moved)
	default:
		output.Messagef(os.Stdout, "Archived %d tasks to %s", len(moved), cfg.DonePath())
	}
	return nil
}
