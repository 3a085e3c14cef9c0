package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tada/internal/output"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show LINE",
	Short: "Show task details",
	Long:  `Displays every field of the task on one line, including its tags.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	line, err := task.ValidateLineNumber(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := openTodo(cfg)
	if err != nil {
		return err
	}
	t, err := taskOnLine(f, line)
	if err != nil {
		return err
	}

	return outputDetail(task.Item{Line: line, Task: t})
}

// outputDetail prints one task in the selected format.
func outputDetail(it task.Item) error {
	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, it)
	}
	if format == output.FormatCompact {
		output.TaskDetailCompact(os.Stdout, it)
		return nil
	}

	output.TaskDetail(os.Stdout, it)
	return nil
}
