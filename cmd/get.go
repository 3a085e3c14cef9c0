package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tada/internal/output"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

var getCmd = &cobra.Command{
	Use:   "get LINE KEY",
	Short: "Print the value of a key:value tag",
	Long: `Prints the value of the first KEY:VALUE tag on a line. Exits with
KEY_NOT_FOUND when the task has no such key.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // line and key
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(_ *cobra.Command, args []string) error {
	line, err := task.ValidateLineNumber(args[0])
	if err != nil {
		return err
	}
	key := args[1]

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

	value, err := t.ValueForKey(key)
	if err != nil {
		return task.MissingKey(line, key, err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"line": line, "key": key, "value": value})
	}
	fmt.Fprintln(os.Stdout, value)
	return nil
}
