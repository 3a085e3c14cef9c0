package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
	"github.com/twiced-technology-gmbh/tada/internal/config"
	"github.com/twiced-technology-gmbh/tada/internal/output"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

var addCmd = &cobra.Command{
	Use:     "add TEXT...",
	Aliases: []string{"a"},
	Short:   "Add a task",
	Long: `Appends a task to the todo file and prints its line number.

TEXT is parsed as a todo.txt line, so "(A) call mom +family" works as well as
--priority A. A creation date is added when defaults.add_creation_date is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringP("priority", "p", "", "priority letter (default from config)")
	addCmd.Flags().String("created", "", "creation date (YYYY-MM-DD or today)")
	addCmd.Flags().Bool("no-date", false, "do not add a creation date")
	addCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "pri":
			name = "priority"
		case "date":
			name = "created"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	t, err := newTaskFromArgs(cmd, cfg, strings.Join(args, " "))
	if err != nil {
		return err
	}

	var line int
	err = updateTodo(cfg, func(f *task.File) error {
		line = f.Append(t)
		return nil
	})
	if err != nil {
		return err
	}

	logActivity(cfg, "add", line, t.Content())
	it := task.Item{Line: line, Task: t}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, it)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, []task.Item{it})
	default:
		output.Messagef(os.Stdout, "Added line %d: %s", line, t.Content())
	}
	return nil
}

// newTaskFromArgs parses text and applies the add flags and config defaults.
func newTaskFromArgs(cmd *cobra.Command, cfg *config.Config, text string) (*task.Task, error) {
	t, err := task.Parse(text)
	if err != nil {
		return nil, task.ParseFailure(text, err)
	}

	var opts []task.Option

	priority, _ := cmd.Flags().GetString("priority")
	if priority == "" && !t.HasPriority() {
		priority = cfg.Defaults.Priority
	}
	if priority != "" {
		p, err := task.NormalizePriority(priority)
		if err != nil {
			return nil, err
		}
		opts = append(opts, task.WithPriority(p))
	}

	noDate, _ := cmd.Flags().GetBool("no-date")
	switch created, _ := cmd.Flags().GetString("created"); {
	case created != "":
		d, err := task.ParseDateFlag("created", created, today())
		if err != nil {
			return nil, err
		}
		opts = append(opts, task.WithCreationDate(d))
	case cfg.Defaults.AddCreationDate && !noDate && !t.HasCreationDate():
		opts = append(opts, task.WithCreationDate(today()))
	}

	out, err := t.With(opts...)
	if err != nil {
		return nil, taskError(text, err)
	}
	return out, nil
}

// taskError converts a builder failure into a CLI error.
func taskError(text string, err error) error {
	switch {
	case errors.Is(err, task.ErrAmbiguousDescription):
		return task.AmbiguousDescription(text, err)
	case errors.Is(err, task.ErrInvalidPriority):
		return clierr.Wrap(clierr.InvalidPriority, err)
	default:
		return task.ParseFailure(text, err)
	}
}
