package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
	"github.com/twiced-technology-gmbh/tada/internal/config"
	"github.com/twiced-technology-gmbh/tada/internal/output"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a tada config and an empty todo file",
	Long: `Creates ` + config.ConfigFileName + ` in the current directory (or --dir) together with
an empty todo file. With --global the config goes to the user config directory,
which is used whenever no ` + config.ConfigFileName + ` is found above the working directory.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("global", false, "initialize the user-wide config")
	initCmd.Flags().String("todo-file", "", "todo file name (default "+config.DefaultTodoFile+")")
	initCmd.Flags().String("done-file", "", "done file name (default "+config.DefaultDoneFile+")")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir, err := initDir(cmd)
	if err != nil {
		return err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	// Check if already initialized.
	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.AlreadyExists, "tada already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	cfg, err := config.Init(absDir)
	if err != nil {
		return clierr.Wrap(clierr.InternalError, err)
	}

	todoFile, _ := cmd.Flags().GetString("todo-file")
	doneFile, _ := cmd.Flags().GetString("done-file")
	if todoFile != "" || doneFile != "" {
		if err := customizeFiles(cfg, todoFile, doneFile); err != nil {
			return err
		}
	}
	logActivity(cfg, "init", 0, absDir)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status": "initialized",
			"dir":    absDir,
			"config": cfg.ConfigPath(),
			"todo":   cfg.TodoPath(),
			"done":   cfg.DonePath(),
		})
	}

	output.Messagef(os.Stdout, "Initialized tada in %s", absDir)
	output.Messagef(os.Stdout, "  Config: %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Todo:   %s", cfg.TodoPath())
	output.Messagef(os.Stdout, "  Done:   %s", cfg.DonePath())
	return nil
}

func initDir(cmd *cobra.Command) (string, error) {
	if global, _ := cmd.Flags().GetBool("global"); global {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("locating user config directory: %w", err)
		}
		return filepath.Join(base, config.GlobalDirName), nil
	}
	if flagDir != "" {
		return flagDir, nil
	}
	return ".", nil
}

// customizeFiles renames the todo and done files of a fresh config and
// creates the todo file if it is missing.
func customizeFiles(cfg *config.Config, todoFile, doneFile string) error {
	if todoFile != "" {
		// Drop the empty default file created by config.Init.
		if fi, err := os.Stat(cfg.TodoPath()); err == nil && fi.Size() == 0 {
			_ = os.Remove(cfg.TodoPath())
		}
		cfg.TodoFile = todoFile
	}
	if doneFile != "" {
		cfg.DoneFile = doneFile
	}
	if err := cfg.Validate(); err != nil {
		return clierr.Wrap(clierr.InvalidInput, err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if _, err := os.Stat(cfg.TodoPath()); errors.Is(err, fs.ErrNotExist) {
		f := &task.File{Path: cfg.TodoPath()}
		if err := f.Save(); err != nil {
			return clierr.Wrap(clierr.InternalError, err)
		}
	}
	return nil
}
