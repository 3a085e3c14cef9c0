// Package cmd implements the tada CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
	"github.com/twiced-technology-gmbh/tada/internal/config"
	"github.com/twiced-technology-gmbh/tada/internal/date"
	"github.com/twiced-technology-gmbh/tada/internal/filelock"
	"github.com/twiced-technology-gmbh/tada/internal/logging"
	"github.com/twiced-technology-gmbh/tada/internal/output"
	"github.com/twiced-technology-gmbh/tada/internal/query"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON     bool
	flagTable    bool
	flagCompact  bool
	flagDir      string
	flagFile     string
	flagNoColor  bool
	flagLogLevel string
)

// logger is replaced once flags and config are known.
var logger = logging.Discard()

// today is replaced in tests.
var today = date.Today

// errUnchanged tells updateTodo to skip the save.
var errUnchanged = errors.New("unchanged")

var rootCmd = &cobra.Command{
	Use:   "tada",
	Short: "Manage a todo.txt file from the terminal",
	Long: `tada reads and writes todo.txt files. Tasks are addressed by their line number.
Run tada without a command to open the interactive list.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Args:          cobra.NoArgs,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
		logger = logging.FromConfig(flagLogLevel, config.DefaultLogFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "raw todo.txt lines prefixed with their line number")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "directory holding "+config.ConfigFileName)
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "todo file (overrides todo_file from config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"diagnostic log level (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// Handle SilentError: exit with code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// resolveDir returns the directory whose config applies.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return config.FindDir(cwd)
}

// loadConfig finds and loads the config, applies --file and sets up the
// logger. With --file and no config anywhere, defaults are used with the
// todo file's directory as the base.
func loadConfig() (*config.Config, error) {
	cfg, err := findConfig()
	if err != nil {
		return nil, err
	}
	if flagFile != "" {
		abs, err := filepath.Abs(flagFile)
		if err != nil {
			return nil, fmt.Errorf("resolving path: %w", err)
		}
		cfg.TodoFile = abs
	}

	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logger = logging.FromConfig(level, cfg.Log.Format)
	logger.Debug("config loaded", "dir", cfg.Dir(), "todo", cfg.TodoPath())
	return cfg, nil
}

func findConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		if flagFile == "" || !errors.Is(err, config.ErrNotFound) {
			return nil, err
		}
		abs, absErr := filepath.Abs(filepath.Dir(flagFile))
		if absErr != nil {
			return nil, fmt.Errorf("resolving path: %w", absErr)
		}
		cfg := config.NewDefault()
		cfg.SetDir(abs)
		return cfg, nil
	}

	cfg, err := config.Load(dir)
	switch {
	case errors.Is(err, config.ErrNotFound):
		return nil, clierr.Newf(clierr.FileNotFound, "no %s in %s (run 'tada init')", config.ConfigFileName, dir).
			WithDetails(map[string]any{"dir": dir}).
			WithCause(err)
	case errors.Is(err, config.ErrInvalid):
		return nil, clierr.Wrap(clierr.InvalidInput, err)
	case err != nil:
		return nil, err
	}
	return cfg, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// printWarnings logs lines that were kept verbatim because they did not parse.
func printWarnings(warnings []task.ReadWarning) {
	for _, w := range warnings {
		logger.Warn("skipping malformed line", "line", w.Line, "err", w.Err)
	}
}

// logActivity appends an entry to the activity log. Errors are silently
// discarded because logging should never fail a command.
func logActivity(cfg *config.Config, action string, line int, detail string) {
	query.LogMutation(cfg.ActivityPath(), action, line, detail)
}

// openTodo reads the todo file without taking the lock.
func openTodo(cfg *config.Config) (*task.File, error) {
	f, warnings, err := task.Open(cfg.TodoPath())
	if err != nil {
		return nil, clierr.Wrap(clierr.InternalError, err)
	}
	printWarnings(warnings)
	return f, nil
}

// updateTodo runs fn on the todo file under its lock and saves the result.
// fn returning errUnchanged skips the save.
func updateTodo(cfg *config.Config, fn func(*task.File) error) error {
	path := cfg.TodoPath()
	return filelock.With(path, func() error {
		f, err := openTodo(cfg)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			if errors.Is(err, errUnchanged) {
				return nil
			}
			return err
		}
		logger.Debug("saving todo file", "path", path, "lines", f.Len())
		if err := f.Save(); err != nil {
			return clierr.Wrap(clierr.InternalError, err)
		}
		return nil
	})
}

// parseLines splits a comma-separated line list into deduplicated numbers.
func parseLines(arg string) ([]int, error) {
	return query.ParseLines(arg)
}

// lineFunc changes the task on one line of f and returns the new task.
type lineFunc func(f *task.File, line int) (*task.Task, error)

// batch describes a per-line mutation.
type batch struct {
	action string   // activity log action
	verb   string   // past tense for messages
	apply  lineFunc // run once per line
	// finish runs after all lines, before the save, with the lines that
	// succeeded.
	finish func(f *task.File, done []task.Item) error
}

// runBatch applies b to each line under one lock and one save, logs the
// successes and reports the outcome. A single line reports its own error;
// several lines produce per-line results and a SilentError with exit code 1
// if any failed.
func runBatch(cfg *config.Config, lines []int, b batch) error {
	results := make([]output.BatchResult, 0, len(lines))
	errs := make([]error, 0, len(lines))
	var done []task.Item

	err := updateTodo(cfg, func(f *task.File) error {
		for _, n := range lines {
			t, err := b.apply(f, n)
			errs = append(errs, err)
			if err != nil {
				results = append(results, failedResult(n, err))
				continue
			}
			done = append(done, task.Item{Line: n, Task: t})
			results = append(results, output.BatchResult{Line: n, OK: true, Content: t.Content()})
		}
		if len(done) == 0 {
			return errUnchanged
		}
		if b.finish != nil {
			return b.finish(f, done)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, it := range done {
		logActivity(cfg, b.action, it.Line, it.Task.Content())
	}

	if len(lines) == 1 {
		if errs[0] != nil {
			return errs[0]
		}
		return printChanged(b.verb, done[0])
	}
	return printBatch(results)
}

func failedResult(line int, err error) output.BatchResult {
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		return output.BatchResult{Line: line, OK: false, Error: cliErr.Message, Code: cliErr.Code}
	}
	return output.BatchResult{Line: line, OK: false, Error: err.Error()}
}

// printChanged reports a single changed line.
func printChanged(verb string, it task.Item) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, it)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, []task.Item{it})
	default:
		output.Messagef(os.Stdout, "%s line %d: %s", verb, it.Line, it.Task.Content())
	}
	return nil
}

func printBatch(results []output.BatchResult) error {
	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: line %d: %s\n", r.Line, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(results))
	}

	if slices.ContainsFunc(results, func(r output.BatchResult) bool { return !r.OK }) {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}

// taskOnLine returns the task on line n of f or a TASK_NOT_FOUND error.
func taskOnLine(f *task.File, n int) (*task.Task, error) {
	t, ok := f.Get(n)
	if !ok {
		return nil, task.LineNotFound(n)
	}
	return t, nil
}

// completePolicy reads the configured priority policy for completion.
func completePolicy(cfg *config.Config) (task.PriorityPolicy, error) {
	p, err := task.ParsePriorityPolicy(cfg.Defaults.CompletePriority)
	if err != nil {
		return "", clierr.Wrap(clierr.InvalidInput, err)
	}
	return p, nil
}

