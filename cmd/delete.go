package cmd

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "delete LINE[,LINE,...]",
	Aliases: []string{"rm", "del"},
	Short:   "Delete tasks",
	Long: `Removes tasks from the todo file. Prompts for confirmation in interactive mode.
With preserve_line_numbers set the line is blanked so later line numbers do not
shift. Multiple lines can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	lines, err := parseLines(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")

	// Batch mode requires --yes.
	if len(lines) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq, "batch delete requires --yes")
	}

	if !yes {
		f, err := openTodo(cfg)
		if err != nil {
			return err
		}
		t, err := taskOnLine(f, lines[0])
		if err != nil {
			return err
		}
		ok, err := confirmDelete(lines[0], t)
		if err != nil || !ok {
			return err
		}
	}

	// Remove bottom-up so the numbers of pending lines stay valid.
	sorted := slices.Clone(lines)
	slices.Sort(sorted)
	slices.Reverse(sorted)

	return runBatch(cfg, sorted, batch{
		action: "delete",
		verb:   "Deleted",
		apply: func(f *task.File, n int) (*task.Task, error) {
			t, err := f.Remove(n, cfg.PreserveLineNumbers)
			if err != nil {
				return nil, task.LineNotFound(n)
			}
			return t, nil
		},
	})
}

// confirmDelete asks on the terminal. It refuses to guess when stdin is not
// a terminal.
func confirmDelete(line int, t *task.Task) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}
	fmt.Fprintf(os.Stderr, "Delete line %d %q? [y/N] ", line, t.Content())
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(os.Stderr, "Canceled.")
		return false, nil
	}
	return true, nil
}
