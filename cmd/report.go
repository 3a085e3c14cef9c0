package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
	"github.com/twiced-technology-gmbh/tada/internal/output"
	"github.com/twiced-technology-gmbh/tada/internal/query"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize the todo file",
	Long: `Prints counts by priority, project and context, then the open tasks grouped
by --group-by. Table output is rendered markdown; --markdown prints the source.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("group-by", "project", "group open tasks by field ("+strings.Join(query.ValidGroupByFields(), ", ")+")")
	reportCmd.Flags().Bool("markdown", false, "print the markdown source instead of rendering it")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	groupBy, _ := cmd.Flags().GetString("group-by")
	if !slices.Contains(query.ValidGroupByFields(), groupBy) {
		return clierr.Newf(clierr.InvalidGroupBy, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(query.ValidGroupByFields(), ", "))
	}
	markdown, _ := cmd.Flags().GetBool("markdown")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f, err := openTodo(cfg)
	if err != nil {
		return err
	}

	items := f.Items()
	ov := query.Summary(cfg.TodoFile, items, today())
	grouped := query.GroupBy(items, groupBy)

	switch {
	case outputFormat() == output.FormatJSON:
		return output.JSON(os.Stdout, map[string]any{"summary": ov, "groups": grouped})
	case outputFormat() == output.FormatCompact:
		output.OverviewCompact(os.Stdout, ov)
		return nil
	case markdown:
		fmt.Fprint(os.Stdout, output.ReportMarkdown(ov, grouped))
		return nil
	}
	return output.Report(os.Stdout, ov, grouped)
}
