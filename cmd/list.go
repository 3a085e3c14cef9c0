package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
	"github.com/twiced-technology-gmbh/tada/internal/config"
	"github.com/twiced-technology-gmbh/tada/internal/output"
	"github.com/twiced-technology-gmbh/tada/internal/query"
	"github.com/twiced-technology-gmbh/tada/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list [TERM...]",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists tasks with optional filtering, sorting, and output format control.
Every TERM must appear in the line (case-insensitive).`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringSlice("project", nil, "filter by project (comma-separated, all must match)")
	listCmd.Flags().StringSlice("context", nil, "filter by context (comma-separated, all must match)")
	listCmd.Flags().StringSlice("priority", nil, "filter by priority (comma-separated, any matches)")
	listCmd.Flags().Bool("completed", false, "show only completed tasks")
	listCmd.Flags().Bool("pending", false, "show only pending tasks")
	listCmd.Flags().StringArray("key", nil, "filter by key:value tag (KEY or KEY=VALUE, repeatable)")
	listCmd.Flags().String("due-before", "", "show only tasks due before a date (YYYY-MM-DD or today)")
	listCmd.Flags().String("sort", "", "sort field ("+strings.Join(config.SortKeys, ", ")+"; default from config)")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	listCmd.Flags().String("group-by", "", "group results by field ("+strings.Join(query.ValidGroupByFields(), ", ")+")")
	listCmd.Flags().String("format", "", "Go template per task, e.g. '{{.Priority}} {{.Description}}'")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts, err := listOptions(cmd, cfg, args)
	if err != nil {
		return err
	}
	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" && !slices.Contains(query.ValidGroupByFields(), groupBy) {
		return clierr.Newf(clierr.InvalidGroupBy, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(query.ValidGroupByFields(), ", "))
	}
	layout, _ := cmd.Flags().GetString("format")
	var formatter *task.Formatter
	if layout != "" {
		formatter, err = task.CompileFormat(layout)
		if err != nil {
			return clierr.Wrap(clierr.InvalidFormat, err).WithDetails(map[string]any{"format": layout})
		}
	}

	f, err := openTodo(cfg)
	if err != nil {
		return err
	}
	items := query.List(f.Items(), opts)
	logger.Debug("listed", "matched", len(items), "total", len(f.Items()))

	switch {
	case formatter != nil:
		return outputFormatted(items, formatter)
	case groupBy != "":
		return outputGroupedList(items, groupBy)
	}
	return outputTaskList(items)
}

// listOptions turns list flags and search terms into query options.
func listOptions(cmd *cobra.Command, cfg *config.Config, terms []string) (query.ListOptions, error) {
	projects, _ := cmd.Flags().GetStringSlice("project")
	contexts, _ := cmd.Flags().GetStringSlice("context")
	priorities, _ := cmd.Flags().GetStringSlice("priority")
	completed, _ := cmd.Flags().GetBool("completed")
	pending, _ := cmd.Flags().GetBool("pending")
	keys, _ := cmd.Flags().GetStringArray("key")
	dueBefore, _ := cmd.Flags().GetString("due-before")
	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")

	if completed && pending {
		return query.ListOptions{}, clierr.New(clierr.InvalidInput, "cannot use --completed and --pending together")
	}

	filter := query.FilterOptions{
		Projects: trimSigils(projects, "+"),
		Contexts: trimSigils(contexts, "@"),
		Search:   terms,
	}
	for _, p := range priorities {
		n, err := task.NormalizePriority(p)
		if err != nil {
			return query.ListOptions{}, err
		}
		filter.Priorities = append(filter.Priorities, n)
	}
	if completed || pending {
		filter.Completed = &completed
	}
	if len(keys) > 0 {
		filter.Keys = make(map[string]string, len(keys))
		for _, kv := range keys {
			k, v, _ := strings.Cut(kv, "=")
			if k == "" {
				return query.ListOptions{}, clierr.Newf(clierr.InvalidInput, "invalid --key %q (expected KEY or KEY=VALUE)", kv)
			}
			filter.Keys[k] = v
		}
	}
	if dueBefore != "" {
		d, err := task.ParseDateFlag("due-before", dueBefore, today())
		if err != nil {
			return query.ListOptions{}, err
		}
		filter.DueBefore = &d
	}

	if sortBy == "" {
		sortBy = cfg.Sort
	}
	if !slices.Contains(config.SortKeys, sortBy) {
		return query.ListOptions{}, clierr.Newf(clierr.InvalidSort, "invalid --sort field %q; valid: %s",
			sortBy, strings.Join(config.SortKeys, ", "))
	}

	return query.ListOptions{Filter: filter, SortBy: sortBy, Reverse: reverse, Limit: limit}, nil
}

func trimSigils(names []string, sigil string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.TrimPrefix(n, sigil)
	}
	return out
}

func outputFormatted(items []task.Item, f *task.Formatter) error {
	for _, it := range items {
		s, err := f.Render(it.Task)
		if err != nil {
			return clierr.Wrap(clierr.InvalidFormat, err).WithDetails(map[string]any{"line": it.Line})
		}
		fmt.Fprintln(os.Stdout, s)
	}
	return nil
}

func outputGroupedList(items []task.Item, groupBy string) error {
	grouped := query.GroupBy(items, groupBy)
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, grouped)
	case output.FormatCompact:
		output.GroupedCompact(os.Stdout, grouped)
		return nil
	}
	output.GroupedTable(os.Stdout, grouped)
	return nil
}

func outputTaskList(items []task.Item) error {
	format := outputFormat()
	if format == output.FormatJSON {
		if items == nil {
			items = []task.Item{}
		}
		return output.JSON(os.Stdout, items)
	}
	if format == output.FormatCompact {
		output.TaskCompact(os.Stdout, items)
		return nil
	}

	output.TaskTable(os.Stdout, items)
	return nil
}
