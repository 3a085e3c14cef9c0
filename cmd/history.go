package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
	"github.com/twiced-technology-gmbh/tada/internal/output"
	"github.com/twiced-technology-gmbh/tada/internal/query"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"log"},
	Short:   "Show recent changes",
	Long:    `Shows the most recent entries of the activity log kept next to the config.`,
	Args:    cobra.NoArgs,
	RunE:    runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "number of entries (0 for all)") //nolint:mnd // default page size
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	entries, err := query.ReadLog(cfg.ActivityPath(), limit)
	if err != nil {
		return clierr.Wrap(clierr.InternalError, err)
	}

	if outputFormat() == output.FormatJSON {
		if entries == nil {
			entries = []query.LogEntry{}
		}
		return output.JSON(os.Stdout, entries)
	}
	output.LogTable(os.Stdout, entries)
	return nil
}
