package cli

import (
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [url]",
	Short: "Show the change history for a monitored URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	records, err := monitorService.History(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if len(records) == 0 {
		cmd.Printf("No change history for %s\n", args[0])
		return nil
	}

	cmd.Printf("%d %s for %s\n\n", len(records), pluralize(len(records), "version", "versions"), args[0])
	for _, rec := range records {
		cmd.Printf("  v%d  %s  [%s/%s]\n", rec.Version, rec.CreatedAt.Format("2006-01-02 15:04"), rec.Type, rec.Impact)
		cmd.Printf("      %s\n", rec.Summary)
	}
	return nil
}
