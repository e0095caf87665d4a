package cli

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List monitored documentation URLs",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	docs, err := monitorService.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		cmd.Println("No documents are being monitored.")
		return nil
	}

	cmd.Printf("Monitoring %d %s\n\n", len(docs), pluralize(len(docs), "document", "documents"))
	for _, doc := range docs {
		cmd.Printf("  %s (%s)\n", doc.URL, doc.CrawlType)
		cmd.Printf("    Added: %s\n", doc.DateAdded.Format("2006-01-02 15:04"))
		if !doc.LastCrawledAt.IsZero() {
			cmd.Printf("    Last crawled: %s\n", doc.LastCrawledAt.Format("2006-01-02 15:04"))
		}
		if doc.Notes != "" {
			cmd.Printf("    Notes: %s\n", doc.Notes)
		}
	}
	return nil
}
