package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var monitorNotes string

var monitorCmd = &cobra.Command{
	Use:   "monitor [url]",
	Short: "Monitor a documentation URL",
	Long: `Registers a documentation URL for change monitoring, crawls it and
indexes version 1 of its content.

The crawl strategy is chosen from the URL and content: OpenAPI specs
are rendered per endpoint, sitemaps are expanded, markdown and text
files are fetched directly and everything else is crawled as a
website.`,
	Args: cobra.ExactArgs(1),
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorNotes, "notes", "", "free-form notes stored with the monitor entry")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	result := monitorService.Monitor(cmd.Context(), args[0], monitorNotes)

	if !result.Success {
		return errors.New(result.Error)
	}

	cmd.Printf("Monitoring %s (%s)\n", result.URL, result.CrawlType)
	cmd.Printf("  Pages crawled: %d\n", result.PagesCrawled)
	cmd.Printf("  Chunks stored: %d\n", result.ChunksStored)
	if result.Message != "" {
		cmd.Printf("  %s\n", result.Message)
	}
	return nil
}
