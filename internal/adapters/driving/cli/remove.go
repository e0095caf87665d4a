package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [url]",
	Short: "Stop monitoring a documentation URL",
	Long: `Stops monitoring a URL. Stored content and change history are kept;
the document is simply no longer checked for changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	result := monitorService.Remove(cmd.Context(), args[0])

	if !result.Success {
		return errors.New(result.Error)
	}

	cmd.Printf("Stopped monitoring %s\n", result.URL)
	if result.Message != "" {
		cmd.Printf("  %s\n", result.Message)
	}
	return nil
}
