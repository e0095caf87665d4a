package cli

import (
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List source domains with indexed content",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	sources, err := monitorService.Sources(cmd.Context())
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		cmd.Println("No sources indexed yet.")
		return nil
	}

	for _, s := range sources {
		cmd.Printf("  %s\n", s)
	}
	return nil
}
