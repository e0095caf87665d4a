package cli

import (
	"errors"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [url]",
	Short: "Check a monitored URL for changes",
	Long: `Re-fetches a monitored URL and compares it against the last stored
version. When the content diverged, a new version is stored together
with a change record and its impact analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var checkAllCmd = &cobra.Command{
	Use:   "check-all",
	Short: "Check every monitored URL for changes",
	RunE:  runCheckAll,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(checkAllCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	result := trackerService.CheckAndUpdate(cmd.Context(), args[0])

	if !result.Success {
		return errors.New(result.Error)
	}

	printCheckResult(cmd, result)
	return nil
}

func runCheckAll(cmd *cobra.Command, args []string) error {
	result := trackerService.CheckAll(cmd.Context())

	if !result.Success {
		return errors.New(result.Error)
	}

	cmd.Printf("Checked %d %s\n", result.TotalURLsChecked, pluralize(result.TotalURLsChecked, "URL", "URLs"))
	for _, r := range result.Results {
		if !r.Success {
			cmd.Printf("\n%s\n  Error: %s\n", r.URL, r.Error)
			continue
		}
		cmd.Println()
		printCheckResult(cmd, r)
	}
	return nil
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

func printCheckResult(cmd *cobra.Command, r domain.CheckResult) {
	cmd.Printf("%s\n", r.URL)

	if r.ChangesFound == 0 {
		if r.Message != "" {
			cmd.Printf("  %s\n", r.Message)
		}
		if r.CurrentVersion > 0 {
			cmd.Printf("  Current version: %d\n", r.CurrentVersion)
		}
		return
	}

	cmd.Printf("  Version %d -> %d, %d %s\n",
		r.OldVersion, r.NewVersion,
		r.ChangesFound, pluralize(r.ChangesFound, "change", "changes"))
	for _, c := range r.Changes {
		cmd.Printf("  [%s/%s] %s\n", c.Type, c.Analysis.Severity, c.Summary)
		for _, rec := range c.Analysis.Recommendations {
			cmd.Printf("    - %s\n", rec)
		}
	}
}
