package cli

import (
	"encoding/json"
	"strings"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
	"github.com/spf13/cobra"
)

var (
	searchLimit     int
	searchSource    string
	searchEndpoint  string
	searchMethod    string
	searchThreshold float64
	searchRerank    bool
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documentation",
	Long: `Runs a hybrid search (vector similarity plus keyword matching) over
all indexed documentation chunks. Results can be filtered by source
domain, API endpoint path and HTTP method.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().StringVar(&searchSource, "source", "", "filter by source domain")
	searchCmd.Flags().StringVar(&searchEndpoint, "endpoint", "", "filter by API endpoint path")
	searchCmd.Flags().StringVar(&searchMethod, "method", "", "filter by HTTP method")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", 0, "minimum vector similarity (0-1)")
	searchCmd.Flags().BoolVar(&searchRerank, "rerank", true, "rerank combined results heuristically")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	opts := domain.SearchOptions{
		MatchCount:          searchLimit,
		SimilarityThreshold: searchThreshold,
		Rerank:              searchRerank,
		Filter: domain.SearchFilter{
			Source: searchSource,
			Path:   searchEndpoint,
			Method: strings.ToUpper(searchMethod),
		},
	}

	results := retrievalService.Search(cmd.Context(), args[0], opts)

	if searchJSON {
		return printSearchJSON(cmd, results)
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Found %d %s\n\n", len(results), pluralize(len(results), "result", "results"))
	for i, r := range results {
		score := r.Similarity
		if r.Reranked {
			score = r.RerankScore
		}
		cmd.Printf("  [%d] %s#%d (%.2f)\n", i+1, r.URL, r.ChunkIndex, score)
		if r.Metadata.Headers != "" {
			cmd.Printf("      %s\n", r.Metadata.Headers)
		}
		cmd.Printf("      %s\n", excerpt(r.Content, 200))
	}
	return nil
}

type searchResultJSON struct {
	URL         string  `json:"url"`
	ChunkIndex  int     `json:"chunk_index"`
	Content     string  `json:"content"`
	Headers     string  `json:"headers,omitempty"`
	Section     string  `json:"section,omitempty"`
	Similarity  float64 `json:"similarity"`
	RerankScore float64 `json:"rerank_score,omitempty"`
}

func printSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	out := make([]searchResultJSON, 0, len(results))
	for _, r := range results {
		item := searchResultJSON{
			URL:        r.URL,
			ChunkIndex: r.ChunkIndex,
			Content:    r.Content,
			Headers:    r.Metadata.Headers,
			Section:    r.Metadata.Section,
			Similarity: r.Similarity,
		}
		if r.Reranked {
			item.RerankScore = r.RerankScore
		}
		out = append(out, item)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

func excerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
