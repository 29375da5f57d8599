package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [terms]",
	Short: "Search the document set from the command line",
	Long:  `Loads the document set into the configured index and prints the results the widget would show for the given terms.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().Int("limit", 10, "maximum number of results")
	queryCmd.Flags().String("source", "", "document set location (overrides data_source)")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	queryCmd.Flags().Bool("html", false, "output the rendered result list")
	rootCmd.AddCommand(queryCmd)
}

type queryResult struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Field     string `json:"field,omitempty"`
	Highlight string `json:"highlight,omitempty"`
	Date      string `json:"date,omitempty"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	queryText := strings.Join(args, " ")

	limit, _ := cmd.Flags().GetInt("limit")
	source, _ := cmd.Flags().GetString("source")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	htmlOutput, _ := cmd.Flags().GetBool("html")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	w, closeIndex, err := openWidget(ctx, cfg, source, log, nil)
	if err != nil {
		return err
	}
	defer closeIndex()

	view, err := w.HandleInput(ctx, queryText)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if htmlOutput {
		fmt.Println(view.HTML())
		return nil
	}

	results := view.Results
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if jsonOutput {
		out := make([]queryResult, len(results))
		for i, r := range results {
			out[i] = queryResult{
				URL:       r.Document.URL,
				Title:     r.Document.DisplayTitle(),
				Field:     r.Field,
				Highlight: r.Highlight.Text(),
				Date:      r.Document.Date,
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(view.Results) == 0 {
		if n := w.MinQueryLength(); len([]rune(strings.TrimSpace(queryText))) < n {
			fmt.Printf("Query too short: type at least %d characters.\n", n)
			return nil
		}
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d result(s) for %q:\n\n", len(view.Results), queryText)
	for i, r := range results {
		fmt.Printf("%d. %s\n", i+1, r.Document.DisplayTitle())
		fmt.Printf("   %s\n", r.Document.URL)
		if text := strings.TrimSpace(r.Highlight.Text()); text != "" {
			fmt.Printf("   [%s] %s\n", r.Field, text)
		}
		fmt.Println()
	}
	return nil
}
