package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/newsletter-engine/internal/discover"
	"github.com/pdiddy/newsletter-engine/pkg/types"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <query>",
	Short: "Find candidate article URLs via NewsAPI",
	Long: `Discover searches newsapi.org for recent articles matching a query.
The resulting URLs print one per line, or as a single ';;'-joined string
with --join, ready to paste into generate --urls. Requires a
newsapi-api-key secret.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().String("timeframe", "last-week", "search window: last-day, last-week, or last-month")
	discoverCmd.Flags().Int("page-size", 0, "number of articles to request (default 20)")
	discoverCmd.Flags().String("sort-by", "", "result order: popularity, relevancy, or publishedAt")
	discoverCmd.Flags().Bool("join", false, "print URLs as one ';;'-joined string")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	pageSize, _ := cmd.Flags().GetInt("page-size")
	if pageSize == 0 {
		pageSize = viper.GetInt("discovery.page_size")
	}
	sortBy, _ := cmd.Flags().GetString("sort-by")
	if sortBy == "" {
		sortBy = viper.GetString("discovery.sort_by")
	}

	cfg := types.DiscoveryConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		APIKey:   secretDefault("newsapi-api-key", viper.GetString("newsapi_api_key")),
		PageSize: pageSize,
		SortBy:   sortBy,
	}

	tf, _ := cmd.Flags().GetString("timeframe")
	client := &http.Client{Timeout: cfg.Timeout}

	articles, err := discover.Search(cmd.Context(), client, args[0], discover.Timeframe(tf), cfg)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No articles found.")
		return nil
	}

	out := cmd.OutOrStdout()
	if join, _ := cmd.Flags().GetBool("join"); join {
		fmt.Fprintln(out, discover.JoinURLs(articles))
		return nil
	}
	for _, a := range articles {
		fmt.Fprintf(out, "%s\n    %s (%s)\n", a.URL, a.Title, a.Source)
	}
	return nil
}
