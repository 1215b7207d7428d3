package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsletter-engine/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <urls>",
	Short: "Fetch and extract article text from URLs",
	Long: `Fetch downloads each URL in a ';;'-separated list and prints the
extracted article text. Useful to preview what a section generation would
feed the model. Failed URLs are reported inline and do not abort the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := fetchConfig()
	client := &http.Client{Timeout: cfg.Timeout}

	urls := fetch.SplitURLs(args[0])
	if len(urls) == 0 {
		return fmt.Errorf("no URLs in %q", args[0])
	}

	text, failures := fetch.Articles(cmd.Context(), client, args[0], cfg)
	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", f)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(text))
	return nil
}
