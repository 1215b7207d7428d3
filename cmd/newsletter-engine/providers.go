package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List available LLM providers and models",
	Long: `Providers lists every provider and model in the catalog, marking the
providers that have an API key configured in .secrets/.`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	svc := newService()
	catalog := svc.Catalog()
	out := cmd.OutOrStdout()

	for _, provider := range catalog.Providers() {
		mark := " "
		if svc.HasBackend(provider) {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %s\n", mark, provider)

		models, err := catalog.Models(provider)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(models))
		for id := range models {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(out, "    %-32s %s\n", id, models[id].DisplayName)
		}
	}
	fmt.Fprintln(out, "\n* = API key configured")
	return nil
}
