package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsletter-engine/internal/assemble"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble <draft-id>",
	Short: "Assemble a draft into the final section sequence",
	Long: `Assemble emits the draft's sections in canonical order: Windshield
View, the visible Rearview Mirrors, Dashboard Data, The Next Lane.
Sections without generated content carry a placeholder. Output is plain
text by default, or a JSON array of title/content pairs with --json for
piping into an external renderer.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssemble,
}

func init() {
	assembleCmd.Flags().Bool("json", false, "output title/content pairs as JSON")
	assembleCmd.Flags().String("output", "", "write to a file instead of stdout")

	rootCmd.AddCommand(assembleCmd)
}

func runAssemble(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(assemble.Entries(n))
	}
	return assemble.Render(out, n)
}
