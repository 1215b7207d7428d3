package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsletter-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate <draft-id> <section-name>",
	Short: "Generate a section's content from URLs, notes, and a prompt",
	Long: `Generate fetches the section's source articles, composes the prompt,
calls the draft's selected LLM provider, and saves the result into the
draft. Section names follow the canonical order: "Windshield View",
"Rearview Mirror 1".."Rearview Mirror N", "Dashboard Data", "The Next
Lane". On failure the draft is left unchanged.`,
	Args: cobra.ExactArgs(2),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("urls", "", "';;'-separated source article URLs")
	generateCmd.Flags().String("notes", "", "free-form notes fed to the model")
	generateCmd.Flags().String("prompt", "", "section prompt (default: built-in template for the section)")
	generateCmd.Flags().String("provider", "", "override the draft's provider for this call")
	generateCmd.Flags().String("model", "", "override the draft's model for this call")
	generateCmd.Flags().Int("rearview", 0, "set the visible rearview count before generating")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	id, name := args[0], args[1]

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Load(id)
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		n.SelectedProvider = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		n.SelectedModel = v
	}
	if v, _ := cmd.Flags().GetInt("rearview"); v != 0 {
		if v < types.MinRearview || v > types.MaxRearview {
			return fmt.Errorf("rearview count %d out of range [%d, %d]", v, types.MinRearview, types.MaxRearview)
		}
		n.SetNumRearview(v)
	}

	s, err := newSession(n, func(format string, a ...any) {
		fmt.Fprintf(cmd.ErrOrStderr(), format, a...)
	})
	if err != nil {
		return err
	}

	urls, _ := cmd.Flags().GetString("urls")
	notes, _ := cmd.Flags().GetString("notes")
	sectionPrompt, _ := cmd.Flags().GetString("prompt")

	content, err := s.GenerateSection(cmd.Context(), name, urls, notes, sectionPrompt)
	if err != nil {
		return err
	}

	if err := store.Update(id, n); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), content)
	return nil
}
