package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsletter-engine/internal/session"
	"github.com/pdiddy/newsletter-engine/pkg/types"
)

var editCmd = &cobra.Command{
	Use:   "edit <draft-id> <section-name> <instruction>",
	Short: "Edit a generated section with an LLM instruction",
	Long: `Edit asks the draft's selected model to revise a section according to
an instruction. The result is staged alongside the original; run keep to
promote it or discard to drop it. Repeated edits before keep chain off the
staged version.`,
	Args: cobra.ExactArgs(3),
	RunE: runEdit,
}

var keepCmd = &cobra.Command{
	Use:   "keep <draft-id> <section-name>",
	Short: "Promote a staged edit to the section content",
	Args:  cobra.ExactArgs(2),
	RunE:  runKeep,
}

var discardCmd = &cobra.Command{
	Use:   "discard <draft-id> <section-name>",
	Short: "Drop a staged edit, keeping the original content",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiscard,
}

var deleteSectionCmd = &cobra.Command{
	Use:   "delete-section <draft-id> <section-name>",
	Short: "Clear a section's generated content",
	Long: `Delete-section clears a section's generated content and any staged
edit. The section's URLs, notes, and prompt are kept so it can be
regenerated.`,
	Args: cobra.ExactArgs(2),
	RunE: runDeleteSection,
}

func init() {
	editCmd.Flags().Bool("with-context", false, "re-fetch the section's source articles and include them in the edit prompt")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(keepCmd)
	rootCmd.AddCommand(discardCmd)
	rootCmd.AddCommand(deleteSectionCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, name, instruction := args[0], args[1], args[2]

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Load(id)
	if err != nil {
		return err
	}

	s, err := newSession(n, func(format string, a ...any) {
		fmt.Fprintf(cmd.ErrOrStderr(), format, a...)
	})
	if err != nil {
		return err
	}

	withContext, _ := cmd.Flags().GetBool("with-context")
	edited, err := s.EditSection(cmd.Context(), name, instruction, session.EditOptions{IncludeContext: withContext})
	if err != nil {
		return err
	}

	if err := store.Update(id, n); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), edited)
	fmt.Fprintf(cmd.ErrOrStderr(), "Edit staged for %q. Run keep to accept it or discard to drop it.\n", name)
	return nil
}

// mutateDraft loads id, applies fn to the newsletter, and saves it back.
func mutateDraft(cmd *cobra.Command, id string, fn func(n *types.Newsletter) error) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Load(id)
	if err != nil {
		return err
	}
	if err := fn(n); err != nil {
		return err
	}
	return store.Update(id, n)
}

func runKeep(cmd *cobra.Command, args []string) error {
	id, name := args[0], args[1]
	err := mutateDraft(cmd, id, func(n *types.Newsletter) error {
		return session.New(n, nil).KeepEdit(name)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Kept edit for %q\n", name)
	return nil
}

func runDiscard(cmd *cobra.Command, args []string) error {
	id, name := args[0], args[1]
	err := mutateDraft(cmd, id, func(n *types.Newsletter) error {
		return session.New(n, nil).DiscardEdit(name)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Discarded edit for %q\n", name)
	return nil
}

func runDeleteSection(cmd *cobra.Command, args []string) error {
	id, name := args[0], args[1]
	err := mutateDraft(cmd, id, func(n *types.Newsletter) error {
		return session.New(n, nil).DeleteSection(name)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %q\n", name)
	return nil
}
