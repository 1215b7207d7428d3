package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsletter-engine/internal/llm"
	"github.com/pdiddy/newsletter-engine/pkg/types"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Create, list, inspect, and delete newsletter drafts",
	Long: `Draft manages saved newsletter drafts. Each draft is a JSON file under
the drafts directory, named by creation time, and indexed in a SQLite
database for fast listing.`,
}

var draftNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new draft",
	RunE:  runDraftNew,
}

var draftListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved drafts, newest first",
	RunE:  runDraftList,
}

var draftShowCmd = &cobra.Command{
	Use:   "show <draft-id>",
	Short: "Show a draft's settings and section status",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftShow,
}

var draftDeleteCmd = &cobra.Command{
	Use:   "delete <draft-id>",
	Short: "Delete a draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftDelete,
}

func init() {
	draftNewCmd.Flags().String("provider", "", "LLM provider: OpenAI, Anthropic, or Google (default OpenAI)")
	draftNewCmd.Flags().String("model", "", "model identifier (default gpt-4o)")
	draftNewCmd.Flags().String("language", "", "newsletter language: English or Hebrew (default English)")
	draftNewCmd.Flags().String("theme", "", "render theme: Light or Dark (default Light)")
	draftNewCmd.Flags().Int("rearview", 0, "number of rearview sections, 1 to 5 (default 3)")
	draftNewCmd.Flags().String("overall-prompt", "", "custom overall style prompt")

	draftListCmd.Flags().Duration("prune", 0, "before listing, delete drafts older than this age")

	draftCmd.AddCommand(draftNewCmd)
	draftCmd.AddCommand(draftListCmd)
	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftDeleteCmd)
	rootCmd.AddCommand(draftCmd)
}

func runDraftNew(cmd *cobra.Command, args []string) error {
	n := types.NewNewsletter()

	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		n.SelectedProvider = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		n.SelectedModel = v
	}
	if _, err := llm.DefaultCatalog().Lookup(n.SelectedProvider, n.SelectedModel); err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("language"); v != "" {
		switch types.Language(v) {
		case types.LanguageEnglish, types.LanguageHebrew:
			n.Language = types.Language(v)
		default:
			return fmt.Errorf("unknown language %q (English or Hebrew)", v)
		}
	}
	if v, _ := cmd.Flags().GetString("theme"); v != "" {
		switch types.Theme(v) {
		case types.ThemeLight, types.ThemeDark:
			n.Theme = types.Theme(v)
		default:
			return fmt.Errorf("unknown theme %q (Light or Dark)", v)
		}
	}
	if v, _ := cmd.Flags().GetInt("rearview"); v != 0 {
		if v < types.MinRearview || v > types.MaxRearview {
			return fmt.Errorf("rearview count %d out of range [%d, %d]", v, types.MinRearview, types.MaxRearview)
		}
		n.SetNumRearview(v)
	}
	if v, _ := cmd.Flags().GetString("overall-prompt"); v != "" {
		n.OverallPrompt = v
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Save(n)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func runDraftList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if maxAge, _ := cmd.Flags().GetDuration("prune"); maxAge > 0 {
		pruned, err := store.Prune(maxAge)
		if err != nil {
			return err
		}
		if pruned > 0 {
			fmt.Fprintf(os.Stderr, "Pruned %d draft(s) older than %s\n", pruned, maxAge)
		}
	}

	metas, err := store.List()
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No drafts.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tPROVIDER\tMODEL\tLANGUAGE\tDONE")
	for _, m := range metas {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d%%\n",
			m.ID, m.CreatedAt.Format(time.DateTime), m.Provider, m.Model, m.Language, m.Completion)
	}
	return tw.Flush()
}

func runDraftShow(cmd *cobra.Command, args []string) error {
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
	fmt.Fprintf(out, "Draft:     %s\n", args[0])
	fmt.Fprintf(out, "Provider:  %s %s\n", n.SelectedProvider, n.SelectedModel)
	fmt.Fprintf(out, "Language:  %s\n", n.Language)
	fmt.Fprintf(out, "Theme:     %s\n", n.Theme)
	fmt.Fprintf(out, "Complete:  %d%%\n", n.CompletionPercent())
	if n.OverallPrompt != "" {
		fmt.Fprintf(out, "Overall prompt: %s\n", n.OverallPrompt)
	}
	fmt.Fprintln(out)

	for _, name := range n.SectionNames() {
		sec, _, _ := n.SectionByName(name)
		state := "empty"
		if sec.IsGenerated() {
			state = fmt.Sprintf("%d chars", len(sec.Content))
		}
		if _, pending := n.EditedSections[name]; pending {
			state += ", edit pending"
		}
		fmt.Fprintf(out, "  %-20s %s\n", name, state)
	}
	return nil
}

func runDraftDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}
