// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"encoding/json"
	"fmt"

	"github.com/pdiddy/newsletter-engine/pkg/types"
)

// Marshal flattens a Newsletter into the draft record: per-section
// urls/notes/prompt keys, generated content keyed by display name, and
// the aggregate settings. Only visible rearview inputs are written;
// generated content of hidden rearview sections is kept under
// generated_sections so it survives a shrink.
func Marshal(n *types.Newsletter) ([]byte, error) {
	rec := map[string]any{
		"overall_prompt":     n.OverallPrompt,
		"num_rearview":       n.NumRearview,
		"windshield_urls":    n.Windshield.URLs,
		"windshield_notes":   n.Windshield.Notes,
		"windshield_prompt":  n.Windshield.Prompt,
		"dashboard_urls":     n.Dashboard.URLs,
		"dashboard_notes":    n.Dashboard.Notes,
		"dashboard_prompt":   n.Dashboard.Prompt,
		"nextlane_urls":      n.NextLane.URLs,
		"nextlane_notes":     n.NextLane.Notes,
		"nextlane_prompt":    n.NextLane.Prompt,
		"generated_sections": n.GeneratedSections(),
		"edited_sections":    n.EditedSections,
		"selected_provider":  n.SelectedProvider,
		"selected_model":     n.SelectedModel,
		"language":           string(n.Language),
		"theme":              string(n.Theme),
	}
	for i := 1; i <= n.NumRearview; i++ {
		sec := n.Rearview[i]
		if sec == nil {
			sec = &types.Section{}
		}
		rec[fmt.Sprintf("rearview_urls_%d", i)] = sec.URLs
		rec[fmt.Sprintf("rearview_notes_%d", i)] = sec.Notes
		rec[fmt.Sprintf("rearview_prompt_%d", i)] = sec.Prompt
	}
	return json.MarshalIndent(rec, "", "  ")
}

// Unmarshal reconstructs a Newsletter from a draft record. Missing keys
// take documented defaults (OpenAI, gpt-4o, English, Light, 3 rearview
// sections); unknown keys are ignored. Exactly num_rearview visible
// slots are rebuilt, padded with empty sections where the record has
// fewer; generated content stored for indices above the count is kept as
// hidden sections up to the maximum of five.
func Unmarshal(data []byte) (*types.Newsletter, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing draft record: %w", err)
	}

	n := types.NewNewsletter()
	n.OverallPrompt = str(raw, "overall_prompt", "")
	n.SelectedProvider = str(raw, "selected_provider", types.DefaultProvider)
	n.SelectedModel = str(raw, "selected_model", types.DefaultModel)
	n.Language = types.Language(str(raw, "language", string(types.LanguageEnglish)))
	n.Theme = types.Theme(str(raw, "theme", string(types.ThemeLight)))
	n.EditedSections = strMap(raw, "edited_sections")
	n.SetNumRearview(integer(raw, "num_rearview", types.DefaultRearview))

	generated := strMap(raw, "generated_sections")

	n.Windshield = types.Section{
		URLs:    str(raw, "windshield_urls", ""),
		Notes:   str(raw, "windshield_notes", ""),
		Prompt:  str(raw, "windshield_prompt", ""),
		Content: generated[types.NameWindshield],
	}
	n.Dashboard = types.Section{
		URLs:    str(raw, "dashboard_urls", ""),
		Notes:   str(raw, "dashboard_notes", ""),
		Prompt:  str(raw, "dashboard_prompt", ""),
		Content: generated[types.NameDashboard],
	}
	n.NextLane = types.Section{
		URLs:    str(raw, "nextlane_urls", ""),
		Notes:   str(raw, "nextlane_notes", ""),
		Prompt:  str(raw, "nextlane_prompt", ""),
		Content: generated[types.NameNextLane],
	}

	for i := 1; i <= n.NumRearview; i++ {
		n.Rearview[i] = &types.Section{
			URLs:    str(raw, fmt.Sprintf("rearview_urls_%d", i), ""),
			Notes:   str(raw, fmt.Sprintf("rearview_notes_%d", i), ""),
			Prompt:  str(raw, fmt.Sprintf("rearview_prompt_%d", i), ""),
			Content: generated[types.RearviewName(i)],
		}
	}
	// Hidden rearview content above the visible count survives the
	// round trip so raising the count restores it.
	for i := n.NumRearview + 1; i <= types.MaxRearview; i++ {
		if content, ok := generated[types.RearviewName(i)]; ok {
			n.Rearview[i] = &types.Section{Content: content}
		}
	}

	return n, nil
}

func str(raw map[string]json.RawMessage, key, def string) string {
	msg, ok := raw[key]
	if !ok {
		return def
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return def
	}
	return s
}

func integer(raw map[string]json.RawMessage, key string, def int) int {
	msg, ok := raw[key]
	if !ok {
		return def
	}
	var i int
	if err := json.Unmarshal(msg, &i); err != nil {
		return def
	}
	return i
}

func strMap(raw map[string]json.RawMessage, key string) map[string]string {
	out := make(map[string]string)
	msg, ok := raw[key]
	if !ok {
		return out
	}
	// Malformed values degrade to an empty map rather than failing the load.
	_ = json.Unmarshal(msg, &out)
	return out
}
