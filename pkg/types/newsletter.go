// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the newsletter engine.
package types

import (
	"strconv"
	"strings"
)

// Language selects the overall prompt variant and the text direction used
// by downstream renderers.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageHebrew  Language = "Hebrew"
)

// Theme is a cosmetic setting passed through to the external renderer.
type Theme string

const (
	ThemeLight Theme = "Light"
	ThemeDark  Theme = "Dark"
)

// Fixed section display names. Rearview sections are named by index via
// RearviewName.
const (
	NameWindshield = "Windshield View"
	NameDashboard  = "Dashboard Data"
	NameNextLane   = "The Next Lane"
)

// Rearview count bounds.
const (
	MinRearview     = 1
	MaxRearview     = 5
	DefaultRearview = 3
)

// Defaults applied to a fresh Newsletter and to draft records with
// missing keys.
const (
	DefaultProvider = "OpenAI"
	DefaultModel    = "gpt-4o"
)

// Section is one editorial unit of the newsletter: its raw inputs and its
// generated (or manually edited) output.
type Section struct {
	// URLs is the raw URL input, entries separated by ";;".
	URLs string `json:"urls" yaml:"urls"`

	// Notes is free-form user guidance passed to the model.
	Notes string `json:"notes" yaml:"notes"`

	// Prompt is the section-specific instruction. Empty means the
	// built-in template for the section kind is used.
	Prompt string `json:"prompt" yaml:"prompt"`

	// Content is the generated text. Empty until a generation succeeds
	// or the user pastes content in.
	Content string `json:"content" yaml:"content"`
}

// IsGenerated reports whether the section has non-blank content.
func (s *Section) IsGenerated() bool {
	return strings.TrimSpace(s.Content) != ""
}

// SectionKind identifies which instruction template a section uses.
type SectionKind string

const (
	KindWindshield SectionKind = "windshield"
	KindRearview   SectionKind = "rearview"
	KindDashboard  SectionKind = "dashboard"
	KindNextLane   SectionKind = "nextlane"
)

// Newsletter is the aggregate holding every section plus the settings
// that apply across sections. It is mutated in place by the session
// operations and persisted as a draft record.
type Newsletter struct {
	Windshield Section `json:"windshield" yaml:"windshield"`
	Dashboard  Section `json:"dashboard" yaml:"dashboard"`
	NextLane   Section `json:"nextlane" yaml:"nextlane"`

	// Rearview maps 1-based index to section. Entries above NumRearview
	// may exist: shrinking the count hides sections rather than deleting
	// them, so raising it again restores their content.
	Rearview map[int]*Section `json:"rearview" yaml:"rearview"`

	// OverallPrompt is the shared style instruction. Empty means the
	// built-in overall prompt for Language is used.
	OverallPrompt string `json:"overall_prompt" yaml:"overall_prompt"`

	// NumRearview is the visible rearview count, in [1,5].
	NumRearview int `json:"num_rearview" yaml:"num_rearview"`

	// EditedSections holds pending edited content per display name,
	// staged until kept or discarded.
	EditedSections map[string]string `json:"edited_sections" yaml:"edited_sections"`

	SelectedProvider string   `json:"selected_provider" yaml:"selected_provider"`
	SelectedModel    string   `json:"selected_model" yaml:"selected_model"`
	Language         Language `json:"language" yaml:"language"`
	Theme            Theme    `json:"theme" yaml:"theme"`
}

// NewNewsletter returns a fresh aggregate with defaults applied and all
// sections empty.
func NewNewsletter() *Newsletter {
	n := &Newsletter{
		Rearview:         make(map[int]*Section),
		EditedSections:   make(map[string]string),
		NumRearview:      DefaultRearview,
		SelectedProvider: DefaultProvider,
		SelectedModel:    DefaultModel,
		Language:         LanguageEnglish,
		Theme:            ThemeLight,
	}
	for i := 1; i <= n.NumRearview; i++ {
		n.Rearview[i] = &Section{}
	}
	return n
}

// RearviewName formats the display name for the i-th rearview section.
func RearviewName(i int) string {
	return "Rearview Mirror " + strconv.Itoa(i)
}

// SectionNames returns every visible section display name in canonical
// order: Windshield View, Rearview Mirror 1..N, Dashboard Data, The Next
// Lane. This order is load-bearing for draft round-tripping and assembly.
func (n *Newsletter) SectionNames() []string {
	names := []string{NameWindshield}
	for i := 1; i <= n.NumRearview; i++ {
		names = append(names, RearviewName(i))
	}
	return append(names, NameDashboard, NameNextLane)
}

// SectionByName resolves a display name to its slot and kind. The second
// return is false for unknown names and for rearview indices above the
// visible count.
func (n *Newsletter) SectionByName(name string) (*Section, SectionKind, bool) {
	switch name {
	case NameWindshield:
		return &n.Windshield, KindWindshield, true
	case NameDashboard:
		return &n.Dashboard, KindDashboard, true
	case NameNextLane:
		return &n.NextLane, KindNextLane, true
	}
	for i := 1; i <= n.NumRearview; i++ {
		if name == RearviewName(i) {
			if n.Rearview[i] == nil {
				n.Rearview[i] = &Section{}
			}
			return n.Rearview[i], KindRearview, true
		}
	}
	return nil, "", false
}

// GeneratedSections returns display name to content for every section,
// visible or hidden, that has content. Hidden rearview entries are
// included so shrink-then-save does not lose their text.
func (n *Newsletter) GeneratedSections() map[string]string {
	out := make(map[string]string)
	if n.Windshield.IsGenerated() {
		out[NameWindshield] = n.Windshield.Content
	}
	for i, s := range n.Rearview {
		if s != nil && s.IsGenerated() {
			out[RearviewName(i)] = s.Content
		}
	}
	if n.Dashboard.IsGenerated() {
		out[NameDashboard] = n.Dashboard.Content
	}
	if n.NextLane.IsGenerated() {
		out[NameNextLane] = n.NextLane.Content
	}
	return out
}

// SetNumRearview changes the visible rearview count, clamped to [1,5].
// Growing pads with empty sections; shrinking keeps the extra sections in
// the map so their content is recoverable by growing again.
func (n *Newsletter) SetNumRearview(count int) {
	if count < MinRearview {
		count = MinRearview
	}
	if count > MaxRearview {
		count = MaxRearview
	}
	n.NumRearview = count
	if n.Rearview == nil {
		n.Rearview = make(map[int]*Section)
	}
	for i := 1; i <= count; i++ {
		if n.Rearview[i] == nil {
			n.Rearview[i] = &Section{}
		}
	}
}

// CompletionPercent reports how many visible sections have content, as a
// whole percentage.
func (n *Newsletter) CompletionPercent() int {
	total := 3 + n.NumRearview
	done := 0
	if n.Windshield.IsGenerated() {
		done++
	}
	for i := 1; i <= n.NumRearview; i++ {
		if s := n.Rearview[i]; s != nil && s.IsGenerated() {
			done++
		}
	}
	if n.Dashboard.IsGenerated() {
		done++
	}
	if n.NextLane.IsGenerated() {
		done++
	}
	return done * 100 / total
}
