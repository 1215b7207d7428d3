// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt composes the system and user instructions sent to the
// generation client. Composition is pure: the same inputs always produce
// the same two strings, so the package is testable without any model call.
package prompt

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/newsletter-engine/pkg/types"
)

// Prompts holds the overall style instructions and the per-section
// templates. A zero value field falls back to the built-in default.
type Prompts struct {
	Overall       string `yaml:"overall"`
	OverallHebrew string `yaml:"overall_hebrew"`
	Windshield    string `yaml:"windshield"`
	Rearview      string `yaml:"rearview"`
	Dashboard     string `yaml:"dashboard"`
	NextLane      string `yaml:"nextlane"`
}

// Defaults returns the built-in prompt set.
func Defaults() Prompts {
	return Prompts{
		Overall: "What are you doing?:\n" +
			"You are writing a section inside a newsletter about technology, AI, and innovation. " +
			"Only write about the relevant content of this section - This text will be a part of the larger newsletter (no need for welcome notes). " +
			"Avoid AI chatbot introductions, such as 'here is the response to your request'.\n" +
			"Writing style:\n" +
			"Write in a dynamic, conversational, and friendly tone, as if speaking directly to the reader. Keep the language approachable but insightful, " +
			"mixing professional analysis with a sense of curiosity and enthusiasm. Use simple, clear sentences, but don't shy away from technical terms when necessary" +
			" - just explain them naturally and without overcomplication. Add thoughtful commentary that connects news or updates to broader implications, offering personal insights or lessons. " +
			"Maintain an optimistic and forward-thinking voice, encouraging readers to reflect and engage while keeping the overall mood warm and encouraging. " +
			"Don't be too optimistic and avoid making announcements that are bigger than the actual news.\n" +
			"Length:\n" +
			"Keep the response concise and focused on the key points.\n" +
			"What to write about?\n" +
			"Offer a new lens on the news, providing a fresh perspective or a unique angle that doubts the status quo or offers a new way of thinking.",
		OverallHebrew: "What are you doing?:\n" +
			"You are writing a section inside a newsletter about technology, AI, and innovation. " +
			"Only write about the relevant content of this section - This text will be a part of the larger newsletter (no need for welcome notes). " +
			"Avoid AI chatbot introductions, such as 'here is the response to your request'.\n" +
			"Writing style:\n" +
			"Write in a dynamic, conversational, and friendly tone, as if speaking directly to the reader. Keep the language approachable but insightful, " +
			"mixing professional analysis with a sense of curiosity and enthusiasm. Use simple, clear sentences, but don't shy away from technical terms when necessary" +
			" - just explain them naturally and without overcomplication. Add thoughtful commentary that connects news or updates to broader implications, offering personal insights or lessons. " +
			"Maintain an optimistic and forward-thinking voice, encouraging readers to reflect and engage while keeping the overall mood warm and encouraging. " +
			"Don't be too optimistic and avoid making announcements that are bigger than the actual news.\n" +
			"Length:\n" +
			"Keep the response concise and focused on the key points.\n" +
			"What to write about?\n" +
			"Offer a new lens on the news, providing a fresh perspective or a unique angle that doubts the status quo or offers a new way of thinking.\n" +
			"IMPORTANT: Write your response in Hebrew. Make sure to use proper Hebrew grammar and right-to-left formatting. " +
			"You can write names of companies or technologies in English (e.g. Tesla, LiDAR, etc.)",
		Windshield: "Start with an engaging headline (in bold, not as a formal heading) that captures the essence of the story. " +
			"Then summarize the articles in 2-3 concise paragraphs focusing on their relevance to technology and innovation. " +
			"Please be succinct and avoid unnecessary details. Write in first-person singular.",
		Rearview: "Provide a brief headline (bolded text, not an actual headline) and a one-sentence summary. " +
			"Keep the response extremely concise - no more than 2 sentences total.",
		Dashboard: "Start with an engaging headline (in bold, not as a formal heading) that captures the key insight or trend. " +
			"Then write 3 parts:\n" +
			"- What's New: Describe key trends or insights concisely.\n" +
			"- Why It Matters: Explain the broader impact succinctly.\n" +
			"- What I Think: Share a brief personal opinion.",
		NextLane: "Start with an engaging headline (in bold, not as a formal heading) that captures the future implications. " +
			"Then summarize competitor/academic news in 2-3 concise paragraphs, highlighting its implications for technology and innovation. " +
			"Keep it brief and to the point.",
	}
}

// Load reads a YAML prompt file and merges it over the built-in defaults,
// so a file may override a single template and leave the rest alone.
func Load(path string) (Prompts, error) {
	p := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("reading prompt file: %w", err)
	}
	var override Prompts
	if err := yaml.Unmarshal(data, &override); err != nil {
		return p, fmt.Errorf("parsing prompt file: %w", err)
	}
	p.merge(override)
	return p, nil
}

func (p *Prompts) merge(o Prompts) {
	if o.Overall != "" {
		p.Overall = o.Overall
	}
	if o.OverallHebrew != "" {
		p.OverallHebrew = o.OverallHebrew
	}
	if o.Windshield != "" {
		p.Windshield = o.Windshield
	}
	if o.Rearview != "" {
		p.Rearview = o.Rearview
	}
	if o.Dashboard != "" {
		p.Dashboard = o.Dashboard
	}
	if o.NextLane != "" {
		p.NextLane = o.NextLane
	}
}

// OverallFor returns the overall style instruction for a language.
func (p Prompts) OverallFor(lang types.Language) string {
	if lang == types.LanguageHebrew {
		return p.OverallHebrew
	}
	return p.Overall
}

// SectionTemplate returns the built-in instruction template for a section
// kind. Unknown kinds return the empty string.
func (p Prompts) SectionTemplate(kind types.SectionKind) string {
	switch kind {
	case types.KindWindshield:
		return p.Windshield
	case types.KindRearview:
		return p.Rearview
	case types.KindDashboard:
		return p.Dashboard
	case types.KindNextLane:
		return p.NextLane
	}
	return ""
}

// Compose builds the system and user instructions for a generation
// request. Empty notes keep the Notes label so the layout is stable.
func Compose(overall, sectionPrompt, articleText, notes string) (system, user string) {
	user = fmt.Sprintf("%s\n\nCombined Article Content:\n%s\n\nNotes: %s",
		sectionPrompt, articleText, notes)
	return overall, user
}

// EditContext optionally re-attaches the original generation inputs to an
// edit request for higher-fidelity revisions.
type EditContext struct {
	SectionPrompt string
	ArticleText   string
	Notes         string
}

// ComposeEdit builds the system and user instructions for revising
// existing content per a free-form instruction. When ctx is non-nil the
// original generation inputs are appended for reference.
func ComposeEdit(overall, instruction, original string, ctx *EditContext) (system, user string) {
	user = fmt.Sprintf("Please edit the following newsletter section according to these instructions: %s\n\nOriginal Section Content:\n%s",
		instruction, original)
	if ctx != nil {
		user += fmt.Sprintf("\n\nOriginal Generation Context:\n%s\n\nCombined Article Content:\n%s\n\nNotes: %s",
			ctx.SectionPrompt, ctx.ArticleText, ctx.Notes)
	}
	return overall, user
}
