// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session orchestrates the section workflow over a Newsletter
// aggregate: generate content from URLs and notes, stage edits, keep or
// discard them, and clear sections.
//
// Every operation treats its target section atomically: inputs and content
// change together on success, and a failed generation leaves the slot
// exactly as it was.
package session

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/newsletter-engine/internal/fetch"
	"github.com/pdiddy/newsletter-engine/internal/prompt"
	"github.com/pdiddy/newsletter-engine/pkg/types"
)

// Generator produces text for composed prompts. *llm.Service implements
// it; tests substitute a stub.
type Generator interface {
	Generate(ctx context.Context, provider, model, systemPrompt, userPrompt string) (string, error)
}

// Session binds a Newsletter aggregate to the collaborators needed to
// mutate it.
type Session struct {
	News      *types.Newsletter
	Generator Generator

	// HTTPClient is used for article fetches. nil means
	// http.DefaultClient.
	HTTPClient *http.Client

	Prompts  prompt.Prompts
	FetchCfg types.FetchConfig

	// Status receives per-operation progress lines. nil discards them.
	Status io.Writer
}

// New returns a Session over n with default prompts.
func New(n *types.Newsletter, g Generator) *Session {
	return &Session{
		News:      n,
		Generator: g,
		Prompts:   prompt.Defaults(),
	}
}

func (s *Session) client() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return http.DefaultClient
}

func (s *Session) status() io.Writer {
	if s.Status != nil {
		return s.Status
	}
	return io.Discard
}

// overall returns the style instruction: the aggregate's custom prompt if
// set, otherwise the built-in variant for its language.
func (s *Session) overall() string {
	if s.News.OverallPrompt != "" {
		return s.News.OverallPrompt
	}
	return s.Prompts.OverallFor(s.News.Language)
}

// GenerateSection fetches the given URLs, composes the prompts, and
// generates content for the named section using the aggregate's selected
// provider and model. On success the section's urls, notes, prompt and
// content are written as one unit and the text is returned. On failure
// the section is left untouched and the error carries a human-readable
// message.
func (s *Session) GenerateSection(ctx context.Context, name, urls, notes, sectionPrompt string) (string, error) {
	sec, kind, ok := s.News.SectionByName(name)
	if !ok {
		return "", fmt.Errorf("unknown section %q", name)
	}
	if sectionPrompt == "" {
		sectionPrompt = s.Prompts.SectionTemplate(kind)
	}

	articleText, failures := fetch.Articles(ctx, s.client(), urls, s.FetchCfg)
	for _, f := range failures {
		fmt.Fprintf(s.status(), "warning: %v\n", f)
	}

	system, user := prompt.Compose(s.overall(), sectionPrompt, articleText, notes)

	text, err := s.Generator.Generate(ctx, s.News.SelectedProvider, s.News.SelectedModel, system, user)
	if err != nil {
		return "", err
	}

	sec.URLs = urls
	sec.Notes = notes
	sec.Prompt = sectionPrompt
	sec.Content = text
	return text, nil
}

// EditOptions controls how much of the original generation context rides
// along with an edit request.
type EditOptions struct {
	// IncludeContext re-fetches the section's URLs and attaches the
	// article text, notes and section prompt to the edit request.
	IncludeContext bool
}

// EditSection asks the model to revise the named section's content per a
// free-form instruction. The result is staged under the section's display
// name in EditedSections; canonical content is untouched until KeepEdit.
// A pending edit, when present, is what gets revised, so edits chain.
func (s *Session) EditSection(ctx context.Context, name, instruction string, opts EditOptions) (string, error) {
	sec, _, ok := s.News.SectionByName(name)
	if !ok {
		return "", fmt.Errorf("unknown section %q", name)
	}

	base := sec.Content
	if pending, ok := s.News.EditedSections[name]; ok {
		base = pending
	}
	if base == "" {
		return "", fmt.Errorf("section %q has no content to edit", name)
	}

	var editCtx *prompt.EditContext
	if opts.IncludeContext {
		articleText, failures := fetch.Articles(ctx, s.client(), sec.URLs, s.FetchCfg)
		for _, f := range failures {
			fmt.Fprintf(s.status(), "warning: %v\n", f)
		}
		editCtx = &prompt.EditContext{
			SectionPrompt: sec.Prompt,
			ArticleText:   articleText,
			Notes:         sec.Notes,
		}
	}

	system, user := prompt.ComposeEdit(s.overall(), instruction, base, editCtx)

	text, err := s.Generator.Generate(ctx, s.News.SelectedProvider, s.News.SelectedModel, system, user)
	if err != nil {
		return "", err
	}

	if s.News.EditedSections == nil {
		s.News.EditedSections = make(map[string]string)
	}
	s.News.EditedSections[name] = text
	return text, nil
}

// KeepEdit promotes the pending edit for name into canonical content and
// clears the pending slot.
func (s *Session) KeepEdit(name string) error {
	sec, _, ok := s.News.SectionByName(name)
	if !ok {
		return fmt.Errorf("unknown section %q", name)
	}
	pending, ok := s.News.EditedSections[name]
	if !ok {
		return fmt.Errorf("no pending edit for %q", name)
	}
	sec.Content = pending
	delete(s.News.EditedSections, name)
	return nil
}

// DiscardEdit drops the pending edit for name, leaving canonical content
// as it was.
func (s *Session) DiscardEdit(name string) error {
	if _, ok := s.News.EditedSections[name]; !ok {
		return fmt.Errorf("no pending edit for %q", name)
	}
	delete(s.News.EditedSections, name)
	return nil
}

// DeleteSection clears the named section's content back to empty. The
// slot itself stays; inputs (urls, notes, prompt) are kept so the section
// can be regenerated. Any pending edit is dropped with the content.
func (s *Session) DeleteSection(name string) error {
	sec, _, ok := s.News.SectionByName(name)
	if !ok {
		return fmt.Errorf("unknown section %q", name)
	}
	sec.Content = ""
	delete(s.News.EditedSections, name)
	return nil
}
