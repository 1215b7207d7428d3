// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble orders a Newsletter's sections for rendering.
//
// The output is an ordered (title, content) sequence; markup, escaping and
// theming belong to the external renderer, which must not assume the
// content is pre-escaped.
package assemble

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/newsletter-engine/pkg/types"
)

// Placeholder stands in for sections that have no content yet.
const Placeholder = "Not generated yet."

// Entry is one section ready for rendering.
type Entry struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Entries returns every visible section in canonical order: Windshield
// View, Rearview Mirror 1..N, Dashboard Data, The Next Lane. Ungenerated
// sections carry the placeholder.
func Entries(n *types.Newsletter) []Entry {
	var entries []Entry
	for _, name := range n.SectionNames() {
		sec, _, _ := n.SectionByName(name)
		content := Placeholder
		if sec.IsGenerated() {
			content = sec.Content
		}
		entries = append(entries, Entry{Title: name, Content: content})
	}
	return entries
}

// Render writes a plain-text preview of the assembled newsletter: each
// section title underlined, followed by its content and a blank line.
func Render(w io.Writer, n *types.Newsletter) error {
	for i, e := range Entries(n) {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		underline := strings.Repeat("=", len(e.Title))
		if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n", e.Title, underline, e.Content); err != nil {
			return err
		}
	}
	return nil
}
