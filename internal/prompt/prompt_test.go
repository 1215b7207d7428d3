// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/newsletter-engine/pkg/types"
)

func TestComposeDeterministic(t *testing.T) {
	s1, u1 := Compose("overall", "section", "articles", "my notes")
	s2, u2 := Compose("overall", "section", "articles", "my notes")
	if s1 != s2 || u1 != u2 {
		t.Error("Compose is not deterministic")
	}
	if s1 != "overall" {
		t.Errorf("system = %q, want overall prompt", s1)
	}
	for _, want := range []string{"section", "Combined Article Content:\narticles", "Notes: my notes"} {
		if !strings.Contains(u1, want) {
			t.Errorf("user prompt missing %q:\n%s", want, u1)
		}
	}
}

func TestComposeEmptyNotes(t *testing.T) {
	_, user := Compose("o", "p", "a", "")
	if !strings.HasSuffix(user, "Notes: ") {
		t.Errorf("empty notes should keep the label, got:\n%q", user)
	}
}

func TestComposeEdit(t *testing.T) {
	_, user := ComposeEdit("o", "make it shorter", "original text", nil)
	if !strings.Contains(user, "make it shorter") || !strings.Contains(user, "Original Section Content:\noriginal text") {
		t.Errorf("edit prompt malformed:\n%s", user)
	}
	if strings.Contains(user, "Original Generation Context") {
		t.Error("context block present without EditContext")
	}

	_, user = ComposeEdit("o", "i", "orig", &EditContext{
		SectionPrompt: "sp",
		ArticleText:   "at",
		Notes:         "nn",
	})
	for _, want := range []string{"Original Generation Context:\nsp", "Combined Article Content:\nat", "Notes: nn"} {
		if !strings.Contains(user, want) {
			t.Errorf("edit prompt missing %q:\n%s", want, user)
		}
	}
}

func TestOverallFor(t *testing.T) {
	p := Defaults()
	en := p.OverallFor(types.LanguageEnglish)
	he := p.OverallFor(types.LanguageHebrew)
	if en == he {
		t.Error("Hebrew variant should differ from English")
	}
	if !strings.Contains(he, "Hebrew") {
		t.Error("Hebrew variant missing language instruction")
	}
}

func TestSectionTemplate(t *testing.T) {
	p := Defaults()
	kinds := []types.SectionKind{
		types.KindWindshield, types.KindRearview, types.KindDashboard, types.KindNextLane,
	}
	seen := map[string]bool{}
	for _, k := range kinds {
		tmpl := p.SectionTemplate(k)
		if tmpl == "" {
			t.Errorf("SectionTemplate(%s) empty", k)
		}
		if seen[tmpl] {
			t.Errorf("SectionTemplate(%s) duplicates another kind", k)
		}
		seen[tmpl] = true
	}
	if got := p.SectionTemplate("sunroof"); got != "" {
		t.Errorf("unknown kind returned %q", got)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	if err := os.WriteFile(path, []byte("rearview: Custom rearview instruction.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Rearview != "Custom rearview instruction." {
		t.Errorf("override not applied: %q", p.Rearview)
	}
	if p.Windshield != Defaults().Windshield {
		t.Error("untouched template changed")
	}
}

func TestLoadMissingFile(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("want error for missing file")
	}
	// Defaults still usable by the caller.
	if p.Overall == "" {
		t.Error("defaults not returned alongside error")
	}
}
