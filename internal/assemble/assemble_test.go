// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/newsletter-engine/pkg/types"
)

func TestEntriesOrderAndPlaceholder(t *testing.T) {
	n := types.NewNewsletter()
	n.Dashboard.Content = "dashboard body"

	want := []Entry{
		{"Windshield View", "Not generated yet."},
		{"Rearview Mirror 1", "Not generated yet."},
		{"Rearview Mirror 2", "Not generated yet."},
		{"Rearview Mirror 3", "Not generated yet."},
		{"Dashboard Data", "dashboard body"},
		{"The Next Lane", "Not generated yet."},
	}
	if got := Entries(n); !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestEntriesRespectsRearviewCount(t *testing.T) {
	n := types.NewNewsletter()
	n.SetNumRearview(5)
	n.Rearview[5].Content = "fifth"
	n.SetNumRearview(1)

	entries := Entries(n)
	if len(entries) != 4 {
		t.Fatalf("len = %d, want 4", len(entries))
	}
	for _, e := range entries {
		if e.Title == "Rearview Mirror 5" {
			t.Error("hidden rearview assembled")
		}
	}
}

func TestEntriesContentNotEscaped(t *testing.T) {
	n := types.NewNewsletter()
	n.Windshield.Content = `<b>bold & raw</b>`

	if got := Entries(n)[0].Content; got != `<b>bold & raw</b>` {
		t.Errorf("content altered: %q", got)
	}
}

func TestRender(t *testing.T) {
	n := types.NewNewsletter()
	n.Windshield.Content = "the view ahead"

	var sb strings.Builder
	if err := Render(&sb, n); err != nil {
		t.Fatal(err)
	}
	out := sb.String()

	if !strings.HasPrefix(out, "Windshield View\n===============\nthe view ahead\n") {
		t.Errorf("render start = %q", out)
	}
	if !strings.Contains(out, "Dashboard Data\n==============\nNot generated yet.\n") {
		t.Errorf("placeholder missing:\n%s", out)
	}
	if strings.Index(out, "Dashboard Data") > strings.Index(out, "The Next Lane") {
		t.Error("sections out of order")
	}
}
