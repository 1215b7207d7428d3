// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/newsletter-engine/pkg/types"
)

func TestSplitURLs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"two urls with whitespace", "a ;; b;; ", []string{"a", "b"}},
		{"single url", "http://example.com", []string{"http://example.com"}},
		{"empty input", "", nil},
		{"only delimiters", ";;;; ;;", nil},
		{"order and duplicates preserved", "b ;; a ;; b", []string{"b", "a", "b"}},
		{"internal whitespace trimmed", "  http://x  ;;\nhttp://y\t", []string{"http://x", "http://y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitURLs(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitURLs(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

const articlePage = `<html><body>
<article>
<p>First paragraph of the story, long enough to pass the fragment filter easily.</p>
<p>Second paragraph with even more detail about the subject matter at hand here.</p>
<p>ok</p>
</article>
</body></html>`

func TestArticlesExtractsParagraphs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
			t.Errorf("User-Agent = %q, want browser-like", ua)
		}
		w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	text, failures := Articles(context.Background(), srv.Client(), srv.URL, types.FetchConfig{})
	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none", failures)
	}
	if !strings.Contains(text, "First paragraph") || !strings.Contains(text, "Second paragraph") {
		t.Errorf("combined text missing paragraphs: %q", text)
	}
	if strings.Contains(text, "\nok") {
		t.Errorf("short fragment not filtered: %q", text)
	}
}

func TestArticlesContinuesPastFailures(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articlePage))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer bad.Close()

	raw := bad.URL + " ;; " + good.URL
	text, failures := Articles(context.Background(), http.DefaultClient, raw, types.FetchConfig{})

	if len(failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(failures))
	}
	if failures[0].URL != bad.URL {
		t.Errorf("failed URL = %q, want %q", failures[0].URL, bad.URL)
	}
	if !strings.Contains(text, "Error fetching URL "+bad.URL) {
		t.Errorf("failure note missing from text: %q", text)
	}
	if !strings.Contains(text, "First paragraph") {
		t.Errorf("good URL content missing: %q", text)
	}
}

func TestArticlesAllFailed(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer bad.Close()

	text, failures := Articles(context.Background(), http.DefaultClient, bad.URL, types.FetchConfig{})
	if len(failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(failures))
	}
	if !strings.HasPrefix(text, "Error fetching URL ") {
		t.Errorf("text = %q, want failure note only", text)
	}
}

func TestArticlesEmptyInput(t *testing.T) {
	text, failures := Articles(context.Background(), http.DefaultClient, "  ;; ", types.FetchConfig{})
	if text != "" || failures != nil {
		t.Errorf("got (%q, %v), want empty", text, failures)
	}
}

func TestExtractFallsBackToAllParagraphs(t *testing.T) {
	page := `<html><body><div>
<p>No article container here, but this paragraph is clearly long enough to keep.</p>
</div></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	text, failures := Articles(context.Background(), srv.Client(), srv.URL, types.FetchConfig{})
	if len(failures) != 0 {
		t.Fatalf("failures = %v", failures)
	}
	if !strings.Contains(text, "No article container here") {
		t.Errorf("fallback extraction failed: %q", text)
	}
}
