// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves article text from user-supplied URLs.
//
// Input is a single string of URLs separated by ";;". Each URL is fetched
// independently; a failing URL never aborts the batch. Failures are embedded
// in the combined output as human-readable notes so the surrounding workflow
// can carry on with whatever text was retrieved.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/newsletter-engine/pkg/types"
)

// URLDelimiter separates URLs in the raw input string.
const URLDelimiter = ";;"

const (
	defaultTimeout      = 10 * time.Second
	defaultMinParagraph = 40
	defaultUserAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	contentLengthEnough = 500
	largeContainerChars = 200
)

// containerSelectors are tried in order before falling back to bare <p>
// tags. Most news sites match one of these.
var containerSelectors = []string{
	"article p",
	"[itemprop='articleBody'] p",
	".article-body p",
	".story-body p",
	".post-content p",
	"main p",
}

// URLError records a single failed fetch within a batch.
type URLError struct {
	URL string
	Err error
}

func (e *URLError) Error() string {
	return fmt.Sprintf("Error fetching URL %s: %v", e.URL, e.Err)
}

func (e *URLError) Unwrap() error { return e.Err }

// SplitURLs splits a raw ";;"-separated URL string, trimming surrounding
// whitespace and dropping empty entries. Order is preserved; duplicates
// are kept.
func SplitURLs(raw string) []string {
	var urls []string
	for _, part := range strings.Split(raw, URLDelimiter) {
		if u := strings.TrimSpace(part); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Articles fetches every URL in the raw input and returns the combined
// article text, paragraphs joined by newlines and articles separated by
// blank lines. Failed URLs contribute an error note to the text instead of
// content and are also returned for logging. An input with no URLs yields
// an empty string.
func Articles(ctx context.Context, client *http.Client, raw string, cfg types.FetchConfig) (string, []*URLError) {
	urls := SplitURLs(raw)
	if len(urls) == 0 {
		return "", nil
	}

	var combined strings.Builder
	var failures []*URLError
	for _, u := range urls {
		text, err := one(ctx, client, u, cfg)
		if err != nil {
			fe := &URLError{URL: u, Err: err}
			failures = append(failures, fe)
			combined.WriteString(fe.Error() + "\n\n")
			continue
		}
		combined.WriteString(text + "\n\n")
	}
	return strings.TrimSpace(combined.String()), failures
}

// one fetches a single URL and extracts its visible article text.
func one(ctx context.Context, client *http.Client, url string, cfg types.FetchConfig) (string, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	minChars := cfg.MinParagraphChars
	if minChars <= 0 {
		minChars = defaultMinParagraph
	}
	text := extract(doc, minChars)
	if text == "" {
		return "", fmt.Errorf("no article text found")
	}
	return text, nil
}

// extract pulls paragraph text from a parsed document. It tries common
// article containers first, then all <p> tags, then any large text-bearing
// block, so pages with unusual markup still yield something.
func extract(doc *goquery.Document, minChars int) string {
	for _, sel := range containerSelectors {
		text := collect(doc.Find(sel), minChars)
		if len(text) >= contentLengthEnough {
			return text
		}
	}

	if text := collect(doc.Find("p"), minChars); text != "" {
		return text
	}

	// Last resort: large divs that carry visible text directly.
	var blocks []string
	doc.Find("div").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if len(t) >= largeContainerChars && s.Children().Size() == 0 {
			blocks = append(blocks, t)
		}
	})
	return strings.Join(blocks, "\n")
}

// collect joins the trimmed text of a selection, skipping short fragments
// such as bylines and cookie banners.
func collect(sel *goquery.Selection, minChars int) string {
	var parts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if len(t) >= minChars {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n")
}
