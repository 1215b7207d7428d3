// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover finds candidate article URLs through the NewsAPI
// "everything" endpoint, so section inputs can be filled without leaving
// the tool.
package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/newsletter-engine/internal/fetch"
	"github.com/pdiddy/newsletter-engine/internal/httputil"
	"github.com/pdiddy/newsletter-engine/pkg/types"
)

// newsAPIBase is the NewsAPI search endpoint. Declared as a var so tests
// can substitute an httptest server.
var newsAPIBase = "https://newsapi.org/v2/everything"

// Timeframe bounds a search to a recent window.
type Timeframe string

const (
	LastDay   Timeframe = "last-day"
	LastWeek  Timeframe = "last-week"
	LastMonth Timeframe = "last-month"
)

// since is stubbed in tests.
var since = time.Now

// window returns the from/to dates for a timeframe.
func (tf Timeframe) window() (from, to time.Time, err error) {
	to = since()
	switch tf {
	case LastDay:
		return to.AddDate(0, 0, -1), to, nil
	case LastWeek, "":
		return to.AddDate(0, 0, -7), to, nil
	case LastMonth:
		return to.AddDate(0, -1, 0), to, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("unknown timeframe %q", tf)
}

// Article is one discovered story.
type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	Description string `json:"description,omitempty"`
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Search queries NewsAPI for articles matching query within the
// timeframe. Rate-limited responses are retried with backoff.
func Search(ctx context.Context, client *http.Client, query string, tf Timeframe, cfg types.DiscoveryConfig) ([]Article, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no NewsAPI key configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty discovery query")
	}
	from, to, err := tf.window()
	if err != nil {
		return nil, err
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	sortBy := cfg.SortBy
	if sortBy == "" {
		sortBy = "popularity"
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))
	params.Set("sortBy", sortBy)
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("apiKey", cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, newsAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("NewsAPI request: %w", err)
	}
	defer resp.Body.Close()

	var body newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing NewsAPI response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		msg := body.Message
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("NewsAPI error: %s", msg)
	}

	articles := make([]Article, 0, len(body.Articles))
	for _, a := range body.Articles {
		if a.URL == "" {
			continue
		}
		articles = append(articles, Article{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			Description: a.Description,
		})
	}
	return articles, nil
}

// JoinURLs formats discovered articles as a section URL input string.
func JoinURLs(articles []Article) string {
	urls := make([]string, 0, len(articles))
	for _, a := range articles {
		urls = append(urls, a.URL)
	}
	return strings.Join(urls, " "+fetch.URLDelimiter+" ")
}
