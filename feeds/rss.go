package feeds

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/fxdash/feeds/httpclient"
	"github.com/rustyeddy/fxdash/market"
)

var relevanceKeywords = []string{
	"rate", "inflation", "cpi", "gdp", "employment", "payroll", "jobs",
	"central bank", "fed", "federal reserve", "ecb", "boe", "boj", "rba",
	"dollar", "euro", "sterling", "yen", "forex", "currency", "yield",
}

// RSS reads news headlines from RSS or Atom feeds.
type RSS struct {
	Feeds   []string
	MaxNews int
	Now     func() time.Time

	client *httpclient.Client
	log    zerolog.Logger
}

func NewRSS(feeds []string, client *httpclient.Client, maxNews int, log zerolog.Logger) *RSS {
	valid := make([]string, 0, len(feeds))
	for _, f := range feeds {
		if strings.HasPrefix(f, "http://") || strings.HasPrefix(f, "https://") {
			valid = append(valid, f)
		}
	}
	return &RSS{
		Feeds:   valid,
		MaxNews: maxNews,
		Now:     time.Now,
		client:  client,
		log:     log.With().Str("component", "rss").Logger(),
	}
}

// FetchNews merges all feeds newest first. A failing feed is logged and
// skipped; an error is returned only when every feed failed.
func (r *RSS) FetchNews(ctx context.Context) ([]market.NewsItem, error) {
	var (
		all  []market.NewsItem
		errs []error
	)
	for _, url := range r.Feeds {
		items, err := r.fetchFeed(ctx, url)
		if err != nil {
			r.log.Warn().Err(err).Str("feed", url).Msg("feed failed")
			errs = append(errs, err)
			continue
		}
		all = append(all, items...)
	}
	if len(r.Feeds) > 0 && len(errs) == len(r.Feeds) {
		return nil, fmt.Errorf("all feeds failed: %w", errors.Join(errs...))
	}

	valid, rejected := market.FilterNews(all)
	for _, err := range rejected {
		r.log.Debug().Err(err).Msg("dropping news item")
	}

	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Published.After(valid[j].Published) })
	if r.MaxNews > 0 && len(valid) > r.MaxNews {
		valid = valid[:r.MaxNews]
	}
	return valid, nil
}

func (r *RSS) fetchFeed(ctx context.Context, url string) ([]market.NewsItem, error) {
	body, err := r.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseFeed(bytes.NewReader(body), r.Now())
}

// ParseFeed converts an RSS/Atom document into news items. Items without
// a date are stamped with now.
func ParseFeed(body io.Reader, now time.Time) ([]market.NewsItem, error) {
	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]market.NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		published := now
		switch {
		case it.PublishedParsed != nil:
			published = *it.PublishedParsed
		case it.UpdatedParsed != nil:
			published = *it.UpdatedParsed
		}

		summary := HTMLToText(it.Description)
		if summary == "" {
			summary = HTMLToText(it.Content)
		}
		if summary == "" {
			summary = it.Title
		}

		keywords := matchKeywords(it.Title + " " + summary)
		items = append(items, market.NewsItem{
			Title:     strings.TrimSpace(it.Title),
			Summary:   summary,
			Source:    feed.Title,
			URL:       it.Link,
			Published: published.UTC(),
			Relevance: relevance(len(keywords)),
			Keywords:  keywords,
		})
	}
	return items, nil
}

// HTMLToText flattens an HTML fragment into single-spaced text.
func HTMLToText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func matchKeywords(text string) []string {
	lower := " " + strings.ToLower(text) + " "
	var hits []string
	for _, kw := range relevanceKeywords {
		if strings.Contains(lower, " "+kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

func relevance(hits int) string {
	switch {
	case hits >= 2:
		return "High"
	case hits == 1:
		return "Medium"
	default:
		return "Low"
	}
}
