// Package feeds supplies economic events, news and quotes to the
// dashboard. Mock is the default; Calendar and RSS read real feeds.
package feeds

import (
	"context"

	"github.com/rustyeddy/fxdash/market"
)

// Source yields calendar events and news headlines.
type Source interface {
	FetchEvents(ctx context.Context) ([]market.EconomicEvent, error)
	FetchNews(ctx context.Context) ([]market.NewsItem, error)
}

// EventSource and NewsSource are the two halves of a Source.
type EventSource interface {
	FetchEvents(ctx context.Context) ([]market.EconomicEvent, error)
}

type NewsSource interface {
	FetchNews(ctx context.Context) ([]market.NewsItem, error)
}

// QuoteSource yields current quotes and daily close history.
type QuoteSource interface {
	Quotes(ctx context.Context, pairs []string) (map[string]market.MarketData, error)
	History(ctx context.Context, pair string, days int) ([]float64, error)
}

// Combined takes events from one source and news from another.
type Combined struct {
	Events EventSource
	News   NewsSource
}

func (c Combined) FetchEvents(ctx context.Context) ([]market.EconomicEvent, error) {
	if c.Events == nil {
		return nil, nil
	}
	return c.Events.FetchEvents(ctx)
}

func (c Combined) FetchNews(ctx context.Context) ([]market.NewsItem, error) {
	if c.News == nil {
		return nil, nil
	}
	return c.News.FetchNews(ctx)
}
