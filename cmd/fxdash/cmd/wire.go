package cmd

import (
	"github.com/rs/zerolog"

	"github.com/rustyeddy/fxdash/config"
	"github.com/rustyeddy/fxdash/engine"
	"github.com/rustyeddy/fxdash/feeds"
	"github.com/rustyeddy/fxdash/feeds/httpclient"
	"github.com/rustyeddy/fxdash/journal"
	"github.com/rustyeddy/fxdash/llm"
	"github.com/rustyeddy/fxdash/oanda"
	"github.com/rustyeddy/fxdash/sentiment"
)

// sources builds the event, news and quote sources for cfg. Live mode
// takes quotes from OANDA when a token is set and from the mock otherwise.
func sources(cfg *config.Config, log zerolog.Logger) (feeds.Source, feeds.QuoteSource) {
	mock := feeds.NewMock(cfg.Sources.Seed, nil)
	if cfg.Sources.Kind != "live" {
		return mock, mock
	}

	client := httpclient.New(httpclient.Options{
		Timeout:        cfg.Sources.TimeoutDuration(),
		RequestsPerSec: cfg.Sources.RateLimit,
		Burst:          cfg.Sources.Burst,
	})

	var src feeds.Combined
	if cfg.Sources.CalendarURL != "" {
		src.Events = feeds.NewCalendar(cfg.Sources.CalendarURL, client, cfg.Sources.MaxEvents, log)
	}
	if len(cfg.Sources.RSSFeeds) > 0 {
		src.News = feeds.NewRSS(cfg.Sources.RSSFeeds, client, cfg.Sources.MaxNews, log)
	}

	var quotes feeds.QuoteSource = mock
	if cfg.Sources.OandaToken != "" {
		quotes = oanda.NewClient(cfg.Sources.OandaToken, cfg.Sources.OandaEnv, client, log)
	}
	return src, quotes
}

func newEngine(cfg *config.Config, log zerolog.Logger) (*engine.Engine, feeds.Source, sentiment.Scorer, error) {
	scorer, err := sentiment.New(cfg.Sentiment)
	if err != nil {
		return nil, nil, nil, err
	}
	src, quotes := sources(cfg, log)
	eng := engine.New(cfg, src, quotes, scorer, llm.FromConfig(cfg.LLM, log), log)
	return eng, src, scorer, nil
}

func openJournal(cfg *config.Config, dsn string) (*journal.SQLStore, error) {
	if dsn == "" {
		dsn = cfg.Journal.DSN
	}
	return journal.Open(cfg.Journal.Driver, dsn)
}
