package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/fxdash/feeds/httpclient"
	"github.com/rustyeddy/fxdash/market"
)

// calendarEntry is one row of the Forex Factory weekly JSON export.
type calendarEntry struct {
	Title    string `json:"title"`
	Country  string `json:"country"`
	Date     string `json:"date"`
	Impact   string `json:"impact"`
	Forecast string `json:"forecast"`
	Previous string `json:"previous"`
	Actual   string `json:"actual"`
}

// Calendar reads economic events from a JSON calendar feed.
type Calendar struct {
	URL        string
	Currencies []string
	MaxEvents  int
	Now        func() time.Time

	client *httpclient.Client
	log    zerolog.Logger
}

func NewCalendar(url string, client *httpclient.Client, maxEvents int, log zerolog.Logger) *Calendar {
	return &Calendar{
		URL:        url,
		Currencies: market.MajorCurrencies,
		MaxEvents:  maxEvents,
		Now:        time.Now,
		client:     client,
		log:        log.With().Str("component", "calendar").Logger(),
	}
}

// FetchEvents returns upcoming events for the tracked currencies, soonest
// first. Events that already happened more than an hour ago are dropped.
func (c *Calendar) FetchEvents(ctx context.Context) ([]market.EconomicEvent, error) {
	body, err := c.client.Get(ctx, c.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}
	events, err := ParseCalendar(body, c.Currencies)
	if err != nil {
		return nil, err
	}

	cutoff := c.Now().Add(-time.Hour)
	upcoming := events[:0]
	for _, e := range events {
		if !e.Time.Before(cutoff) {
			upcoming = append(upcoming, e)
		}
	}

	valid, rejected := market.FilterEvents(upcoming)
	for _, err := range rejected {
		c.log.Warn().Err(err).Msg("dropping calendar event")
	}
	if c.MaxEvents > 0 && len(valid) > c.MaxEvents {
		valid = valid[:c.MaxEvents]
	}
	return valid, nil
}

// ParseCalendar decodes the calendar JSON, keeping entries for currencies
// (all when empty) with a recognised impact, sorted by time.
func ParseCalendar(body []byte, currencies []string) ([]market.EconomicEvent, error) {
	var entries []calendarEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	wanted := map[string]bool{}
	for _, c := range currencies {
		wanted[strings.ToUpper(c)] = true
	}

	var out []market.EconomicEvent
	for _, e := range entries {
		ccy := strings.ToUpper(strings.TrimSpace(e.Country))
		if len(wanted) > 0 && !wanted[ccy] {
			continue
		}
		impact, err := market.ParseImpact(e.Impact)
		if err != nil {
			continue
		}
		at, err := time.Parse(time.RFC3339, e.Date)
		if err != nil {
			continue
		}
		out = append(out, market.EconomicEvent{
			Time:               at.UTC(),
			Currency:           ccy,
			Name:               strings.TrimSpace(e.Title),
			Impact:             impact,
			Forecast:           e.Forecast,
			Previous:           e.Previous,
			Actual:             e.Actual,
			SafetyScore:        50,
			VolatilityExpected: expectedVolatility(impact),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func expectedVolatility(impact market.Impact) float64 {
	switch impact {
	case market.High:
		return 0.8
	case market.Medium:
		return 0.5
	default:
		return 0.2
	}
}
