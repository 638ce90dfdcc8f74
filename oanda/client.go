// Package oanda reads daily candles from the OANDA v20 REST API and
// serves them as quotes and close history.
package oanda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/fxdash/feeds/httpclient"
	"github.com/rustyeddy/fxdash/market"
)

const (
	// PracticeURL is the URL for OANDA's practice/demo environment
	PracticeURL = "https://api-fxpractice.oanda.com"
	// LiveURL is the URL for OANDA's live trading environment
	LiveURL = "https://api-fxtrade.oanda.com"
)

// Granularity represents the time frame for candles
type Granularity string

const (
	M1  Granularity = "M1"
	M5  Granularity = "M5"
	M15 Granularity = "M15"
	H1  Granularity = "H1"
	H4  Granularity = "H4"
	D   Granularity = "D"
	W   Granularity = "W"
)

// PriceComponent represents the price component for candles
type PriceComponent string

const (
	MidPrice PriceComponent = "M"
	BidPrice PriceComponent = "B"
	AskPrice PriceComponent = "A"
)

// maxCount is the API's limit on candles per request.
const maxCount = 5000

var ErrMissingToken = errors.New("oanda: missing token")

// Client represents an OANDA API client
type Client struct {
	baseURL string
	token   string
	http    *httpclient.Client
	log     zerolog.Logger
	now     func() time.Time
}

// NewClient creates a client for env "practice" or "live". Requests go
// through the shared rate limited client.
func NewClient(token, env string, hc *httpclient.Client, log zerolog.Logger) *Client {
	baseURL := PracticeURL
	if env == "live" {
		baseURL = LiveURL
	}
	if hc == nil {
		hc = httpclient.New(httpclient.Options{})
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    hc,
		log:     log.With().Str("component", "oanda").Logger(),
		now:     time.Now,
	}
}

// Candle is one OHLC bar.
type Candle struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   int
	Complete bool
}

// CandlesRequest represents parameters for fetching historical candles
type CandlesRequest struct {
	Instrument  string         // e.g. "EUR_USD"
	Price       PriceComponent // default MidPrice
	Granularity Granularity    // default D
	Count       int            // max 5000
	// IncludeIncomplete keeps the still-forming last candle.
	IncludeIncomplete bool
}

type candleData struct {
	O string `json:"o"`
	H string `json:"h"`
	L string `json:"l"`
	C string `json:"c"`
}

type apiCandle struct {
	Complete bool        `json:"complete"`
	Volume   int         `json:"volume"`
	Time     string      `json:"time"`
	Mid      *candleData `json:"mid,omitempty"`
	Bid      *candleData `json:"bid,omitempty"`
	Ask      *candleData `json:"ask,omitempty"`
}

type candlesResponse struct {
	Instrument  string      `json:"instrument"`
	Granularity string      `json:"granularity"`
	Candles     []apiCandle `json:"candles"`
}

// Instrument converts a pair such as "EUR/USD" into "EUR_USD".
func Instrument(pair string) (string, error) {
	p, err := market.ParsePair(pair)
	if err != nil {
		return "", err
	}
	return p.Base + "_" + p.Quote, nil
}

// GetCandles fetches historical candles from OANDA
func (c *Client) GetCandles(ctx context.Context, req CandlesRequest) ([]Candle, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}
	if req.Instrument == "" {
		return nil, fmt.Errorf("instrument is required")
	}
	if req.Count > maxCount {
		return nil, fmt.Errorf("count cannot exceed %d", maxCount)
	}
	if req.Price == "" {
		req.Price = MidPrice
	}
	if req.Granularity == "" {
		req.Granularity = D
	}

	params := url.Values{}
	params.Set("price", string(req.Price))
	params.Set("granularity", string(req.Granularity))
	if req.Count > 0 {
		params.Set("count", strconv.Itoa(req.Count))
	}
	apiURL := fmt.Sprintf("%s/v3/instruments/%s/candles?%s", c.baseURL, req.Instrument, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("oanda candles %s: %w", req.Instrument, err)
	}
	defer resp.Body.Close()

	var apiResp candlesResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	candles := make([]Candle, 0, len(apiResp.Candles))
	for _, ac := range apiResp.Candles {
		if !ac.Complete && !req.IncludeIncomplete {
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, ac.Time)
		if err != nil {
			return nil, fmt.Errorf("parse time %s: %w", ac.Time, err)
		}

		var data *candleData
		switch req.Price {
		case BidPrice:
			data = ac.Bid
		case AskPrice:
			data = ac.Ask
		default:
			data = ac.Mid
		}
		if data == nil {
			return nil, fmt.Errorf("candle %s has no %s prices", ac.Time, req.Price)
		}

		candle, err := data.parse()
		if err != nil {
			return nil, err
		}
		candle.Time = t.UTC()
		candle.Volume = ac.Volume
		candle.Complete = ac.Complete
		candles = append(candles, candle)
	}
	return candles, nil
}

func (d candleData) parse() (Candle, error) {
	var (
		c   Candle
		err error
	)
	if c.Open, err = strconv.ParseFloat(d.O, 64); err != nil {
		return c, fmt.Errorf("parse open price: %w", err)
	}
	if c.High, err = strconv.ParseFloat(d.H, 64); err != nil {
		return c, fmt.Errorf("parse high price: %w", err)
	}
	if c.Low, err = strconv.ParseFloat(d.L, 64); err != nil {
		return c, fmt.Errorf("parse low price: %w", err)
	}
	if c.Close, err = strconv.ParseFloat(d.C, 64); err != nil {
		return c, fmt.Errorf("parse close price: %w", err)
	}
	return c, nil
}

// History returns up to days daily closes, oldest first.
func (c *Client) History(ctx context.Context, pair string, days int) ([]float64, error) {
	inst, err := Instrument(pair)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, nil
	}
	candles, err := c.GetCandles(ctx, CandlesRequest{Instrument: inst, Granularity: D, Count: days})
	if err != nil {
		return nil, err
	}
	closes := make([]float64, len(candles))
	for i, cd := range candles {
		closes[i] = cd.Close
	}
	return closes, nil
}

// Quotes prices each pair from its forming daily candle, with the change
// measured against the previous close. Pairs that fail are logged and
// left out; an error is returned only when every pair failed.
func (c *Client) Quotes(ctx context.Context, pairs []string) (map[string]market.MarketData, error) {
	out := make(map[string]market.MarketData, len(pairs))
	var errs []error
	for _, name := range pairs {
		q, err := c.quote(ctx, name)
		if err != nil {
			c.log.Warn().Err(err).Str("pair", name).Msg("quote failed")
			errs = append(errs, err)
			continue
		}
		out[q.Symbol] = q
	}
	if len(pairs) > 0 && len(errs) == len(pairs) {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func (c *Client) quote(ctx context.Context, name string) (market.MarketData, error) {
	pair, err := market.ParsePair(name)
	if err != nil {
		return market.MarketData{}, err
	}
	inst := pair.Base + "_" + pair.Quote

	mid, err := c.GetCandles(ctx, CandlesRequest{Instrument: inst, Granularity: D, Count: 2, IncludeIncomplete: true})
	if err != nil {
		return market.MarketData{}, err
	}
	if len(mid) == 0 {
		return market.MarketData{}, fmt.Errorf("no candles for %s", inst)
	}

	last := mid[len(mid)-1]
	prev := last.Open
	if len(mid) > 1 {
		prev = mid[len(mid)-2].Close
	}
	change := last.Close - prev
	changePct := 0.0
	if prev != 0 {
		changePct = change / prev * 100
	}
	return market.MarketData{
		Symbol:        pair.String(),
		Price:         last.Close,
		Change:        change,
		ChangePercent: changePct,
		Volume:        int64(last.Volume),
		Time:          c.now(),
	}, nil
}
