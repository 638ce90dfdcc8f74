package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxdash/config"
	"github.com/rustyeddy/fxdash/market"
	"github.com/rustyeddy/fxdash/sentiment"
)

type fakeNews struct {
	mu    sync.Mutex
	calls int
	items []market.NewsItem
	err   error
}

func (f *fakeNews) FetchNews(ctx context.Context) ([]market.NewsItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.items, f.err
}

func (f *fakeNews) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func news(n int) []market.NewsItem {
	out := make([]market.NewsItem, n)
	for i := range out {
		out[i] = market.NewsItem{
			Title: fmt.Sprintf("Strong growth %d", i),
			URL:   fmt.Sprintf("https://news.example/%d", i),
		}
	}
	return out
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newMonitor(src *fakeNews, queue int) (*Monitor, *clock) {
	clk := &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := New(src, sentiment.NewKeywordScorer(nil, nil), config.MonitorConfig{
		Interval:      "1h",
		CacheDuration: "300s",
		QueueSize:     queue,
	}, zerolog.Nop())
	m.now = clk.now
	return m, clk
}

func TestPollQueuesScoredItems(t *testing.T) {
	t.Parallel()

	src := &fakeNews{items: news(3)}
	m, clk := newMonitor(src, 10)

	m.Poll(context.Background())
	assert.Equal(t, 3, m.Pending())

	got := m.Recent(2)
	require.Len(t, got, 2)
	assert.Equal(t, "Strong growth 0", got[0].Title)
	assert.Equal(t, sentiment.Bullish, got[0].Result.Label)
	assert.Equal(t, clk.t, got[0].PolledAt)
	assert.Equal(t, 1, m.Pending())

	got = m.Recent(0)
	require.Len(t, got, 1)
	assert.Equal(t, "Strong growth 2", got[0].Title)

	got = m.Recent(0)
	assert.Len(t, got, 3, "empty queue falls back to the last fetch")
	assert.Equal(t, 0, m.Pending())
}

func TestPollUsesCache(t *testing.T) {
	t.Parallel()

	src := &fakeNews{items: news(2)}
	m, clk := newMonitor(src, 10)

	m.Poll(context.Background())
	clk.t = clk.t.Add(299 * time.Second)
	m.Poll(context.Background())
	assert.Equal(t, 1, src.Calls())

	clk.t = clk.t.Add(time.Second)
	m.Poll(context.Background())
	assert.Equal(t, 2, src.Calls())
	assert.Equal(t, 2, m.Pending(), "items already seen are not queued twice")
}

func TestQueueDropsOldest(t *testing.T) {
	t.Parallel()

	src := &fakeNews{items: news(5)}
	m, _ := newMonitor(src, 2)

	m.Poll(context.Background())
	assert.Equal(t, 3, m.Dropped())

	got := m.Recent(0)
	require.Len(t, got, 2)
	assert.Equal(t, "Strong growth 3", got[0].Title)
	assert.Equal(t, "Strong growth 4", got[1].Title)
}

func TestPollErrorKeepsRunning(t *testing.T) {
	t.Parallel()

	src := &fakeNews{err: errors.New("feed down")}
	m, clk := newMonitor(src, 10)

	m.Poll(context.Background())
	assert.Empty(t, m.Recent(0))

	src.mu.Lock()
	src.err = nil
	src.items = news(1)
	src.mu.Unlock()
	clk.t = clk.t.Add(time.Minute)

	m.Poll(context.Background())
	assert.Equal(t, 1, m.Pending())
}

func TestPresetSentimentWins(t *testing.T) {
	t.Parallel()

	score := -0.6
	src := &fakeNews{items: []market.NewsItem{{Title: "Strong growth", URL: "https://x.example", Sentiment: &score}}}
	m, _ := newMonitor(src, 10)

	m.Poll(context.Background())
	got := m.Recent(1)
	require.Len(t, got, 1)
	assert.Equal(t, sentiment.Bearish, got[0].Result.Label)
	assert.Equal(t, -0.6, got[0].Result.Score)
	assert.Equal(t, 0.6, got[0].Result.Confidence)
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	src := &fakeNews{items: news(2)}
	m, _ := newMonitor(src, 10)

	ch, unsubscribe := m.Subscribe()
	m.Poll(context.Background())

	first := <-ch
	second := <-ch
	assert.Equal(t, "Strong growth 0", first.Title)
	assert.Equal(t, "Strong growth 1", second.Title)

	unsubscribe()
	unsubscribe()
	_, open := <-ch
	assert.False(t, open)

	m.Poll(context.Background())
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	src := &fakeNews{items: news(1)}
	m, _ := newMonitor(src, 10)

	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Start(context.Background()))
	assert.True(t, m.Running())

	require.Eventually(t, func() bool { return src.Calls() >= 1 }, 2*time.Second, 10*time.Millisecond)

	m.Stop()
	m.Stop()
	assert.False(t, m.Running())
	assert.Equal(t, 1, src.Calls(), "interval is an hour, only the first poll ran")
}

func TestContextCancelStops(t *testing.T) {
	t.Parallel()

	m, _ := newMonitor(&fakeNews{}, 10)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, m.Start(ctx))
	cancel()
	require.Eventually(t, func() bool { return !m.Running() }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Start(context.Background()))
	assert.True(t, m.Running())
	m.Stop()
}
