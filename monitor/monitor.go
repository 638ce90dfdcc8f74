// Package monitor polls news in the background and queues scored items
// for the dashboard's live stream.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/fxdash/config"
	"github.com/rustyeddy/fxdash/feeds"
	"github.com/rustyeddy/fxdash/market"
	"github.com/rustyeddy/fxdash/sentiment"
)

// Item is a news item with its sentiment at the time it was polled.
type Item struct {
	market.NewsItem
	Result   sentiment.Result `json:"result"`
	PolledAt time.Time        `json:"polled_at"`
}

// Monitor polls a news source on a fixed interval.
type Monitor struct {
	source   feeds.NewsSource
	scorer   sentiment.Scorer
	interval time.Duration
	ttl      time.Duration
	capacity int
	log      zerolog.Logger
	now      func() time.Time

	life    sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	running bool
	first   sync.WaitGroup

	mu       sync.Mutex
	queue    []Item
	dropped  int
	cached   []Item
	cachedAt time.Time
	seen     map[string]struct{}
	subs     map[chan Item]struct{}
}

func New(source feeds.NewsSource, scorer sentiment.Scorer, cfg config.MonitorConfig, log zerolog.Logger) *Monitor {
	capacity := cfg.QueueSize
	if capacity <= 0 {
		capacity = 100
	}
	return &Monitor{
		source:   source,
		scorer:   scorer,
		interval: cfg.IntervalDuration(),
		ttl:      cfg.CacheTTL(),
		capacity: capacity,
		log:      log.With().Str("component", "monitor").Logger(),
		now:      time.Now,
		seen:     map[string]struct{}{},
		subs:     map[chan Item]struct{}{},
	}
}

// Start schedules polling every interval and runs a first poll at once.
// Calling Start on a running monitor does nothing. Cancelling ctx stops
// the monitor.
func (m *Monitor) Start(ctx context.Context) error {
	m.life.Lock()
	defer m.life.Unlock()
	if m.running {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)))
	schedule := fmt.Sprintf("@every %s", m.interval)
	_, err := c.AddFunc(schedule, func() { m.Poll(runCtx) })
	if err != nil {
		cancel()
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}
	c.Start()

	m.cron = c
	m.cancel = cancel
	m.running = true

	// First poll without waiting a full interval.
	m.first.Add(1)
	go func() {
		defer m.first.Done()
		m.Poll(runCtx)
	}()
	go func() {
		<-runCtx.Done()
		m.stop(c)
	}()

	m.log.Info().Str("schedule", schedule).Msg("news monitor started")
	return nil
}

// Stop cancels polling and waits for a running poll to finish.
func (m *Monitor) Stop() {
	m.stop(nil)
}

// stop halts the run driven by c, or the current run when c is nil.
func (m *Monitor) stop(c *cron.Cron) {
	m.life.Lock()
	defer m.life.Unlock()
	if !m.running || (c != nil && c != m.cron) {
		return
	}
	m.cancel()
	<-m.cron.Stop().Done()
	m.first.Wait()
	m.running = false
	m.log.Info().Msg("news monitor stopped")
}

func (m *Monitor) Running() bool {
	m.life.Lock()
	defer m.life.Unlock()
	return m.running
}

// Poll fetches news once, queues unseen items and notifies subscribers.
// Errors are logged and the previous cache is kept.
func (m *Monitor) Poll(ctx context.Context) {
	items, fresh, err := m.fetch(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("news poll failed")
		return
	}
	if !fresh {
		return
	}

	m.mu.Lock()
	var added []Item
	for _, it := range items {
		key := it.URL + "|" + it.Title
		if _, ok := m.seen[key]; ok {
			continue
		}
		m.seen[key] = struct{}{}
		m.push(it)
		added = append(added, it)
	}
	if len(m.seen) > 10*m.capacity {
		m.seen = map[string]struct{}{}
		for _, it := range items {
			m.seen[it.URL+"|"+it.Title] = struct{}{}
		}
	}
	for _, it := range added {
		for ch := range m.subs {
			select {
			case ch <- it:
			default:
			}
		}
	}
	m.mu.Unlock()

	m.log.Debug().Int("fetched", len(items)).Int("new", len(added)).Msg("news polled")
}

// fetch returns the cached items while they are younger than the cache
// duration. fresh reports whether the source was actually called.
func (m *Monitor) fetch(ctx context.Context) ([]Item, bool, error) {
	now := m.now()

	m.mu.Lock()
	if m.cached != nil && now.Sub(m.cachedAt) < m.ttl {
		items := m.cached
		m.mu.Unlock()
		return items, false, nil
	}
	m.mu.Unlock()

	news, err := m.source.FetchNews(ctx)
	if err != nil {
		return nil, false, err
	}
	items := make([]Item, len(news))
	for i, n := range news {
		var res sentiment.Result
		if n.Sentiment != nil {
			res = sentiment.FromScore(*n.Sentiment)
		} else {
			res = m.scorer.Score(n.Text())
		}
		items[i] = Item{NewsItem: n, Result: res, PolledAt: now}
	}

	m.mu.Lock()
	m.cached = items
	m.cachedAt = now
	m.mu.Unlock()
	return items, true, nil
}

// push appends it, dropping the oldest item when the queue is full.
// The caller holds m.mu.
func (m *Monitor) push(it Item) {
	if len(m.queue) >= m.capacity {
		m.queue = m.queue[1:]
		m.dropped++
	}
	m.queue = append(m.queue, it)
}

// Recent drains up to limit queued items, oldest first. With an empty
// queue it returns up to limit items of the last fetch instead. A limit
// of zero or less means no limit.
func (m *Monitor) Recent(limit int) []Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	src := m.queue
	drain := len(src) > 0
	if !drain {
		src = m.cached
	}
	n := len(src)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Item, n)
	copy(out, src[:n])
	if drain {
		m.queue = append([]Item(nil), m.queue[n:]...)
	}
	return out
}

// Pending is the number of queued items.
func (m *Monitor) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Dropped is the number of items discarded because the queue was full.
func (m *Monitor) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

// Subscribe returns a channel of newly polled items and a function that
// unsubscribes and closes it. Slow subscribers miss items rather than
// block the poller.
func (m *Monitor) Subscribe() (<-chan Item, func()) {
	ch := make(chan Item, 32)
	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, ch)
			m.mu.Unlock()
			close(ch)
		})
	}
}
