package sentiment

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxdash/config"
	"github.com/rustyeddy/fxdash/market"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  Label
	}{
		{1, Bullish},
		{0.1, Bullish},
		{0.0999, Neutral},
		{0, Neutral},
		{-0.0999, Neutral},
		{-0.1, Bearish},
		{-1, Bearish},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %v", tt.score)
	}
}

func TestKeywordScorer(t *testing.T) {
	t.Parallel()

	k := NewKeywordScorer(nil, nil)
	tests := []struct {
		name  string
		text  string
		score float64
		label Label
	}{
		{"bullish words", "Strong growth and a rise in jobs", 0.3, Bullish},
		{"bearish words", "Recession fears: decline and fall", -0.3, Bearish},
		{"mixed", "Strong data offset by weak outlook", 0, Neutral},
		{"substrings do not count", "Upward uptake in downtown", 0, Neutral},
		{"case insensitive", "GROWTH", 0.1, Bullish},
		{"empty", "", 0, Neutral},
		{"whitespace", "   \n\t", 0, Neutral},
		{"clamped", "growth increase rise up positive strong boost gain improve bullish optimistic recovery", 1, Bullish},
		{"repeats count once", "rise rise rise rise rise", 0.1, Bullish},
		{"inflected bullish", "EUR rises as growth gains momentum", 0.3, Bullish},
		{"inflected bearish", "Stocks fall, dollar drops on weak data, losses mount", -0.4, Bearish},
		{"dropped e", "Rising yields", 0.1, Bullish},
		{"doubled consonant", "Oil dropped", -0.1, Bearish},
		{"longer words are not inflections", "Upper band update", 0, Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := k.Score(tt.text)
			assert.InDelta(t, tt.score, res.Score, 1e-9)
			assert.Equal(t, tt.label, res.Label)
			assert.InDelta(t, math.Abs(tt.score), res.Confidence, 1e-9)
		})
	}
}

func TestKeywordScorerCustomLists(t *testing.T) {
	t.Parallel()

	k := NewKeywordScorer([]string{"Hawkish"}, []string{"dovish"})
	assert.InDelta(t, 0.1, k.Score("a hawkish central bank").Score, 1e-9)
	assert.InDelta(t, -0.1, k.Score("dovish tone").Score, 1e-9)
	assert.InDelta(t, 0, k.Score("strong growth").Score, 1e-9)
}

func TestLexiconScorerDirection(t *testing.T) {
	t.Parallel()

	l := NewLexiconScorer()

	pos := l.Score("Strong economic growth supports the dollar")
	assert.Equal(t, Bullish, pos.Label)
	assert.Greater(t, pos.Polarity, 0.0)
	assert.Greater(t, pos.Valence, 0.0)

	neg := l.Score("Recession fears deepen as markets plunge")
	assert.Equal(t, Bearish, neg.Label)
	assert.Less(t, neg.Score, -0.5)

	flat := l.Score("The committee meets on Thursday")
	assert.Equal(t, Neutral, flat.Label)
	assert.Zero(t, flat.Score)
}

func TestLexiconScorerRules(t *testing.T) {
	t.Parallel()

	l := NewLexiconScorer()

	t.Run("negation", func(t *testing.T) {
		plain := l.Score("growth is strong")
		negated := l.Score("growth is not strong")
		assert.Less(t, negated.Score, plain.Score)
	})

	t.Run("exclamation", func(t *testing.T) {
		assert.Greater(t, l.Score("Great gains!!!").Valence, l.Score("Great gains").Valence)
	})

	t.Run("caps emphasis", func(t *testing.T) {
		assert.Greater(t, l.Score("GREAT gains today").Valence, l.Score("great gains today").Valence)
	})

	t.Run("but shifts weight to the second clause", func(t *testing.T) {
		assert.Greater(t, l.Score("bad start but strong finish").Valence, 0.0)
	})

	t.Run("booster", func(t *testing.T) {
		assert.Greater(t, l.Score("very strong").Valence, l.Score("strong").Valence)
	})
}

func TestScorersContract(t *testing.T) {
	t.Parallel()

	texts := []string{
		"",
		" ",
		"Fed signals rate hikes amid strong growth",
		"CRISIS! CRISIS! CRISIS!",
		"not bad, not bad at all",
		strings.Repeat("excellent best great ", 50),
		strings.Repeat("worst crisis panic ", 50),
	}
	for _, s := range []Scorer{NewLexiconScorer(), NewKeywordScorer(nil, nil)} {
		for _, text := range texts {
			first := s.Score(text)
			assert.Equal(t, first, s.Score(text), "idempotent for %q", text)
			assert.GreaterOrEqual(t, first.Score, -1.0)
			assert.LessOrEqual(t, first.Score, 1.0)
			assert.InDelta(t, math.Abs(first.Score), first.Confidence, 1e-12)
			assert.Equal(t, Classify(first.Score), first.Label)
			assert.GreaterOrEqual(t, first.Subjectivity, 0.0)
			assert.LessOrEqual(t, first.Subjectivity, 1.0)
		}
		assert.Equal(t, Result{Label: Neutral}, s.Score(""))
	}
}

func TestFromScore(t *testing.T) {
	t.Parallel()

	r := FromScore(-0.6)
	assert.Equal(t, Bearish, r.Label)
	assert.Equal(t, -0.6, r.Score)
	assert.Equal(t, 0.6, r.Confidence)

	assert.Equal(t, Result{Label: Bullish, Score: 1, Confidence: 1}, FromScore(3))
	assert.Equal(t, Result{Label: Neutral}, FromScore(0))
}

func ptr(v float64) *float64 { return &v }

func TestAggregate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	news := []market.NewsItem{
		{Title: "a", Sentiment: ptr(0.5), Published: now},
		{Title: "b", Sentiment: ptr(-0.5), Published: now},
		{Title: "c", Sentiment: ptr(0), Published: now},
	}

	sum := Aggregate(NewKeywordScorer(nil, nil), news)
	assert.InDelta(t, 0, sum.Overall, 1e-12)
	assert.InDelta(t, math.Sqrt(0.5/3), sum.Strength, 1e-12)
	assert.Equal(t, 1, sum.Bullish)
	assert.Equal(t, 1, sum.Bearish)
	assert.Equal(t, 1, sum.Neutral)
	assert.Equal(t, 3, sum.Total())
	assert.Equal(t, Neutral, sum.Label)
}

func TestAggregateScoresText(t *testing.T) {
	t.Parallel()

	news := []market.NewsItem{
		{Title: "Strong growth", Summary: "jobs rise"},
		{Title: "Strong gain", Summary: "recovery"},
	}
	sum := Aggregate(NewKeywordScorer(nil, nil), news)
	assert.InDelta(t, 0.3, sum.Overall, 1e-9)
	assert.InDelta(t, 0, sum.Strength, 1e-9)
	assert.Equal(t, 2, sum.Bullish)
	assert.Equal(t, Bullish, sum.Label)
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	sum := Aggregate(NewLexiconScorer(), nil)
	assert.Equal(t, Summary{Label: Neutral}, sum)
}

func TestNew(t *testing.T) {
	t.Parallel()

	s, err := New(config.SentimentConfig{Method: "lexicon"})
	require.NoError(t, err)
	assert.IsType(t, &LexiconScorer{}, s)

	s, err = New(config.SentimentConfig{Method: "keyword"})
	require.NoError(t, err)
	assert.IsType(t, &KeywordScorer{}, s)

	_, err = New(config.SentimentConfig{Method: "crystal-ball"})
	assert.Error(t, err)
}
