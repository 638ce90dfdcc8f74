// Package sentiment scores free text as bullish, bearish or neutral.
package sentiment

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/rustyeddy/fxdash/config"
	"github.com/rustyeddy/fxdash/market"
)

type Label string

const (
	Bullish Label = "Bullish"
	Bearish Label = "Bearish"
	Neutral Label = "Neutral"
)

// Result is the outcome of scoring one piece of text. Score is in [-1, 1]
// and Confidence is |Score|.
type Result struct {
	Label        Label   `json:"label"`
	Score        float64 `json:"score"`
	Confidence   float64 `json:"confidence"`
	Subjectivity float64 `json:"subjectivity"`
	Polarity     float64 `json:"polarity"`
	Valence      float64 `json:"valence"`
}

// Scorer never fails: text it cannot read is Neutral.
type Scorer interface {
	Score(text string) Result
}

// Classify maps a score to a label.
func Classify(score float64) Label {
	switch {
	case score >= 0.1:
		return Bullish
	case score <= -0.1:
		return Bearish
	default:
		return Neutral
	}
}

func neutral() Result {
	return Result{Label: Neutral}
}

// FromScore wraps a score computed elsewhere, such as a feed's own
// sentiment, in a Result. The score is clamped to [-1, 1].
func FromScore(score float64) Result {
	score = clamp(score, -1, 1)
	return Result{Label: Classify(score), Score: score, Confidence: math.Abs(score)}
}

func newResult(score, subjectivity, polarity, valence float64) Result {
	score = clamp(score, -1, 1)
	return Result{
		Label:        Classify(score),
		Score:        score,
		Confidence:   math.Abs(score),
		Subjectivity: clamp(subjectivity, 0, 1),
		Polarity:     polarity,
		Valence:      valence,
	}
}

// New returns the scorer selected by cfg.Method.
func New(cfg config.SentimentConfig) (Scorer, error) {
	switch cfg.Method {
	case "", "lexicon":
		return NewLexiconScorer(), nil
	case "keyword":
		return NewKeywordScorer(cfg.BullishKeywords, cfg.BearishKeywords), nil
	default:
		return nil, fmt.Errorf("unknown sentiment method %q", cfg.Method)
	}
}

// Summary aggregates the sentiment of a batch of news.
type Summary struct {
	Overall  float64 `json:"overall"`
	Strength float64 `json:"strength"`
	Bullish  int     `json:"bullish"`
	Bearish  int     `json:"bearish"`
	Neutral  int     `json:"neutral"`
	Label    Label   `json:"label"`
}

func (s Summary) Total() int { return s.Bullish + s.Bearish + s.Neutral }

// ScoreNews uses the feed's precomputed sentiment when present.
func ScoreNews(s Scorer, item market.NewsItem) float64 {
	if item.Sentiment != nil {
		return clamp(*item.Sentiment, -1, 1)
	}
	return s.Score(item.Text()).Score
}

// Aggregate scores every item and returns the mean (Overall), the
// population standard deviation (Strength) and the label counts.
func Aggregate(s Scorer, news []market.NewsItem) Summary {
	if len(news) == 0 {
		return Summary{Label: Neutral}
	}

	var sum Summary
	scores := make([]float64, len(news))
	total := 0.0
	for i, item := range news {
		v := ScoreNews(s, item)
		scores[i] = v
		total += v
		switch Classify(v) {
		case Bullish:
			sum.Bullish++
		case Bearish:
			sum.Bearish++
		default:
			sum.Neutral++
		}
	}

	mean := total / float64(len(scores))
	variance := 0.0
	for _, v := range scores {
		variance += (v - mean) * (v - mean)
	}
	sum.Overall = mean
	sum.Strength = math.Sqrt(variance / float64(len(scores)))
	sum.Label = Classify(mean)
	return sum
}

// tokenize lower-cases text and splits it on anything that is not a
// letter, digit or apostrophe.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
