package sentiment

import "strings"

var (
	DefaultBullishKeywords = []string{
		"growth", "increase", "rise", "up", "positive", "strong",
		"boost", "gain", "improve", "bullish", "optimistic", "recovery",
	}
	DefaultBearishKeywords = []string{
		"decline", "fall", "drop", "down", "negative", "weak",
		"loss", "decrease", "bearish", "pessimistic", "recession", "crisis",
	}
)

// KeywordScorer counts how many keywords from each list appear in the
// text. A keyword counts once however often it appears, and it matches a
// whole token or the token with an inflection ("rises", "losses",
// "dropped", "rising"), but not a longer word that merely starts with it
// ("uptake", "downtown"). Each net keyword moves the score by 0.1.
type KeywordScorer struct {
	bullish []string
	bearish []string
}

// NewKeywordScorer falls back to the default lists for empty arguments.
func NewKeywordScorer(bullish, bearish []string) *KeywordScorer {
	if len(bullish) == 0 {
		bullish = DefaultBullishKeywords
	}
	if len(bearish) == 0 {
		bearish = DefaultBearishKeywords
	}
	return &KeywordScorer{bullish: normalize(bullish), bearish: normalize(bearish)}
}

func normalize(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func (k *KeywordScorer) Score(text string) Result {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return neutral()
	}

	bull := countPresent(k.bullish, tokens)
	bear := countPresent(k.bearish, tokens)

	score := clamp(float64(bull-bear)/10, -1, 1)
	subjectivity := float64(bull+bear) / float64(len(tokens))
	return newResult(score, subjectivity, score, score)
}

func countPresent(keywords, tokens []string) int {
	n := 0
	for _, kw := range keywords {
		for _, tok := range tokens {
			if inflectionOf(tok, kw) {
				n++
				break
			}
		}
	}
	return n
}

var inflections = []string{"", "s", "es", "d", "ed", "ing", "er", "ers", "est", "ly", "ment", "ments"}

// inflectionOf reports whether tok is kw plus a common English suffix.
// A trailing "e" may be dropped before "ing" ("rising") and a final
// consonant doubled before "ed" or "ing" ("dropped").
func inflectionOf(tok, kw string) bool {
	if rest, ok := strings.CutPrefix(tok, kw); ok {
		for _, suffix := range inflections {
			if rest == suffix {
				return true
			}
		}
		return false
	}

	n := len(kw)
	if n < 2 {
		return false
	}
	if strings.HasSuffix(kw, "e") {
		return tok == kw[:n-1]+"ing"
	}
	if !strings.ContainsRune("aeiouwy", rune(kw[n-1])) {
		doubled := kw + kw[n-1:]
		return tok == doubled+"ed" || tok == doubled+"ing"
	}
	return false
}
