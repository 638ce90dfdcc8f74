package sentiment

import (
	"math"
	"strings"
	"unicode"
)

// LexiconScorer averages two estimators: a polarity lexicon with
// subjectivity weights, and a rule-based valence lexicon with boosters,
// negation, emphasis and contrast handling.
type LexiconScorer struct{}

func NewLexiconScorer() *LexiconScorer { return &LexiconScorer{} }

func (LexiconScorer) Score(text string) Result {
	if strings.TrimSpace(text) == "" {
		return neutral()
	}
	pol, subj := polarity(text)
	val := valence(text)
	return newResult((pol+val)/2, subj, pol, val)
}

type polarityEntry struct {
	polarity     float64
	subjectivity float64
}

var polarityLexicon = map[string]polarityEntry{
	"good":        {0.7, 0.6},
	"great":       {0.8, 0.75},
	"excellent":   {1.0, 1.0},
	"strong":      {0.43, 0.73},
	"stronger":    {0.45, 0.7},
	"robust":      {0.5, 0.6},
	"solid":       {0.4, 0.5},
	"positive":    {0.23, 0.55},
	"optimistic":  {0.5, 0.8},
	"bullish":     {0.6, 0.7},
	"better":      {0.5, 0.5},
	"best":        {1.0, 0.3},
	"gain":        {0.3, 0.4},
	"gains":       {0.3, 0.4},
	"growth":      {0.3, 0.4},
	"improve":     {0.4, 0.5},
	"improved":    {0.4, 0.5},
	"improving":   {0.4, 0.5},
	"recovery":    {0.35, 0.4},
	"rally":       {0.4, 0.5},
	"surge":       {0.4, 0.5},
	"boost":       {0.35, 0.45},
	"confident":   {0.5, 0.8},
	"stable":      {0.2, 0.4},
	"healthy":     {0.5, 0.5},
	"resilient":   {0.4, 0.6},
	"higher":      {0.25, 0.5},
	"beat":        {0.3, 0.4},
	"bad":         {-0.7, 0.67},
	"poor":        {-0.4, 0.6},
	"weak":        {-0.38, 0.63},
	"weaker":      {-0.4, 0.6},
	"negative":    {-0.3, 0.4},
	"pessimistic": {-0.5, 0.8},
	"bearish":     {-0.6, 0.7},
	"worse":       {-0.4, 0.6},
	"worst":       {-1.0, 1.0},
	"loss":        {-0.3, 0.4},
	"losses":      {-0.3, 0.4},
	"decline":     {-0.3, 0.4},
	"declines":    {-0.3, 0.4},
	"slump":       {-0.45, 0.5},
	"plunge":      {-0.5, 0.5},
	"crisis":      {-0.6, 0.6},
	"recession":   {-0.6, 0.5},
	"fear":        {-0.5, 0.7},
	"fears":       {-0.5, 0.7},
	"concern":     {-0.3, 0.5},
	"concerns":    {-0.3, 0.5},
	"uncertain":   {-0.2, 0.6},
	"uncertainty": {-0.25, 0.6},
	"volatile":    {-0.2, 0.5},
	"risk":        {-0.15, 0.4},
	"lower":       {-0.2, 0.5},
	"miss":        {-0.3, 0.4},
	"slow":        {-0.3, 0.4},
	"slowing":     {-0.3, 0.4},
}

var intensifiers = map[string]float64{
	"very":        1.3,
	"extremely":   1.5,
	"highly":      1.3,
	"really":      1.2,
	"significant": 1.2,
	"sharply":     1.3,
	"slightly":    0.7,
	"somewhat":    0.8,
}

func isNegation(tok string) bool {
	switch tok {
	case "not", "no", "never", "nor", "without", "hardly", "neither":
		return true
	}
	return strings.HasSuffix(tok, "n't")
}

// polarity returns the mean polarity and subjectivity of lexicon words.
// An intensifier scales the next word; a negation flips it at half weight.
func polarity(text string) (float64, float64) {
	tokens := tokenize(text)
	var polSum, subjSum float64
	n := 0
	for i, tok := range tokens {
		entry, ok := polarityLexicon[tok]
		if !ok {
			continue
		}
		p, s := entry.polarity, entry.subjectivity
		if i > 0 {
			if mult, ok := intensifiers[tokens[i-1]]; ok {
				p = clamp(p*mult, -1, 1)
				s = clamp(s*mult, 0, 1)
			}
		}
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			if isNegation(tokens[j]) {
				p *= -0.5
				break
			}
		}
		polSum += p
		subjSum += s
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return polSum / float64(n), subjSum / float64(n)
}

var valenceLexicon = map[string]float64{
	"good": 1.9, "great": 3.1, "excellent": 2.7, "strong": 2.3, "stronger": 2.0,
	"robust": 1.9, "solid": 1.5, "positive": 2.6, "optimistic": 1.3, "bullish": 2.0,
	"better": 1.9, "best": 3.2, "gain": 2.4, "gains": 2.4, "growth": 1.6,
	"improve": 1.9, "improved": 2.1, "improving": 1.8, "recovery": 1.6, "rally": 1.8,
	"surge": 1.5, "boost": 1.7, "confident": 2.2, "stable": 1.2, "healthy": 1.7,
	"resilient": 1.6, "beat": 1.2, "win": 2.8, "success": 2.7, "support": 1.7,
	"bad": -2.5, "poor": -2.1, "weak": -1.9, "weaker": -1.9, "negative": -2.7,
	"pessimistic": -1.5, "bearish": -2.0, "worse": -2.1, "worst": -3.1, "loss": -1.3,
	"losses": -1.7, "decline": -1.5, "declines": -1.5, "slump": -1.9, "plunge": -2.1,
	"crisis": -3.1, "recession": -2.4, "fear": -2.2, "fears": -2.2, "concern": -1.6,
	"concerns": -1.6, "uncertain": -1.2, "uncertainty": -1.4, "volatile": -1.2,
	"risk": -1.1, "miss": -1.2, "slow": -0.9, "slowing": -1.0, "fail": -2.5,
	"crash": -2.7, "threat": -2.4, "panic": -2.7, "turmoil": -2.2,
}

var boosters = map[string]float64{
	"very": 0.293, "extremely": 0.293, "highly": 0.293, "really": 0.293,
	"sharply": 0.293, "significantly": 0.293, "strongly": 0.293, "most": 0.293,
	"slightly": -0.293, "somewhat": -0.293, "barely": -0.293, "marginally": -0.293,
}

const (
	capsIncrement  = 0.733
	negationScalar = -0.74
	exclaimBoost   = 0.292
	normAlpha      = 15.0
)

// valence returns the normalised compound score in [-1, 1].
func valence(text string) float64 {
	raw := strings.Fields(text)
	if len(raw) == 0 {
		return 0
	}

	words := make([]string, len(raw))
	caps := make([]bool, len(raw))
	hasLower := false
	for i, w := range raw {
		trimmed := strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
		})
		words[i] = strings.ToLower(trimmed)
		caps[i] = isShouting(trimmed)
		if !caps[i] {
			hasLower = true
		}
	}
	// Emphasis only counts when the text is not shouted throughout.
	emphasis := hasLower

	sentiments := make([]float64, len(words))
	for i, w := range words {
		v, ok := valenceLexicon[w]
		if !ok {
			continue
		}
		if caps[i] && emphasis {
			if v > 0 {
				v += capsIncrement
			} else {
				v -= capsIncrement
			}
		}
		for j := i - 1; j >= 0 && j >= i-3; j-- {
			b, ok := boosters[words[j]]
			if !ok {
				continue
			}
			scale := 1.0
			if j < i-1 {
				scale = 0.95
			}
			if v > 0 {
				v += b * scale
			} else {
				v -= b * scale
			}
		}
		for j := i - 1; j >= 0 && j >= i-3; j-- {
			if isNegation(words[j]) {
				v *= negationScalar
				break
			}
		}
		sentiments[i] = v
	}

	for i, w := range words {
		if w != "but" {
			continue
		}
		for j := range sentiments {
			if j < i {
				sentiments[j] *= 0.5
			} else if j > i {
				sentiments[j] *= 1.5
			}
		}
		break
	}

	sum := 0.0
	for _, v := range sentiments {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	bangs := math.Min(float64(strings.Count(text, "!")), 4)
	if sum > 0 {
		sum += bangs * exclaimBoost
	} else {
		sum -= bangs * exclaimBoost
	}

	return sum / math.Sqrt(sum*sum+normAlpha)
}

func isShouting(w string) bool {
	letters := 0
	for _, r := range w {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters > 1
}
