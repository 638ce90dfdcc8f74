// market/instruments.go
package market

import (
	"fmt"
	"sort"
	"strings"
)

// Pair is a six letter currency pair such as EURUSD.
type Pair struct {
	Base  string
	Quote string
}

// ParsePair accepts "EURUSD", "EUR/USD" and "EUR_USD" (any case).
func ParsePair(s string) (Pair, error) {
	clean := strings.ToUpper(strings.TrimSpace(s))
	clean = strings.NewReplacer("/", "", "_", "", "-", "").Replace(clean)
	if len(clean) != 6 {
		return Pair{}, fmt.Errorf("pair %q: want six letters", s)
	}
	for _, r := range clean {
		if r < 'A' || r > 'Z' {
			return Pair{}, fmt.Errorf("pair %q: non-letter %q", s, r)
		}
	}
	return Pair{Base: clean[:3], Quote: clean[3:]}, nil
}

// MustPair is ParsePair for literals.
func MustPair(s string) Pair {
	p, err := ParsePair(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pair) String() string { return p.Base + p.Quote }

// Touches reports whether currency is either leg of the pair.
func (p Pair) Touches(currency string) bool {
	return currency == p.Base || currency == p.Quote
}

// PairGroup classifies a pair as major, minor or exotic.
type PairGroup string

const (
	Major  PairGroup = "major"
	Minor  PairGroup = "minor"
	Exotic PairGroup = "exotic"
)

type InstrumentMeta struct {
	Name        string
	Group       PairGroup
	PipLocation int
	// PipValue is the account-currency (USD) value of one pip for one
	// standard lot.
	PipValue float64
}

var Instruments = map[string]InstrumentMeta{
	"EURUSD": {Name: "EURUSD", Group: Major, PipLocation: -4, PipValue: 10.0},
	"GBPUSD": {Name: "GBPUSD", Group: Major, PipLocation: -4, PipValue: 10.0},
	"USDJPY": {Name: "USDJPY", Group: Major, PipLocation: -2, PipValue: 0.067},
	"USDCHF": {Name: "USDCHF", Group: Major, PipLocation: -4, PipValue: 11.2},
	"AUDUSD": {Name: "AUDUSD", Group: Major, PipLocation: -4, PipValue: 10.0},
	"USDCAD": {Name: "USDCAD", Group: Major, PipLocation: -4, PipValue: 7.35},
	"NZDUSD": {Name: "NZDUSD", Group: Major, PipLocation: -4, PipValue: 10.0},

	"EURGBP": {Name: "EURGBP", Group: Minor, PipLocation: -4, PipValue: 10.0},
	"EURJPY": {Name: "EURJPY", Group: Minor, PipLocation: -2, PipValue: 10.0},
	"EURCHF": {Name: "EURCHF", Group: Minor, PipLocation: -4, PipValue: 10.0},
	"EURAUD": {Name: "EURAUD", Group: Minor, PipLocation: -4, PipValue: 10.0},
	"EURCAD": {Name: "EURCAD", Group: Minor, PipLocation: -4, PipValue: 10.0},
	"GBPJPY": {Name: "GBPJPY", Group: Minor, PipLocation: -2, PipValue: 10.0},
	"GBPCHF": {Name: "GBPCHF", Group: Minor, PipLocation: -4, PipValue: 10.0},

	"USDTRY": {Name: "USDTRY", Group: Exotic, PipLocation: -4, PipValue: 10.0},
	"USDZAR": {Name: "USDZAR", Group: Exotic, PipLocation: -4, PipValue: 10.0},
	"USDMXN": {Name: "USDMXN", Group: Exotic, PipLocation: -4, PipValue: 10.0},
	"USDSEK": {Name: "USDSEK", Group: Exotic, PipLocation: -4, PipValue: 10.0},
	"USDNOK": {Name: "USDNOK", Group: Exotic, PipLocation: -4, PipValue: 10.0},
	"USDPLN": {Name: "USDPLN", Group: Exotic, PipLocation: -4, PipValue: 10.0},
}

// MajorCurrencies are the currencies the dashboard filters on by default.
var MajorCurrencies = []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF", "NZD"}

// PipValue returns the USD pip value for lots of pair. Unknown pairs fall
// back to 10 per lot.
func PipValue(pair string, lots float64) float64 {
	meta, ok := Instruments[strings.ToUpper(pair)]
	if !ok {
		return 10.0 * lots
	}
	return meta.PipValue * lots
}

// PairsIn returns the sorted names of all instruments in group.
func PairsIn(group PairGroup) []string {
	var out []string
	for name, meta := range Instruments {
		if meta.Group == group {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
