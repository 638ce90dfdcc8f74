package analysis

import "math"

// minPrices is the shortest history that takes part in a correlation.
const minPrices = 11

// Matrix is a symmetric correlation table indexed like Pairs.
type Matrix struct {
	Pairs  []string    `json:"pairs"`
	Values [][]float64 `json:"values"`
}

// At returns the correlation between two pairs, false when either is not
// in the table.
func (m Matrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, p := range m.Pairs {
		if p == a {
			i = k
		}
		if p == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// Correlation computes the Pearson correlation of daily log returns.
// Series are aligned on their most recent returns. Pairs with fewer than
// eleven prices get zero correlations; the diagonal is always one.
func Correlation(pairs []string, history map[string][]float64) Matrix {
	returns := make([][]float64, len(pairs))
	shortest := math.MaxInt
	for i, p := range pairs {
		prices := history[p]
		if len(prices) < minPrices {
			continue
		}
		returns[i] = logReturns(prices)
		if len(returns[i]) < shortest {
			shortest = len(returns[i])
		}
	}
	for i, r := range returns {
		if r != nil {
			returns[i] = r[len(r)-shortest:]
		}
	}

	values := make([][]float64, len(pairs))
	for i := range values {
		values[i] = make([]float64, len(pairs))
		values[i][i] = 1
	}
	for i := range pairs {
		for j := i + 1; j < len(pairs); j++ {
			if returns[i] == nil || returns[j] == nil {
				continue
			}
			c := pearson(returns[i], returns[j])
			values[i][j] = c
			values[j][i] = c
		}
	}
	return Matrix{Pairs: pairs, Values: values}
}

func logReturns(prices []float64) []float64 {
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] <= 0 || prices[i] <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(prices[i]/prices[i-1]))
	}
	return out
}

// pearson is zero when either series is constant.
func pearson(x, y []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
