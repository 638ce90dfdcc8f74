package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	rec := trade("EURUSD", "BUY", 250, time.Date(2024, 3, 15, 14, 20, 30, 0, time.UTC))
	rec.ID = "01HQXYZABCDEFG"

	result := FormatTradeOrg(rec)

	assert.Contains(t, result, "** Trade: BUY EURUSD (01HQXYZA)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":ID: 01HQXYZABCDEFG")
	assert.Contains(t, result, ":EVENT: Non-Farm Payrolls")
	assert.Contains(t, result, ":CLOSED: 2024-03-15T14:20:30Z")
	assert.Contains(t, result, ":ENTRY_PRICE: 1.08500")
	assert.Contains(t, result, ":EXIT_PRICE: 1.08750")
	assert.Contains(t, result, ":PROFIT_LOSS: 250.00")
	assert.Contains(t, result, ":SAFETY_SCORE: 65")
	assert.Contains(t, result, ":SENTIMENT: 0.25")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "*** Thesis")
	assert.Contains(t, result, "*** Execution")
	assert.Contains(t, result, "*** Review")
}

func TestFormatTradeOrgShortID(t *testing.T) {
	t.Parallel()

	rec := trade("GBPUSD", "SELL", -5, time.Now())
	rec.ID = "short"
	assert.Contains(t, FormatTradeOrg(rec), "** Trade: SELL GBPUSD (short)")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	a := trade("EURUSD", "BUY", 1, time.Now())
	a.ID = "A"
	b := trade("USDJPY", "SELL", 2, time.Now())
	b.ID = "B"

	out := FormatTradesOrg([]TradeRecord{a, b})
	assert.Equal(t, 2, strings.Count(out, ":PROPERTIES:"))
	assert.Less(t, strings.Index(out, "(A)"), strings.Index(out, "(B)"))
	assert.Empty(t, FormatTradesOrg(nil))
}
