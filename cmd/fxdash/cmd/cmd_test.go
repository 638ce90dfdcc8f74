package cmd

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fxdash version "+version)
}

func TestSize(t *testing.T) {
	out, err := run(t, "size", "--pair", "EUR/USD", "--balance", "10000", "--risk", "2",
		"--entry", "1.0850", "--stop", "1.0800", "--safety", "80", "--impact", "low")
	require.NoError(t, err)
	assert.Contains(t, out, "EURUSD")
	assert.Contains(t, out, "4000.00")
	assert.Contains(t, out, "$200.00")
	assert.Contains(t, out, "50.0 pips")
}

func TestSizePipValue(t *testing.T) {
	t.Cleanup(func() { tradeFlags.pipVal = 0 })

	out, err := run(t, "size", "--pair", "EURUSD", "--balance", "10000", "--risk", "2",
		"--entry", "1.0850", "--stop", "1.0800", "--safety", "80", "--pip-value", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "40000.00")

	_, err = run(t, "size", "--entry", "1.085", "--stop", "1.08", "--pip-value", "-1")
	assert.Error(t, err)
}

func TestSizeRejectsBadPair(t *testing.T) {
	_, err := run(t, "size", "--pair", "EURO", "--entry", "1.085", "--stop", "1.08")
	assert.Error(t, err)
}

func TestSetup(t *testing.T) {
	out, err := run(t, "setup", "--pair", "EURUSD", "--action", "BUY", "--risk", "1", "--safety", "60",
		"--entry", "1.0850", "--stop", "1.0800", "--target", "1.0950")
	require.NoError(t, err)
	assert.Contains(t, out, "Setup passes all checks")

	out, err = run(t, "setup", "--pair", "EURUSD", "--action", "BUY", "--risk", "1", "--safety", "60",
		"--entry", "1.0850", "--stop", "1.0900", "--target", "1.0950")
	assert.Error(t, err)
	assert.Contains(t, out, "STOP_WRONG_SIDE")
}

func TestJournalCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")

	out, err := run(t, "journal", "add", "--db", db, "--pair", "EURUSD", "--type", "buy",
		"--entry", "1.0850", "--exit", "1.0875", "--pnl", "25", "--event", "Non-Farm Payrolls")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded trade")

	out, err = run(t, "journal", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "EURUSD")
	assert.Contains(t, out, "BUY")

	out, err = run(t, "journal", "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Trades:    1")
	assert.Contains(t, out, "100.0%")

	out, err = run(t, "journal", "export", "--db", db, "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "event_name")
	assert.Contains(t, out, "Non-Farm Payrolls")

	_, err = run(t, "journal", "export", "--db", db, "--format", "xml")
	assert.Error(t, err)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fxdash.yaml")

	out, err := run(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = run(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Sources: mock (7 pairs)")
}

func TestDayBounds(t *testing.T) {
	start, end, err := dayBounds(time.UTC, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 24*time.Hour, end.Sub(start))

	_, _, err = dayBounds(time.UTC, "15/01/2024")
	assert.Error(t, err)
}
